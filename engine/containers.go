package engine

// ContainerItems exposes a Container's current children (padded with
// defaults) to external packages such as engine/diagnostics, without
// making the items method itself part of the public Container interface.
func ContainerItems(c Container) ([]Datum, error) {
	return c.items(true)
}

// TypeLabel exposes a Datum's human-readable type label to external
// packages such as engine/diagnostics and the CLI formatter.
func TypeLabel(d Datum) string {
	return datumLabel(d)
}

// containerSize implements the shared Container.size() formula: the sum of
// every child's size, using default-padded items so a mid-build query does
// not fail for lack of an item; a child whose size depends on data it has
// not yet absorbed still reports Dependency.
func containerSize(c Container) (int, error) {
	items, err := c.items(true)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, it := range items {
		sz, err := it.Size()
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// containerBytes implements the shared Container.Bytes() formula:
// concatenation of every child's bytes in canonical order. Only called
// after the container itself is built, by which point every real item
// exists and is built.
func containerBytes(c Container) ([]byte, error) {
	items, err := c.items(false)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, it := range items {
		b, err := it.Bytes()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// containerOffsetOf implements the shared Container.offsetOf formula:
// offset is the container's own offset plus the sum of sizes of every
// preceding sibling in canonical order, using default-padded items. The
// inner datum of an Optional is found at the Optional's position.
func containerOffsetOf(c Container, target Datum) (int, error) {
	items, err := c.items(true)
	if err != nil {
		return 0, err
	}
	off, err := c.Offset()
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if it == target {
			return off, nil
		}
		if o, ok := it.(*Optional); ok && o.item == target {
			return off, nil
		}
		sz, err := it.Size()
		if err != nil {
			return 0, err
		}
		off += sz
	}
	return 0, newError(Internal, "could not find datum among its parent's children")
}
