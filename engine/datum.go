// Package engine implements the Binary Assembly Framework build engine: a
// dependency-resolving traversal that turns a user-declared schema and a
// decoded input tree into a fully built datum tree of known sizes and
// offsets, then serializes it to bytes.
package engine

// Datum is the live, positioned node every concrete kind implements. A
// Datum starts out as an instance (never a model — models only ever live
// as Model values) with isBuilt false, and becomes built at most once.
type Datum interface {
	// Build absorbs data into this instance. It fails with Build if this
	// datum is not an instance, or is already built.
	Build(data any) error

	// Size returns the total size in bytes of this datum. Before build it
	// may fail with Dependency when the size is data-dependent (unsized
	// Bytes, unbounded Array, Optional, Align).
	Size() (int, error)

	// Bytes returns the serialized form of this datum. It fails with
	// Build if this datum has not been built.
	Bytes() ([]byte, error)

	// Offset returns this datum's offset relative to the root: 0 if this
	// is the root, otherwise the parent container's reported offset for
	// this child.
	Offset() (int, error)

	// Root walks the parent chain to the tree's root datum.
	Root() Datum

	// parentContainer returns the owning container, or nil at the root.
	parentContainer() Container

	setParent(c Container)

	isInstance() bool
	isBuilt() bool
	markBuilt()

	// hint returns the generic type hint carried by this datum, used by
	// Array when it was declared without an explicit element model.
	hint() Model
	setHint(m Model)
}

// Model is a reusable schema template: immutable after declaration, shared
// read-only across every build that references it. Calling instantiate
// produces a fresh, uniquely owned Datum positioned under parent.
type Model interface {
	instantiate(parent Container) (Datum, error)
}

// Container is a Datum that owns child datums and can report their offset.
// Block and Array implement Container. Optional does not: its inner datum
// is parented to the Optional's own container. Align has no children.
type Container interface {
	Datum

	// items returns the current child instances, in canonical order. If
	// useDefaults is true, missing or not-yet-built children are
	// substituted with fresh default instances so offset queries do not
	// fail mid-build for lack of an item.
	items(useDefaults bool) ([]Datum, error)

	// offsetOf returns the byte offset of child relative to the root,
	// computed as this container's own offset plus the sum of sizes of
	// preceding siblings in canonical order.
	offsetOf(child Datum) (int, error)
}

// base is embedded by every concrete datum kind; it implements the
// lifecycle bookkeeping common to all of them.
type base struct {
	parent   Container
	built    bool
	genHint  Model
	haveHint bool
	isInst   bool
	buildCtx *BuildContext
}

// contextPtr returns the BuildContext set on this datum, if any. Only the
// root datum of a tree ever has one set directly; buildContextOf walks to
// the root to find it.
func (b *base) contextPtr() *BuildContext { return b.buildCtx }
func (b *base) setContext(c *BuildContext) { b.buildCtx = c }

// buildContextOf returns the BuildContext active for the tree containing d,
// or nil if the tree was built with none.
func buildContextOf(d Datum) *BuildContext {
	root := rootOf(d)
	if c, ok := root.(interface{ contextPtr() *BuildContext }); ok {
		return c.contextPtr()
	}
	return nil
}

func (b *base) parentContainer() Container { return b.parent }
func (b *base) setParent(c Container)      { b.parent = c }
func (b *base) isInstance() bool           { return b.isInst }
func (b *base) isBuilt() bool              { return b.built }
func (b *base) markBuilt()                 { b.built = true }
func (b *base) markInstance()              { b.isInst = true }

// Preprocessor is the user-overridable "preprocess" hook from spec.md §4.1:
// it runs before the variant's built-in validation and may transform raw
// input.
type Preprocessor func(data any) (any, error)

func (b *base) hint() Model {
	if !b.haveHint {
		return nil
	}
	return b.genHint
}

func (b *base) setHint(m Model) {
	b.genHint = m
	b.haveHint = true
}

// Offset computes the offset shared by every datum kind: zero at the root,
// otherwise delegated to the parent container.
func offsetOf(d Datum) (int, error) {
	p := d.parentContainer()
	if p == nil {
		return 0, nil
	}
	return p.offsetOf(d)
}

// Root walks the parent chain to the tree's root, shared by every kind.
func rootOf(d Datum) Datum {
	p := d.parentContainer()
	if p == nil {
		return d
	}
	var cur Datum = p
	for {
		next := cur.parentContainer()
		if next == nil {
			return cur
		}
		cur = next
	}
}

// checkBuildOnce is the entry guard every concrete Build method must call
// first: it fails with Build on a non-instance or an already-built datum,
// then marks built before the caller does any work, so inner accesses
// observe a self-consistent state per spec.md §4.1.
func checkBuildOnce(d Datum) error {
	if !d.isInstance() {
		return newError(Build, "attempted to build a non-instantiated model")
	}
	if d.isBuilt() {
		return newError(Build, "attempted to build an already-built datum")
	}
	d.markBuilt()
	return nil
}

// checkBytesReady fails with Build if d has not been built.
func checkBytesReady(d Datum) error {
	if !d.isBuilt() {
		return newError(Build, "attempted to get bytes from a datum that has not yet been built")
	}
	return nil
}

// propagateHint implements the instantiate-time hint inheritance rule from
// spec.md §4.1: a model's own hint, if unset, is inherited from the parent.
func propagateHint(d Datum, own Model, haveOwn bool, parent Container) {
	if haveOwn {
		d.setHint(own)
		return
	}
	if parent == nil {
		return
	}
	if h := parent.hint(); h != nil {
		d.setHint(h)
	}
}
