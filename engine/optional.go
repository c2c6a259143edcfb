package engine

// OptionalModel wraps an inner data-absorbing model; absent or empty input
// resolves to size 0 instead of building the inner datum (spec.md §4.7).
type OptionalModel struct {
	inner Model
}

// Optional declares an optional field. inner must be a real datum model,
// not a generator — wrapping one (e.g. Align) is a schema-authoring bug
// and panics, since it can never depend on input.
func Optional(inner Model) *OptionalModel {
	if _, isGen := inner.(generator); isGen {
		panic("engine: Optional: inner model must be a data-absorbing datum, not a generator")
	}
	return &OptionalModel{inner: inner}
}

func (m *OptionalModel) label() string { return "Optional[" + modelLabel(m.inner) + "]" }
func (m *OptionalModel) kindTag() string { return "optional" }

func (m *OptionalModel) instantiate(parent Container) (Datum, error) {
	o := &Optional{model: m}
	o.setParent(parent)
	o.markInstance()
	propagateHint(o, nil, false, parent)
	return o, nil
}

// Optional is a built (or being-built) optional-field instance.
type Optional struct {
	base
	model *OptionalModel
	item  Datum
	has   bool
}

func (o *Optional) label() string   { return o.model.label() }
func (o *Optional) kindTag() string { return "optional" }

func isEmptyInput(data any) bool {
	if data == nil {
		return true
	}
	if seq, ok := data.([]any); ok {
		return len(seq) == 0
	}
	return false
}

func (o *Optional) Build(data any) error {
	if err := checkBuildOnce(o); err != nil {
		return err
	}
	if isEmptyInput(data) {
		return nil
	}
	// Per spec.md §4.7, the inner instance shares the wrapper's own parent
	// rather than the wrapper itself — the Optional is a transparent
	// pass-through, not an extra level of nesting.
	item, err := o.model.inner.instantiate(o.parentContainer())
	if err != nil {
		return err
	}
	if err := item.Build(data); err != nil {
		return err
	}
	o.item = item
	o.has = true
	return nil
}

// Present reports whether a non-empty value was built into this Optional.
// Querying before build fails with Dependency, since absence is otherwise
// ambiguous (spec.md §4.7's boolean projection).
func (o *Optional) Present() (bool, error) {
	if !o.isBuilt() {
		return false, dependencyErr("Optional: presence unknown before build")
	}
	return o.has, nil
}

func (o *Optional) Size() (int, error) {
	if !o.isBuilt() {
		return 0, dependencyErr("Optional: size unknown before build")
	}
	if !o.has {
		return 0, nil
	}
	return o.item.Size()
}

func (o *Optional) Bytes() ([]byte, error) {
	if err := checkBytesReady(o); err != nil {
		return nil, err
	}
	if !o.has {
		return []byte{}, nil
	}
	return o.item.Bytes()
}

func (o *Optional) Offset() (int, error) { return offsetOf(o) }
func (o *Optional) Root() Datum          { return rootOf(o) }

// Inner returns the wrapped model.
func (m *OptionalModel) Inner() Model { return m.inner }
