package engine

import "fmt"

// ArrayModel declares a sequence: an element model (possibly inferred from
// a generic hint) and an optional declared count (spec.md §4.5).
type ArrayModel struct {
	elem      Model
	haveElem  bool
	count     int
	haveCount bool
}

// ArrayOf declares an array with an explicit element model and no fixed
// count; count is inferred from the input length.
func ArrayOf(elem Model) *ArrayModel {
	return &ArrayModel{elem: elem, haveElem: true}
}

// ArrayN declares an array with an explicit element model and a fixed
// count; input of a different length fails with Validation.
func ArrayN(elem Model, count int) *ArrayModel {
	return &ArrayModel{elem: elem, haveElem: true, count: count, haveCount: true}
}

// Array declares an array with no explicit element model, relying on a
// generic hint propagated from an enclosing WithHint declaration
// (spec.md's "generic_type_hint", Design Notes §9).
func Array() *ArrayModel {
	return &ArrayModel{}
}

// WithCount attaches a fixed element count to an Array() declared without
// one.
func (m *ArrayModel) WithCount(n int) *ArrayModel {
	cp := *m
	cp.count = n
	cp.haveCount = true
	return &cp
}

func (m *ArrayModel) label() string {
	elemLabel := "?"
	if m.haveElem {
		elemLabel = modelLabel(m.elem)
	}
	return fmt.Sprintf("Array[%s]", elemLabel)
}

func (m *ArrayModel) kindTag() string { return "array" }

func (m *ArrayModel) instantiate(parent Container) (Datum, error) {
	a := &Array{model: m}
	a.setParent(parent)
	a.markInstance()
	propagateHint(a, nil, false, parent)
	return a, nil
}

// WithHint wraps model so instances it produces report hint as their
// generic type hint — the Go analogue of a generic container declaration
// propagating its type parameter to an Array declared without an explicit
// element model (spec.md §4.1, SPEC_FULL.md §9).
func WithHint(model Model, hint Model) Model {
	return &hintedModel{inner: model, hint: hint}
}

type hintedModel struct {
	inner Model
	hint  Model
}

func (m *hintedModel) instantiate(parent Container) (Datum, error) {
	d, err := m.inner.instantiate(parent)
	if err != nil {
		return nil, err
	}
	d.setHint(m.hint)
	return d, nil
}

// Array is a built (or being-built) sequence instance.
type Array struct {
	base
	model     *ArrayModel
	elemModel Model
	elems    []Datum
	count     int
	haveCount bool
}

func (a *Array) label() string {
	elemLabel := "?"
	if a.elemModel != nil {
		elemLabel = modelLabel(a.elemModel)
	}
	return fmt.Sprintf("Array[%s]", elemLabel)
}
func (a *Array) kindTag() string { return "array" }

// Len returns the declared count if known, else the current item count
// (spec.md §4.5's "len").
func (a *Array) Len() int {
	if a.haveCount {
		return a.count
	}
	return len(a.elems)
}

func (a *Array) Build(data any) error {
	if err := checkBuildOnce(a); err != nil {
		return err
	}
	elem := a.model.elem
	if !a.model.haveElem {
		elem = a.hint()
		if elem == nil {
			return newError(Spec, "Array has no declared element model or generic hint")
		}
	}
	a.elemModel = elem

	seq, ok := data.([]any)
	if !ok {
		return newError(Validation, "Array: expected an ordered sequence, got %T", data)
	}

	if a.model.haveCount {
		if a.model.count < 0 {
			return newError(Spec, "Array: declared count must not be negative, got %d", a.model.count)
		}
		if len(seq) != a.model.count {
			return newError(Validation, "Array: expected %d elements, got %d", a.model.count, len(seq))
		}
	}
	a.count = len(seq)
	a.haveCount = true

	items := make([]Datum, len(seq))
	for i, raw := range seq {
		if d, ok := raw.(Datum); ok {
			if !sameKind(d, elem) {
				return newError(Build, "Array: element %d is a datum that does not match the declared element model %s", i, modelLabel(elem))
			}
			items[i] = d
			continue
		}
		model, payload, err := resolveRefinement(elem, raw)
		if err != nil {
			return withPath(err, fmt.Sprintf("Array[%s] → (element %d)", modelLabel(elem), i))
		}
		child, err := model.instantiate(a)
		if err != nil {
			return withPath(err, fmt.Sprintf("Array[%s] → (element %d)", modelLabel(elem), i))
		}
		if err := child.Build(payload); err != nil {
			return withPath(err, fmt.Sprintf("Array[%s] → (element %d)", modelLabel(elem), i))
		}
		items[i] = child
	}
	a.elems = items
	return nil
}

func (a *Array) items(useDefaults bool) ([]Datum, error) {
	if !useDefaults {
		if !a.haveCount && len(a.elems) == 0 {
			return nil, dependencyErr("Array: no items and no declared count yet")
		}
		if a.haveCount && len(a.elems) < a.count {
			return nil, dependencyErr("Array: is not finished building")
		}
		return a.elems, nil
	}
	if !a.haveCount {
		if len(a.elems) == 0 {
			return nil, dependencyErr("Array: cannot pad an array with no known count")
		}
		return a.elems, nil
	}
	missing := a.count - len(a.elems)
	if missing <= 0 {
		return a.elems, nil
	}
	if a.elemModel == nil {
		return nil, newError(Internal, "Array: missing element model while padding defaults")
	}
	out := make([]Datum, 0, a.count)
	out = append(out, a.elems...)
	for i := 0; i < missing; i++ {
		d, err := a.elemModel.instantiate(a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (a *Array) offsetOf(child Datum) (int, error) {
	return containerOffsetOf(a, child)
}

func (a *Array) Size() (int, error)     { return containerSize(a) }
func (a *Array) Bytes() ([]byte, error) { return containerBytes(a) }
func (a *Array) Offset() (int, error)   { return offsetOf(a) }
func (a *Array) Root() Datum            { return rootOf(a) }

// Element returns the declared element model and true, or (nil, false) if
// none was declared (relying instead on a propagated generic hint).
func (m *ArrayModel) Element() (Model, bool) { return m.elem, m.haveElem }

// Count returns the declared element count and true, or (0, false) if the
// count is inferred from input.
func (m *ArrayModel) Count() (int, bool) { return m.count, m.haveCount }
