package engine

// Family marks a set of Block models as interchangeable refinements of one
// another. A field declared against an abstract model can be resolved at
// build time to any concrete model tagged with the same Family, via a
// Packed value in the input tree — the Go analogue of a nominal subtype
// check in a language with inheritance (spec.md §4.6, Design Notes §9).
type Family struct {
	name string
}

// NewFamily creates a fresh refinement family. name is used only in error
// messages.
func NewFamily(name string) *Family {
	return &Family{name: name}
}

// familyOf is implemented by any Model that can participate in refinement
// (currently only *BlockModel). A model with no family never accepts a
// Packed refinement.
type familyOf interface {
	family() *Family
}

// Packed is the refinement proposal described in spec.md §4.6: a value
// that, wherever a container expects a child of some model M, instead
// supplies a concrete replacement model plus the payload to build it with.
type Packed struct {
	Model   Model
	Payload any
}

// resolveRefinement implements the packed-type protocol: if data is a
// Packed value, its Model must share M's family, and the returned model is
// the packed one; otherwise M and data are returned unchanged.
func resolveRefinement(m Model, data any) (Model, any, error) {
	p, ok := data.(Packed)
	if !ok {
		return m, data, nil
	}
	declared, ok := m.(familyOf)
	if !ok || declared.family() == nil {
		return nil, nil, newError(Build, "dynamically-resolved datatype is not a child of %s: field has no refinement family", modelLabel(m))
	}
	proposed, ok := p.Model.(familyOf)
	if !ok || proposed.family() != declared.family() {
		return nil, nil, newError(Build, "dynamically-resolved datatype %s is not a child of %s", modelLabel(p.Model), modelLabel(m))
	}
	return p.Model, p.Payload, nil
}
