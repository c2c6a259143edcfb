package engine

// labeled is implemented by every concrete Model and Datum kind so error
// messages and the visualizer can name a node's type without reflection.
type labeled interface {
	label() string
}

func modelLabel(m Model) string {
	if l, ok := m.(labeled); ok {
		return l.label()
	}
	return "unknown"
}

func datumLabel(d Datum) string {
	if l, ok := d.(labeled); ok {
		return l.label()
	}
	return "unknown"
}

// sameKind reports whether d was produced by a Datum of the same concrete
// kind as m would instantiate — the "already a built datum of the expected
// type" check used by Block and Array when installing a pre-built value
// (spec.md §4.4, §4.5).
func sameKind(d Datum, m Model) bool {
	dk, ok := d.(kinded)
	if !ok {
		return false
	}
	mk, ok := m.(kinded)
	if !ok {
		return false
	}
	return dk.kindTag() == mk.kindTag()
}

type kinded interface {
	kindTag() string
}
