package engine

// AlignSource supplies an alignment's value A at build time — either a
// literal constant or a reference to another datum's size (spec.md §4.8).
type AlignSource interface {
	value() (int, error)
}

// ConstAlign is a fixed alignment value.
type ConstAlign int

func (c ConstAlign) value() (int, error) { return int(c), nil }

// AlignFrom derives the alignment value from another datum's current size,
// so an Align can, e.g., match the width of a preceding length field.
func AlignFrom(d Datum) AlignSource { return datumAlign{d} }

type datumAlign struct{ d Datum }

func (a datumAlign) value() (int, error) { return a.d.Size() }

// AlignModel declares an alignment-padding generator datum (spec.md's
// "Alignment pad"); it absorbs no input.
type AlignModel struct {
	src AlignSource
}

// Align declares an alignment-padding field for the given source.
func Align(src AlignSource) *AlignModel {
	return &AlignModel{src: src}
}

func (m *AlignModel) generatorModel() {}
func (m *AlignModel) label() string   { return "Align" }
func (m *AlignModel) kindTag() string { return "align" }

func (m *AlignModel) instantiate(parent Container) (Datum, error) {
	d := &alignDatum{model: m}
	d.setParent(parent)
	d.markInstance()
	propagateHint(d, nil, false, parent)
	return d, nil
}

type alignDatum struct {
	base
	model *AlignModel
}

func (d *alignDatum) label() string   { return "Align" }
func (d *alignDatum) kindTag() string { return "align" }

func (d *alignDatum) Build(_ any) error {
	if err := checkBuildOnce(d); err != nil {
		return err
	}
	a, err := d.model.src.value()
	if err != nil {
		return err
	}
	if a < 2 {
		return newError(Spec, "Align: alignment must be at least 2, got %d", a)
	}
	return nil
}

func (d *alignDatum) Size() (int, error) {
	a, err := d.model.src.value()
	if err != nil {
		return 0, err
	}
	if a < 2 {
		return 0, newError(Spec, "Align: alignment must be at least 2, got %d", a)
	}
	off, err := d.Offset()
	if err != nil {
		return 0, err
	}
	return (a - off%a) % a, nil
}

func (d *alignDatum) Bytes() ([]byte, error) {
	if err := checkBytesReady(d); err != nil {
		return nil, err
	}
	n, err := d.Size()
	if err != nil {
		return nil, err
	}
	return make([]byte, n), nil
}

func (d *alignDatum) Offset() (int, error) { return offsetOf(d) }
func (d *alignDatum) Root() Datum          { return rootOf(d) }
