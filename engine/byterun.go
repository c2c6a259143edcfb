package engine

// BytesModel declares a raw byte run: spec.md's "Byte run". length is
// optional; when declared, input must match it exactly.
type BytesModel struct {
	length    int
	haveLen   bool
	pre       Preprocessor
	def       []byte
	haveDef   bool
}

// Bytes declares a byte-run field with no fixed length; its size becomes
// the actual input length.
func Bytes() *BytesModel { return &BytesModel{} }

// FixedBytes declares a byte-run field of exactly n bytes; a mismatched
// input length is a Validation error.
func FixedBytes(n int) *BytesModel {
	if n < 0 {
		panic("engine: FixedBytes: length must not be negative")
	}
	return &BytesModel{length: n, haveLen: true}
}

func (m *BytesModel) WithPreprocess(fn Preprocessor) *BytesModel {
	cp := *m
	cp.pre = fn
	return &cp
}

func (m *BytesModel) WithDefault(v []byte) *BytesModel {
	cp := *m
	cp.def = v
	cp.haveDef = true
	return &cp
}

func (m *BytesModel) hasDefault() (any, bool) {
	if !m.haveDef {
		return nil, false
	}
	return m.def, true
}

func (m *BytesModel) label() string   { return "Bytes" }
func (m *BytesModel) kindTag() string { return "bytes" }

func (m *BytesModel) instantiate(parent Container) (Datum, error) {
	d := &bytesDatum{model: m}
	d.setParent(parent)
	d.markInstance()
	propagateHint(d, nil, false, parent)
	return d, nil
}

type bytesDatum struct {
	base
	model *BytesModel
	data  []byte
}

func (d *bytesDatum) label() string   { return "Bytes" }
func (d *bytesDatum) kindTag() string { return "bytes" }

func (d *bytesDatum) Build(data any) error {
	if err := checkBuildOnce(d); err != nil {
		return err
	}
	if d.model.pre != nil {
		var err error
		data, err = d.model.pre(data)
		if err != nil {
			return err
		}
	}
	var v []byte
	switch t := data.(type) {
	case []byte:
		v = t
	case string:
		v = []byte(t)
	default:
		return newError(Validation, "Bytes: expected a byte-typed value, got %T", data)
	}
	if d.model.haveLen && len(v) != d.model.length {
		return newError(Validation, "Bytes: expected %d bytes, got %d", d.model.length, len(v))
	}
	d.data = v
	return nil
}

func (d *bytesDatum) Size() (int, error) {
	if d.model.haveLen {
		return d.model.length, nil
	}
	if !d.isBuilt() {
		return 0, dependencyErr("Bytes: size unknown before build")
	}
	return len(d.data), nil
}

func (d *bytesDatum) Bytes() ([]byte, error) {
	if err := checkBytesReady(d); err != nil {
		return nil, err
	}
	return d.data, nil
}

func (d *bytesDatum) Offset() (int, error) { return offsetOf(d) }
func (d *bytesDatum) Root() Datum          { return rootOf(d) }

// FixedLength returns the declared fixed length and true, or (0, false) if
// this byte run has no declared length.
func (m *BytesModel) FixedLength() (int, bool) { return m.length, m.haveLen }
