package engine

import "fmt"

// Sign selects how an IntModel interprets and serializes its value.
type Sign int

const (
	// Unsigned accepts [0, 2^bits-1].
	Unsigned Sign = iota
	// Signed accepts [-2^(bits-1), 2^(bits-1)-1].
	Signed
	// Ambiguous accepts the union of both ranges and picks the
	// representation at serialization time from the value's sign
	// (spec.md §4.2).
	Ambiguous
)

// IntModel declares a fixed-width integer datum: 8, 16, or 32 bits, in one
// of three sign modes (spec.md's "Fixed-width integer").
type IntModel struct {
	bits       int
	sign       Sign
	pre        Preprocessor
	def        int64
	haveDef    bool
}

// Int declares a fixed-width integer field. bits must be 8, 16, or 32;
// violating that is a schema-authoring bug and panics immediately rather
// than surfacing as a build-time error, since it can never depend on input.
func Int(bits int, sign Sign) *IntModel {
	if bits != 8 && bits != 16 && bits != 32 {
		panic(fmt.Sprintf("engine: Int: bit width must be 8, 16, or 32, got %d", bits))
	}
	return &IntModel{bits: bits, sign: sign}
}

// U8, U16, U32, S8, S16, S32, I8, I16, I32 are the nine concrete primitive
// shapes named in spec.md §4.2 and grounded on
// original_source/baf/datatypes.py's U8/U16/U32/S8/S16/S32/I8/I16/I32.
func U8() *IntModel  { return Int(8, Unsigned) }
func U16() *IntModel { return Int(16, Unsigned) }
func U32() *IntModel { return Int(32, Unsigned) }
func S8() *IntModel  { return Int(8, Signed) }
func S16() *IntModel { return Int(16, Signed) }
func S32() *IntModel { return Int(32, Signed) }
func I8() *IntModel  { return Int(8, Ambiguous) }
func I16() *IntModel { return Int(16, Ambiguous) }
func I32() *IntModel { return Int(32, Ambiguous) }

// WithPreprocess attaches a user hook that transforms raw input before the
// built-in range validation runs (spec.md §4.1's "preprocess" hook).
func (m *IntModel) WithPreprocess(fn Preprocessor) *IntModel {
	cp := *m
	cp.pre = fn
	return &cp
}

// WithDefault declares a value used when the field is absent from input
// and has no setter (spec.md §4.4's preflight rule 3).
func (m *IntModel) WithDefault(v int64) *IntModel {
	cp := *m
	cp.def = v
	cp.haveDef = true
	return &cp
}

func (m *IntModel) hasDefault() (any, bool) { return m.def, m.haveDef }

// StaticSize returns bit_width/8, independent of any instance (spec.md
// §4.2's "static size query").
func (m *IntModel) StaticSize() int { return m.bits / 8 }

func (m *IntModel) bounds() (min, max int64) {
	switch m.sign {
	case Unsigned:
		return 0, (int64(1) << uint(m.bits)) - 1
	case Signed:
		half := int64(1) << uint(m.bits-1)
		return -half, half - 1
	default: // Ambiguous
		half := int64(1) << uint(m.bits-1)
		return -half, (int64(1) << uint(m.bits)) - 1
	}
}

func (m *IntModel) label() string {
	switch m.sign {
	case Unsigned:
		return fmt.Sprintf("U%d", m.bits)
	case Signed:
		return fmt.Sprintf("S%d", m.bits)
	default:
		return fmt.Sprintf("I%d", m.bits)
	}
}

func (m *IntModel) kindTag() string { return "int" }

func (m *IntModel) instantiate(parent Container) (Datum, error) {
	d := &intDatum{model: m}
	d.setParent(parent)
	d.markInstance()
	propagateHint(d, nil, false, parent)
	return d, nil
}

type intDatum struct {
	base
	model    *IntModel
	value    int64
	haveData bool
}

func (d *intDatum) label() string   { return d.model.label() }
func (d *intDatum) kindTag() string { return "int" }

func (d *intDatum) Build(data any) error {
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
	var v int64
	switch n := data.(type) {
	case int:
		v = int64(n)
	case int64:
		v = n
	case int32:
		v = int64(n)
	case float64:
		// encoding/json decodes every JSON number as float64; accept it
		// only when it carries no fractional part.
		if n != float64(int64(n)) {
			return newError(Validation, "%s: expected an integer, got non-integral number %v", d.model.label(), n)
		}
		v = int64(n)
	default:
		return newError(Validation, "%s: expected an integer, got %T", d.model.label(), data)
	}
	min, max := d.model.bounds()
	if v < min || v > max {
		return newError(Validation, "%s: value %d out of range [%d, %d]", d.model.label(), v, min, max)
	}
	d.value = v
	d.haveData = true
	return nil
}

func (d *intDatum) Size() (int, error) {
	return d.model.StaticSize(), nil
}

func (d *intDatum) Bytes() ([]byte, error) {
	if err := checkBytesReady(d); err != nil {
		return nil, err
	}
	n := d.model.StaticSize()
	buf := make([]byte, n)
	uv := uint64(d.value)
	for i := 0; i < n; i++ {
		buf[i] = byte(uv >> uint(8*i))
	}
	return buf, nil
}

func (d *intDatum) Offset() (int, error) { return offsetOf(d) }
func (d *intDatum) Root() Datum          { return rootOf(d) }

// Bits returns the declared bit width (8, 16, or 32).
func (m *IntModel) Bits() int { return m.bits }

// SignMode returns the declared sign interpretation.
func (m *IntModel) SignMode() Sign { return m.sign }

// Bounds returns the accepted inclusive value range for this model.
func (m *IntModel) Bounds() (min, max int64) { return m.bounds() }
