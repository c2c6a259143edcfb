package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bafproject/baf/internal/invariant"
)

// Setter is a user-supplied callback on a Block field: it computes the
// field's value from the record's raw input map, possibly after other
// fields have built. Returning a Dependency error signals "try again next
// pass" exactly like any other access in the resolver (spec.md's
// Glossary: "Setter").
type Setter func(b *Block, input map[string]any) (any, error)

type defaulter interface {
	hasDefault() (any, bool)
}

// generator is implemented by models that need no input data (only
// *AlignModel today).
type generator interface {
	generatorModel()
}

type fieldDecl struct {
	name    string
	model   Model
	setter  Setter
}

// FieldOption configures a single declared Block field.
type FieldOption func(*fieldDecl)

// WithSetter attaches a setter callback to a field.
func WithSetter(s Setter) FieldOption {
	return func(f *fieldDecl) { f.setter = s }
}

// Field declares one named record field. Field order within NewBlock's
// argument list is the record's declaration order, used both for wire
// concatenation and for per-pass resolution order (spec.md §4.4).
func Field(name string, model Model, opts ...FieldOption) fieldDecl {
	f := fieldDecl{name: name, model: model}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// BlockModel declares a record: an ordered set of named fields, each a
// datum model (spec.md's "Record (Block)").
type BlockModel struct {
	fields  []fieldDecl
	index   map[string]int
	fam     *Family
	pre     Preprocessor
	version string
}

// NewBlock declares a record model from its fields in declaration order.
func NewBlock(fields ...fieldDecl) *BlockModel {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.name] = i
	}
	return &BlockModel{fields: fields, index: idx}
}

// OfFamily tags this record as a concrete member of family, making it a
// valid refinement target for any abstract field declared against the
// same family (spec.md §4.6, Design Notes §9).
func (m *BlockModel) OfFamily(f *Family) *BlockModel {
	cp := *m
	cp.fam = f
	return &cp
}

func (m *BlockModel) family() *Family { return m.fam }

// WithPreprocess attaches a user hook that transforms the raw input map
// before fields are extracted from it.
func (m *BlockModel) WithPreprocess(fn Preprocessor) *BlockModel {
	cp := *m
	cp.pre = fn
	return &cp
}

// WithVersion tags this schema with a semver string, checkable via
// CheckVersion; BuildRoot itself does not check it.
func (m *BlockModel) WithVersion(v string) *BlockModel {
	cp := *m
	cp.version = v
	return &cp
}

// FieldDescriptor describes one declared Block field for external tooling
// (engine/jsonexport, engine/diagnostics) without exposing the field
// table's internal representation.
type FieldDescriptor struct {
	Name       string
	Model      Model
	HasSetter  bool
	HasDefault bool
}

// Describe returns this record's fields in declaration order.
func (m *BlockModel) Describe() []FieldDescriptor {
	out := make([]FieldDescriptor, len(m.fields))
	for i, f := range m.fields {
		d := FieldDescriptor{Name: f.name, Model: f.model, HasSetter: f.setter != nil}
		if dm, ok := f.model.(defaulter); ok {
			_, d.HasDefault = dm.hasDefault()
		}
		out[i] = d
	}
	return out
}

// Version returns the semver string declared via WithVersion, or "" if
// none was set.
func (m *BlockModel) Version() string { return m.version }

func (m *BlockModel) fieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.name
	}
	return names
}

func (m *BlockModel) label() string   { return "Block" }
func (m *BlockModel) kindTag() string { return "block" }

func (m *BlockModel) instantiate(parent Container) (Datum, error) {
	b := &Block{model: m}
	b.setParent(parent)
	b.markInstance()
	propagateHint(b, nil, false, parent)
	b.children = make([]Datum, len(m.fields))
	for i, f := range m.fields {
		child, err := f.model.instantiate(b)
		if err != nil {
			return nil, err
		}
		b.children[i] = child
	}
	return b, nil
}

// Block is a built (or being-built) record instance.
type Block struct {
	base
	model    *BlockModel
	children []Datum
}

func (b *Block) label() string   { return "Block" }
func (b *Block) kindTag() string { return "block" }

// FieldNameAt returns the declared name of the field at position i, for
// tooling that walks items() by index (engine/diagnostics).
func (b *Block) FieldNameAt(i int) string {
	invariant.InRange(i, 0, len(b.model.fields)-1, "field index")
	return b.model.fields[i].name
}

// Field returns the current child instance for name, whether or not it has
// finished building yet — the mechanism a Setter uses to read a sibling's
// (possibly partial) size, offset, or value.
func (b *Block) Field(name string) (Datum, error) {
	i, ok := b.model.index[name]
	if !ok {
		return nil, newError(Internal, "block has no field %q", name)
	}
	return b.children[i], nil
}

// ForceDependency is the helper spec.md §4.4 calls force_dependency: a
// setter calls it to declare "I need other built first," raising
// Dependency if it is not.
func (b *Block) ForceDependency(other Datum) error {
	if !other.isBuilt() {
		return dependencyErr("force_dependency: %s is not yet built", datumLabel(other))
	}
	return nil
}

func (b *Block) items(useDefaults bool) ([]Datum, error) {
	return b.children, nil
}

func (b *Block) offsetOf(child Datum) (int, error) {
	return containerOffsetOf(b, child)
}

func (b *Block) Size() (int, error)      { return containerSize(b) }
func (b *Block) Bytes() ([]byte, error)  { return containerBytes(b) }
func (b *Block) Offset() (int, error)    { return offsetOf(b) }
func (b *Block) Root() Datum             { return rootOf(b) }

// fieldEntry tracks one field's resolution state across resolver passes,
// mirroring original_source/baf/datatypes.py's _BlockItem.
type fieldEntry struct {
	decl       *fieldDecl
	data       any
	haveData   bool
	setterDone bool
	done       bool
}

func (b *Block) Build(raw any) error {
	if err := checkBuildOnce(b); err != nil {
		return err
	}
	if b.model.pre != nil {
		var err error
		raw, err = b.model.pre(raw)
		if err != nil {
			return err
		}
	}
	input, ok := raw.(map[string]any)
	if !ok {
		return newError(Validation, "Block: expected a keyed map, got %T", raw)
	}

	entries := make([]*fieldEntry, len(b.model.fields))
	for i := range b.model.fields {
		decl := &b.model.fields[i]
		e := &fieldEntry{decl: decl}
		if v, present := input[decl.name]; present {
			e.data, e.haveData = v, true
		} else if dm, ok := decl.model.(defaulter); ok {
			if def, has := dm.hasDefault(); has {
				e.data, e.haveData = def, true
			}
		}
		if !e.haveData && decl.setter == nil {
			if _, isGen := decl.model.(generator); isGen {
				e.data, e.haveData = nil, true
			} else if _, isOpt := decl.model.(*OptionalModel); isOpt {
				e.data, e.haveData = nil, true
			}
		}
		entries[i] = e
	}

	for _, e := range entries {
		if e.haveData || e.decl.setter != nil {
			continue
		}
		if _, isGen := e.decl.model.(generator); isGen {
			continue
		}
		if _, isOpt := e.decl.model.(*OptionalModel); isOpt {
			continue
		}
		return newError(Validation, "no value, setter, or default for field %q%s",
			e.decl.name, suggestField(e.decl.name, b.model.fieldNames()))
	}

	logger := debugLogger()
	for pass := 1; ; pass++ {
		progress := false
		for _, e := range entries {
			if e.done {
				continue
			}
			err := b.buildEntry(e, input)
			if err != nil {
				if IsDependency(err) {
					continue
				}
				return withPath(err, fmt.Sprintf("Block → %s: %s", e.decl.name, modelLabel(e.decl.model)))
			}
			e.done = true
			progress = true
		}
		allDone := true
		var pending []string
		for _, e := range entries {
			if !e.done {
				allDone = false
				pending = append(pending, e.decl.name)
			}
		}
		logger.Debug("resolver pass", "pass", pass, "pending", pending)
		if allDone {
			return nil
		}
		if !progress {
			return newError(Build, "cyclical dependencies in: %s", strings.Join(pending, ", "))
		}
	}
}

func (b *Block) buildEntry(e *fieldEntry, input map[string]any) error {
	if e.decl.setter != nil && !e.setterDone {
		v, err := e.decl.setter(b, input)
		if err != nil {
			return err
		}
		e.data, e.haveData = v, true
		e.setterDone = true
	}
	if !e.haveData {
		return dependencyErr("field %q has no data yet", e.decl.name)
	}
	if d, ok := e.data.(Datum); ok {
		if !sameKind(d, e.decl.model) {
			return newError(Build, "field %q: installed datum does not match declared model %s", e.decl.name, modelLabel(e.decl.model))
		}
		i := b.model.index[e.decl.name]
		b.children[i] = d
		return nil
	}
	model, payload, err := resolveRefinement(e.decl.model, e.data)
	if err != nil {
		return err
	}
	child, err := model.instantiate(b)
	if err != nil {
		return err
	}
	// Install before building so the child can find itself among b's
	// children when its own subtree queries offsets; restore the
	// placeholder if the build does not complete.
	i := b.model.index[e.decl.name]
	prev := b.children[i]
	b.children[i] = child
	if err := child.Build(payload); err != nil {
		b.children[i] = prev
		return err
	}
	return nil
}

// suggestField returns a parenthesized "did you mean" suggestion for an
// unresolved or unknown field name, or "" if nothing is close enough.
func suggestField(name string, candidates []string) string {
	match := fuzzy.RankFindFold(name, candidates)
	if len(match) == 0 {
		return ""
	}
	best := match[0]
	for _, m := range match[1:] {
		if m.Distance < best.Distance {
			best = m
		}
	}
	return fmt.Sprintf(" (did you mean %q?)", best.Target)
}

// debugLogger returns a slog.Logger that writes resolver-pass traces when
// BAF_DEBUG is set, and a no-op logger otherwise — the same
// environment-variable-gated pattern the teacher's parser uses for its own
// debug tracing.
func debugLogger() *slog.Logger {
	if os.Getenv("BAF_DEBUG") == "" {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
