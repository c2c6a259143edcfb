// Package schemas registers a couple of demonstration BAF schemas so
// cmd/bafc is runnable end-to-end without a caller having to write Go code
// first.
package schemas

import "github.com/bafproject/baf/engine"

func init() {
	engine.RegisterSchema("archive-entry", archiveEntry())
	engine.RegisterSchema("s1-primitive-record", s1PrimitiveRecord())
	engine.RegisterSchema("s4-alignment", s4Alignment())
}

// archiveEntry is a small container/archive format: a magic byte, a
// version, a name, an optional comment, and an inline file payload —
// exercising most of the engine's datum kinds in one schema.
func archiveEntry() *engine.BlockModel {
	return engine.NewBlock(
		engine.Field("magic", engine.U8().WithDefault(0xBA)),
		engine.Field("version", engine.U8().WithDefault(1)),
		engine.Field("name_length", engine.U8(), engine.WithSetter(
			func(b *engine.Block, input map[string]any) (any, error) {
				name, err := b.Field("name")
				if err != nil {
					return nil, err
				}
				n, err := name.Size()
				if err != nil {
					return nil, err
				}
				return n, nil
			},
		)),
		engine.Field("name", engine.Bytes()),
		engine.Field("comment", engine.Optional(engine.Bytes())),
		engine.Field("payload", engine.File()),
	)
}

func s1PrimitiveRecord() *engine.BlockModel {
	return engine.NewBlock(
		engine.Field("a", engine.U16()),
		engine.Field("b", engine.S8()),
	)
}

func s4Alignment() *engine.BlockModel {
	return engine.NewBlock(
		engine.Field("a", engine.U8()),
		engine.Field("pad", alignAfter("a")),
		engine.Field("b", engine.U8()),
	)
}

// alignAfter builds an Align model whose alignment constant is fixed at 4,
// matching spec.md §8's S4 scenario. The preceding field's name is
// documentation only here since AlignModel takes its source at
// declaration time, not by name lookup.
func alignAfter(_ string) *engine.AlignModel {
	return engine.Align(engine.ConstAlign(4))
}
