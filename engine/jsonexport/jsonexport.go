// Package jsonexport derives a JSON Schema Draft 2020-12 document from a
// BAF record model, so external tooling (editors, linters) can validate an
// input document's shape before it ever reaches the build engine. It
// follows opal's ParamSchema.ToJSONSchema in structure: a recursive
// field-by-field walk building a map[string]any tree, not a hand-rolled
// string template.
package jsonexport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bafproject/baf/engine"
)

// FromBlock walks model's declared fields and produces a JSON Schema
// object describing the input document shape the engine expects.
func FromBlock(model *engine.BlockModel) (map[string]any, error) {
	props := make(map[string]any)
	var required []string
	for _, f := range model.Describe() {
		if _, isAlign := f.Model.(*engine.AlignModel); isAlign {
			// Generator fields absorb no input and have no JSON shape.
			continue
		}
		schema, err := schemaFor(f.Model)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		props[f.Name] = schema
		if !f.HasSetter && !f.HasDefault && !isOptional(f.Model) {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc, nil
}

func isOptional(m engine.Model) bool {
	_, ok := m.(*engine.OptionalModel)
	return ok
}

func schemaFor(m engine.Model) (map[string]any, error) {
	switch t := m.(type) {
	case *engine.IntModel:
		min, max := t.Bounds()
		return map[string]any{
			"type":    "integer",
			"minimum": min,
			"maximum": max,
		}, nil
	case *engine.BytesModel:
		s := map[string]any{
			"type":            "string",
			"contentEncoding": "base64",
		}
		if n, ok := t.FixedLength(); ok {
			// contentEncoding: base64 strings don't have a fixed JSON
			// string length, so declare the decoded byte length instead
			// for documentation purposes.
			s["description"] = fmt.Sprintf("decodes to exactly %d bytes", n)
		}
		return s, nil
	case *engine.FileModel:
		return map[string]any{
			"type":        "string",
			"description": "a file path, resolved against the build's root directory if relative",
		}, nil
	case *engine.BlockModel:
		return FromBlock(t)
	case *engine.ArrayModel:
		s := map[string]any{"type": "array"}
		if elem, ok := t.Element(); ok {
			items, err := schemaFor(elem)
			if err != nil {
				return nil, err
			}
			s["items"] = items
		}
		if n, ok := t.Count(); ok {
			s["minItems"] = n
			s["maxItems"] = n
		}
		return s, nil
	case *engine.OptionalModel:
		return schemaFor(t.Inner())
	case *engine.AlignModel:
		return nil, fmt.Errorf("alignment padding has no JSON representation")
	default:
		return nil, fmt.Errorf("unsupported model type %T", m)
	}
}

// Validate checks raw JSON document bytes against the schema derived from
// model, before the bytes ever reach the build engine. This is an optional
// pre-validation pass (spec.md §6's JSON Schema export is documentation-only
// unless a caller chooses to enforce it); engine.BuildJSONFile never calls
// it itself, since the engine package cannot depend on this one without a
// cyclic import.
func Validate(model *engine.BlockModel, rawJSON []byte) error {
	doc, err := FromBlock(model)
	if err != nil {
		return fmt.Errorf("deriving schema: %w", err)
	}
	schemaBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling derived schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("baf://schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("loading derived schema: %w", err)
	}
	schema, err := compiler.Compile("baf://schema.json")
	if err != nil {
		return fmt.Errorf("compiling derived schema: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(rawJSON, &decoded); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
