package engine

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bafproject/baf/internal/invariant"
)

// BuildRoot is the first of spec.md §4.9's two entry points: it
// instantiates model with no parent, builds it with data, and returns the
// built root instance. ctx may be nil when no File datum in the schema
// needs a root directory.
func BuildRoot(model Model, data any, ctx *BuildContext) (Datum, error) {
	invariant.NotNil(model, "model")
	root, err := model.instantiate(nil)
	if err != nil {
		return nil, err
	}
	if ctx != nil {
		if c, ok := root.(interface{ setContext(*BuildContext) }); ok {
			c.setContext(ctx)
		}
	}
	if err := root.Build(data); err != nil {
		return nil, err
	}
	return root, nil
}

// BuildJSONFile decodes path as JSON and builds model against it, using
// path's parent directory as the BuildContext root for any relative File
// datum.
func BuildJSONFile(model Model, path string) (Datum, error) {
	invariant.NotNil(model, "model")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(Validation, "BuildJSONFile: could not read %q: %v", path, err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, newError(Validation, "BuildJSONFile: invalid JSON in %q: %v", path, err)
	}
	return BuildRoot(model, normalizeDecoded(decoded), &BuildContext{Root: filepath.Dir(path)})
}

// BuildTOMLFile decodes path as TOML and builds model against it.
func BuildTOMLFile(model Model, path string) (Datum, error) {
	invariant.NotNil(model, "model")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(Validation, "BuildTOMLFile: could not read %q: %v", path, err)
	}
	var decoded any
	if err := toml.Unmarshal(raw, &decoded); err != nil {
		return nil, newError(Validation, "BuildTOMLFile: invalid TOML in %q: %v", path, err)
	}
	return BuildRoot(model, normalizeDecoded(decoded), &BuildContext{Root: filepath.Dir(path)})
}

// normalizeDecoded recursively rewrites a decoder's generic output
// (map[string]interface{}/[]interface{}, as both encoding/json and
// BurntSushi/toml produce, plus the []map[string]interface{} that
// BurntSushi/toml produces for arrays of tables) into the
// map[string]any/[]any shapes the engine datum kinds expect.
func normalizeDecoded(v any) any {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeDecoded(val)
		}
		return out
	case []interface{}:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeDecoded(val)
		}
		return out
	case []map[string]interface{}:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeDecoded(val)
		}
		return out
	default:
		return v
	}
}
