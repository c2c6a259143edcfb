package engine

import (
	"os"
	"path/filepath"
)

// FileModel declares a file-inclusion datum: spec.md's "File inclusion".
// The path is resolved against the BuildContext's root directory if
// relative; content is read eagerly at build time.
type FileModel struct {
	pre Preprocessor
}

// File declares a file-inclusion field.
func File() *FileModel { return &FileModel{} }

func (m *FileModel) WithPreprocess(fn Preprocessor) *FileModel {
	cp := *m
	cp.pre = fn
	return &cp
}

func (m *FileModel) label() string   { return "File" }
func (m *FileModel) kindTag() string { return "file" }

func (m *FileModel) instantiate(parent Container) (Datum, error) {
	d := &fileDatum{model: m}
	d.setParent(parent)
	d.markInstance()
	propagateHint(d, nil, false, parent)
	return d, nil
}

type fileDatum struct {
	base
	model   *FileModel
	content []byte
}

func (d *fileDatum) label() string   { return "File" }
func (d *fileDatum) kindTag() string { return "file" }

func (d *fileDatum) Build(data any) error {
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
	path, ok := data.(string)
	if !ok {
		return newError(Validation, "File: expected a path string, got %T", data)
	}
	resolved := path
	if !filepath.IsAbs(path) {
		ctx := buildContextOf(d)
		if ctx == nil || ctx.Root == "" {
			return newError(Spec, "file inclusion requires a root directory; build from an in-memory map has none — use BuildContext{Root: ...} or an absolute path")
		}
		resolved = filepath.Join(ctx.Root, path)
	}
	content, err := os.ReadFile(resolved)
	if err != nil {
		return newError(Validation, "File: could not read %q: %v", resolved, err)
	}
	d.content = content
	return nil
}

func (d *fileDatum) Size() (int, error) {
	if !d.isBuilt() {
		return 0, dependencyErr("File: size unknown before build")
	}
	return len(d.content), nil
}

func (d *fileDatum) Bytes() ([]byte, error) {
	if err := checkBytesReady(d); err != nil {
		return nil, err
	}
	return d.content, nil
}

func (d *fileDatum) Offset() (int, error) { return offsetOf(d) }
func (d *fileDatum) Root() Datum          { return rootOf(d) }
