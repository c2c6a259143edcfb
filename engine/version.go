package engine

import "golang.org/x/mod/semver"

// CheckVersion enforces major-version compatibility between a schema's
// declared version (set via BlockModel.WithVersion) and a version string
// supplied by the caller (e.g. read from an input document's own header
// field). It is never required for BuildRoot to succeed; callers opt in by
// invoking it themselves before or after a build.
func CheckVersion(model *BlockModel, got string) error {
	if model.version == "" {
		return nil
	}
	want := model.version
	if !semver.IsValid("v" + want) {
		return newError(Internal, "schema declares an invalid version %q", want)
	}
	if !semver.IsValid("v" + got) {
		return newError(Validation, "input declares an invalid version %q", got)
	}
	if semver.Major("v"+want) != semver.Major("v"+got) {
		return newError(Validation, "schema version %s is incompatible with input version %s", want, got)
	}
	return nil
}
