package engine

import (
	"fmt"
	"strings"
)

// Kind identifies the category of a failure raised anywhere in the engine.
type Kind int

const (
	// Internal indicates an invariant was violated; a bug in the engine
	// itself, never a user-facing condition.
	Internal Kind = iota
	// Spec indicates misuse of the schema-declaration API: a negative
	// array count, an Align below 2, an Array without an element model or
	// generic hint, and similar. An Optional wrapping a generator is not
	// reported as Spec: Optional panics at declaration time instead.
	Spec
	// Build indicates lifecycle misuse: building a model instead of an
	// instance, double-building, an unresolvable dependency cycle, or an
	// invalid dynamic type refinement.
	Build
	// Validation indicates the input data does not match the schema: a
	// type mismatch, a length mismatch, an out-of-range integer, a
	// missing field with no setter or default, a missing included file.
	Validation
	// Dependency is a pure control signal: "this cannot be computed yet,
	// try again later." It is recovered inside Block's resolver; if it
	// escapes a top-level build it means force_dependency (or an
	// equivalent access) was used outside of a setter.
	Dependency
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "Internal"
	case Spec:
		return "Spec"
	case Build:
		return "Build"
	case Validation:
		return "Validation"
	case Dependency:
		return "Dependency"
	default:
		return "Unknown"
	}
}

// Error is the structured error type raised by every engine operation.
// Path accumulates one fragment per container boundary crossed, innermost
// first, so the final message reads from the point of failure outward.
type Error struct {
	Kind    Kind
	Message string
	Path    []string
	Cause   error
}

// newError constructs an Error of the given kind.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError constructs an Error wrapping an existing cause.
func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	for _, frag := range e.Path {
		b.WriteString("\n  at ")
		b.WriteString(frag)
	}
	if e.Cause != nil {
		b.WriteString("\n  caused by: ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap allows errors.Is/errors.As to reach the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// withPath annotates err with a container-boundary path fragment, the way
// spec.md §7 requires: "<container_type> → <slot>: <model_type>". If err is
// not an *Error (e.g. it escaped from user code), it is wrapped as Internal
// first so the path is never silently dropped.
func withPath(err error, fragment string) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		e = wrapError(Internal, err, "unannotated error crossed a container boundary")
	}
	e.Path = append(e.Path, fragment)
	return e
}

// IsDependency reports whether err is a Dependency signal.
func IsDependency(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == Dependency
}

// dependencyErr constructs the Dependency signal used throughout the
// resolver.
func dependencyErr(format string, args ...any) *Error {
	return newError(Dependency, format, args...)
}
