package engine

// BuildContext carries the per-build ambient state spec.md §5 describes as
// "process-wide" in the original design. Here it is an explicit value
// threaded down through the tree instead of global mutable state (Design
// Notes §9, "Ambient root directory").
type BuildContext struct {
	// Root is the directory relative File-inclusion paths are resolved
	// against. Empty means "no root" — a relative path then fails with
	// Spec.
	Root string
}
