package engine

import (
	"sync"

	"github.com/bafproject/baf/internal/invariant"
)

var (
	registryMu sync.Mutex
	registry   = map[string]Model{}
)

// RegisterSchema makes model available to CLI tooling under name. BAF
// schemas are Go value trees, not data files a generic CLI can load, so
// callers register the schemas they want bafc to expose in an init
// function (SPEC_FULL.md §6).
func RegisterSchema(name string, model Model) {
	invariant.Precondition(name != "", "schema name must not be empty")
	invariant.NotNil(model, "model")
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = model
}

// LookupSchema returns the model registered under name, or false if none
// was registered.
func LookupSchema(name string) (Model, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	m, ok := registry[name]
	return m, ok
}

// SchemaNames returns every currently registered schema name.
func SchemaNames() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
