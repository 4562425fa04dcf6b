// Package registry attaches human-facing metadata to schema nodes: a name,
// a description, examples, deprecation. Nodes are keyed by identity, so the
// same *dsl.Schema value used in several containers shares one entry.
//
// A process-wide default registry covers the common case; independent
// registries can be created for isolated schema catalogs.
package registry

import (
	"sync"

	"github.com/shapeform/shape/dsl"
)

// Meta is the metadata attached to one schema node.
type Meta struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Examples    []any    `json:"examples,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Registry is a concurrency-safe schema metadata store.
type Registry struct {
	mu      sync.RWMutex
	entries map[*dsl.Schema]Meta
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[*dsl.Schema]Meta)}
}

// Set stores metadata for the node, replacing any previous entry.
func (r *Registry) Set(b dsl.Builder, m Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[b.Schema()] = m
}

// Get returns the node's metadata.
func (r *Registry) Get(b dsl.Builder) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[b.Schema()]
	return m, ok
}

// Describe merges a description into the node's existing entry.
func (r *Registry) Describe(b dsl.Builder, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.entries[b.Schema()]
	m.Description = description
	r.entries[b.Schema()] = m
}

// Delete removes the node's entry.
func (r *Registry) Delete(b dsl.Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, b.Schema())
}

// Range calls fn for every entry until it returns false. The snapshot is
// taken under the read lock; fn runs outside it.
func (r *Registry) Range(fn func(s *dsl.Schema, m Meta) bool) {
	r.mu.RLock()
	type pair struct {
		s *dsl.Schema
		m Meta
	}
	snapshot := make([]pair, 0, len(r.entries))
	for s, m := range r.entries {
		snapshot = append(snapshot, pair{s, m})
	}
	r.mu.RUnlock()
	for _, p := range snapshot {
		if !fn(p.s, p.m) {
			return
		}
	}
}

// Len reports the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Set stores metadata in the default registry.
func Set(b dsl.Builder, m Meta) { defaultRegistry.Set(b, m) }

// Get reads metadata from the default registry.
func Get(b dsl.Builder) (Meta, bool) { return defaultRegistry.Get(b) }

// Describe merges a description into the default registry.
func Describe(b dsl.Builder, description string) { defaultRegistry.Describe(b, description) }
