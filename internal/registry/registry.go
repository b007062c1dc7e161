// Package registry tracks the live characters and NPCs the engine is
// currently resolving for. Entities enter on load/spawn and leave on
// logout/despawn; the convergence driver walks the registry each tick.
package registry

import (
	"sort"
	"sync"

	"github.com/mudforge/mudcore/internal/domain/character"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// Registry is a concurrency-safe set of live entities.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*character.Character
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entities: make(map[string]*character.Character)}
}

// Add registers an entity, replacing any previous entry with the same ID.
func (r *Registry) Add(c *character.Character) error {
	if c == nil || c.ID == "" {
		return engineErrors.InvalidArgument("character with an ID is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[c.ID] = c
	return nil
}

// Remove drops an entity from the live set.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entities, id)
}

// Get returns a live entity by ID.
func (r *Registry) Get(id string) (*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.entities[id]
	if !ok {
		return nil, engineErrors.NotFoundf("character %s is not live", id)
	}
	return c, nil
}

// List returns the live entities in ID order.
func (r *Registry) List() []*character.Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*character.Character, 0, len(r.entities))
	for _, c := range r.entities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the live entity count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}
