package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/mudforge/mudcore/internal/domain/character"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// inMemoryRepo implements the Repository interface backed by a map.
// Useful for tests and single-process setups without Redis.
type inMemoryRepo struct {
	mu    sync.RWMutex
	chars map[string]*character.Character
}

// NewInMemoryRepository creates an empty in-memory character repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepo{chars: make(map[string]*character.Character)}
}

func (r *inMemoryRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, engineErrors.InvalidArgument("character id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	char, ok := r.chars[id]
	if !ok {
		return nil, engineErrors.NotFoundf("character %s not found", id)
	}
	return char.Clone(), nil
}

func (r *inMemoryRepo) Save(ctx context.Context, char *character.Character) error {
	if char == nil || char.ID == "" {
		return engineErrors.InvalidArgument("character with an ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.chars[char.ID] = char.Clone()
	return nil
}

func (r *inMemoryRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return engineErrors.InvalidArgument("character id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chars[id]; !ok {
		return engineErrors.NotFoundf("character %s not found", id)
	}
	delete(r.chars, id)
	return nil
}

func (r *inMemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, engineErrors.InvalidArgument("owner id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var chars []*character.Character
	for _, char := range r.chars {
		if char.OwnerID == ownerID {
			chars = append(chars, char.Clone())
		}
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })
	return chars, nil
}
