package characters

import (
	"context"

	"github.com/mudforge/mudcore/internal/domain/character"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=mockcharacters -source=interface.go

// Repository defines persistence for character state snapshots.
type Repository interface {
	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// Save persists a character's current state
	Save(ctx context.Context, char *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// ListByOwner returns all characters owned by a player
	ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)
}
