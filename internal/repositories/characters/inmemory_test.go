package characters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

func TestInMemoryRepo_RoundTrip(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	char := testCharacter("char-1", "owner-1")
	require.NoError(t, repo.Save(ctx, char))

	// Mutating the saved character must not leak into the repository.
	char.Name = "Changed"

	loaded, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Thorin", loaded.Name)
}

func TestInMemoryRepo_DeleteNotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	err := repo.Delete(context.Background(), "nope")
	assert.True(t, engineErrors.IsNotFound(err))
}

func TestInMemoryRepo_ListByOwner(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testCharacter("char-b", "owner-1")))
	require.NoError(t, repo.Save(ctx, testCharacter("char-a", "owner-1")))
	require.NoError(t, repo.Save(ctx, testCharacter("char-c", "owner-2")))

	chars, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, "char-a", chars[0].ID)
	assert.Equal(t, "char-b", chars[1].ID)
}
