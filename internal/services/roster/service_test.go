package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mudforge/mudcore/internal/domain/character"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/registry"
	mockcharacters "github.com/mudforge/mudcore/internal/repositories/characters/mock"
)

func setupService(t *testing.T) (Service, *mockcharacters.MockRepository, *registry.Registry) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mockcharacters.NewMockRepository(ctrl)
	reg := registry.New()

	svc := NewService(&ServiceConfig{
		Repository: repo,
		Registry:   reg,
	})
	return svc, repo, reg
}

func TestLoad(t *testing.T) {
	svc, repo, reg := setupService(t)
	ctx := context.Background()

	stored := &character.Character{ID: "char-1", Name: "Thorin"}
	repo.EXPECT().Get(ctx, "char-1").Return(stored, nil)

	char, err := svc.Load(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Thorin", char.Name)
	assert.Equal(t, 1, reg.Len())

	// Second load must return the live instance without touching storage.
	again, err := svc.Load(ctx, "char-1")
	require.NoError(t, err)
	assert.Same(t, char, again)
}

func TestLoad_NotFound(t *testing.T) {
	svc, repo, reg := setupService(t)
	ctx := context.Background()

	repo.EXPECT().Get(ctx, "nope").Return(nil, engineErrors.NotFound("character nope not found"))

	_, err := svc.Load(ctx, "nope")
	assert.True(t, engineErrors.IsNotFound(err))
	assert.Equal(t, 0, reg.Len())
}

func TestUnload_SavesThenRemoves(t *testing.T) {
	svc, repo, reg := setupService(t)
	ctx := context.Background()

	char := &character.Character{ID: "char-1", Name: "Thorin"}
	require.NoError(t, reg.Add(char))

	repo.EXPECT().Save(ctx, char).Return(nil)

	require.NoError(t, svc.Unload(ctx, "char-1"))
	assert.Equal(t, 0, reg.Len())
}

func TestUnload_SaveFailureKeepsLive(t *testing.T) {
	svc, repo, reg := setupService(t)
	ctx := context.Background()

	char := &character.Character{ID: "char-1"}
	require.NoError(t, reg.Add(char))

	repo.EXPECT().Save(ctx, char).Return(engineErrors.Internal("redis down"))

	err := svc.Unload(ctx, "char-1")
	require.Error(t, err)
	assert.Equal(t, 1, reg.Len(), "a character that failed to persist must stay live")
}

func TestSave_NotLive(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.Save(context.Background(), "char-1")
	assert.True(t, engineErrors.IsNotFound(err))
}

func TestSaveAll(t *testing.T) {
	svc, repo, reg := setupService(t)
	ctx := context.Background()

	a := &character.Character{ID: "char-a"}
	b := &character.Character{ID: "char-b"}
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	repo.EXPECT().Save(ctx, a).Return(engineErrors.Internal("redis down"))
	repo.EXPECT().Save(ctx, b).Return(nil)

	err := svc.SaveAll(ctx)
	require.Error(t, err, "first failure is reported after all saves were attempted")
}
