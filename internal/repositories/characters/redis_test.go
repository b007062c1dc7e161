package characters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

func testCharacter(id, ownerID string) *character.Character {
	return &character.Character{
		ID:      id,
		OwnerID: ownerID,
		Name:    "Thorin",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength: 12,
			shared.AttributeAgility:  10,
		},
		Skills: map[string]*character.Skill{
			"swords": {DefinitionID: "swords", Usage: 80, CachedLevel: 2},
		},
		Fatigue:  character.Pool{Current: 40, Max: 40},
		Vitality: character.Pool{Current: 30, Max: 30},
		MainHand: &equipment.Weapon{
			ID:         "iron-sword",
			Name:       "Iron Sword",
			SkillID:    "swords",
			DamageType: shared.DamageTypeSlash,
			Durability: 50, MaxDurability: 50,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func setupRedisRepo(t *testing.T) Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client)
}

func TestRedisRepo_SaveAndGet(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	char := testCharacter("char-1", "owner-1")
	require.NoError(t, repo.Save(ctx, char))

	loaded, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Thorin", loaded.Name)
	assert.Equal(t, 12, loaded.Attribute(shared.AttributeStrength))
	assert.Equal(t, 2, loaded.SkillLevel("swords"))
	assert.Equal(t, 40, loaded.Pool(shared.PoolFatigue).Current)
	require.NotNil(t, loaded.MainHand)
	assert.Equal(t, "Iron Sword", loaded.MainHand.Name)
}

func TestRedisRepo_GetNotFound(t *testing.T) {
	repo := setupRedisRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, engineErrors.IsNotFound(err))
}

func TestRedisRepo_Delete(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testCharacter("char-1", "owner-1")))
	require.NoError(t, repo.Delete(ctx, "char-1"))

	_, err := repo.Get(ctx, "char-1")
	assert.True(t, engineErrors.IsNotFound(err))

	chars, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, chars)
}

func TestRedisRepo_ListByOwner(t *testing.T) {
	repo := setupRedisRepo(t)
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

func TestRedisRepo_InvalidArguments(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "")
	assert.True(t, engineErrors.IsInvalidArgument(err))

	err = repo.Save(ctx, nil)
	assert.True(t, engineErrors.IsInvalidArgument(err))

	err = repo.Save(ctx, &character.Character{})
	assert.True(t, engineErrors.IsInvalidArgument(err))

	err = repo.Delete(ctx, "")
	assert.True(t, engineErrors.IsInvalidArgument(err))

	_, err = repo.ListByOwner(ctx, "")
	assert.True(t, engineErrors.IsInvalidArgument(err))
}

func TestRedisRepo_GetWrapsTransportErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	mock.ExpectGet("character:char-1").SetErr(assert.AnError)

	_, err := repo.Get(context.Background(), "char-1")
	require.Error(t, err)
	assert.False(t, engineErrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
