package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// CharacterData represents the serialized form of a character in Redis
type CharacterData struct {
	ID         string                     `json:"id"`
	OwnerID    string                     `json:"owner_id"`
	Name       string                     `json:"name"`
	NPC        bool                       `json:"npc"`
	Attributes map[shared.Attribute]int   `json:"attributes"`
	Skills     map[string]*character.Skill `json:"skills"`
	Fatigue    character.Pool             `json:"fatigue"`
	Vitality   character.Pool             `json:"vitality"`
	MainHand   *equipment.Weapon          `json:"main_hand,omitempty"`
	OffHand    *equipment.Weapon          `json:"off_hand,omitempty"`
	Armor      []*equipment.Armor         `json:"armor,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a Redis-backed character repository
func NewRedisRepository(client redis.UniversalClient) Repository {
	return &redisRepo{client: client}
}

func characterKey(id string) string {
	return fmt.Sprintf("character:%s", id)
}

func ownerKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

func toData(c *character.Character) *CharacterData {
	clone := c.Clone()
	return &CharacterData{
		ID:         clone.ID,
		OwnerID:    clone.OwnerID,
		Name:       clone.Name,
		NPC:        clone.NPC,
		Attributes: clone.Attributes,
		Skills:     clone.Skills,
		Fatigue:    clone.Fatigue,
		Vitality:   clone.Vitality,
		MainHand:   clone.MainHand,
		OffHand:    clone.OffHand,
		Armor:      clone.Armor,
		CreatedAt:  clone.CreatedAt,
		UpdatedAt:  clone.UpdatedAt,
	}
}

func fromData(data *CharacterData) *character.Character {
	return &character.Character{
		ID:         data.ID,
		OwnerID:    data.OwnerID,
		Name:       data.Name,
		NPC:        data.NPC,
		Attributes: data.Attributes,
		Skills:     data.Skills,
		Fatigue:    data.Fatigue,
		Vitality:   data.Vitality,
		MainHand:   data.MainHand,
		OffHand:    data.OffHand,
		Armor:      data.Armor,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, engineErrors.InvalidArgument("character id is required")
	}

	raw, err := r.client.Get(ctx, characterKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, engineErrors.NotFoundf("character %s not found", id)
		}
		return nil, engineErrors.Wrapf(err, "failed to get character %s", id)
	}

	var data CharacterData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, engineErrors.Wrapf(err, "failed to unmarshal character %s", id)
	}
	return fromData(&data), nil
}

func (r *redisRepo) Save(ctx context.Context, char *character.Character) error {
	if char == nil || char.ID == "" {
		return engineErrors.InvalidArgument("character with an ID is required")
	}

	raw, err := json.Marshal(toData(char))
	if err != nil {
		return engineErrors.Wrapf(err, "failed to marshal character %s", char.ID)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, characterKey(char.ID), string(raw), 0)
	if char.OwnerID != "" {
		pipe.SAdd(ctx, ownerKey(char.OwnerID), char.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return engineErrors.Wrapf(err, "failed to save character %s", char.ID)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return engineErrors.InvalidArgument("character id is required")
	}

	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, characterKey(id))
	if char.OwnerID != "" {
		pipe.SRem(ctx, ownerKey(char.OwnerID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return engineErrors.Wrapf(err, "failed to delete character %s", id)
	}
	return nil
}

func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, engineErrors.InvalidArgument("owner id is required")
	}

	ids, err := r.client.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, engineErrors.Wrapf(err, "failed to list characters for %s", ownerID)
	}

	var (
		mu    sync.Mutex
		chars []*character.Character
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			char, err := r.Get(ctx, id)
			if err != nil {
				// Membership can outlive the record; skip holes.
				if engineErrors.IsNotFound(err) {
					return nil
				}
				return err
			}
			mu.Lock()
			chars = append(chars, char)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })
	return chars, nil
}
