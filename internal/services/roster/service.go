// Package roster moves characters between durable storage and the live
// registry: load on login/spawn, unload with a final save on logout.
package roster

import (
	"context"

	"github.com/mudforge/mudcore/internal/domain/character"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/registry"
	"github.com/mudforge/mudcore/internal/repositories/characters"
)

//go:generate mockgen -destination=mock/mock_service.go -package=mockroster -source=service.go

// Service manages the live character set.
type Service interface {
	// Load fetches a character from storage and registers it live.
	// Loading an already-live character returns the live instance
	// untouched.
	Load(ctx context.Context, id string) (*character.Character, error)

	// Unload persists a live character and removes it from the
	// registry.
	Unload(ctx context.Context, id string) error

	// Save persists a live character without unloading it. Used for
	// periodic checkpoints.
	Save(ctx context.Context, id string) error

	// SaveAll checkpoints every live character, reporting the first
	// failure after attempting all of them.
	SaveAll(ctx context.Context) error
}

// ServiceConfig holds the service dependencies
type ServiceConfig struct {
	Repository characters.Repository
	Registry   *registry.Registry
}

type service struct {
	repo     characters.Repository
	registry *registry.Registry
}

// NewService creates a new roster service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("roster service config is required")
	}
	if cfg.Repository == nil {
		panic("character repository is required")
	}
	if cfg.Registry == nil {
		panic("registry is required")
	}

	return &service{
		repo:     cfg.Repository,
		registry: cfg.Registry,
	}
}

func (s *service) Load(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, engineErrors.InvalidArgument("character id is required")
	}

	if live, err := s.registry.Get(id); err == nil {
		return live, nil
	}

	char, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Add(char); err != nil {
		return nil, err
	}
	return char, nil
}

func (s *service) Unload(ctx context.Context, id string) error {
	if err := s.Save(ctx, id); err != nil {
		return err
	}
	s.registry.Remove(id)
	return nil
}

func (s *service) Save(ctx context.Context, id string) error {
	if id == "" {
		return engineErrors.InvalidArgument("character id is required")
	}

	char, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, char)
}

func (s *service) SaveAll(ctx context.Context) error {
	var firstErr error
	for _, char := range s.registry.List() {
		if err := s.repo.Save(ctx, char); err != nil && firstErr == nil {
			firstErr = engineErrors.Wrapf(err, "failed to checkpoint character %s", char.ID)
		}
	}
	return firstErr
}
