package services

import (
	"time"

	"github.com/mudforge/mudcore/internal/convergence"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/progression"
	"github.com/mudforge/mudcore/internal/registry"
	"github.com/mudforge/mudcore/internal/repositories/characters"
	rulebookrepo "github.com/mudforge/mudcore/internal/repositories/rulebook"
	combatService "github.com/mudforge/mudcore/internal/services/combat"
	effectService "github.com/mudforge/mudcore/internal/services/effect"
	progressionService "github.com/mudforge/mudcore/internal/services/progression"
	rosterService "github.com/mudforge/mudcore/internal/services/roster"
)

// Provider holds all service instances
type Provider struct {
	Registry           *registry.Registry
	Bus                *events.Bus
	EffectService      effectService.Service
	CombatService      combatService.Service
	ProgressionService progressionService.Service
	RosterService      rosterService.Service
	Driver             *convergence.Driver
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	Rulebook            rulebookrepo.Repository
	Policy              *progression.Policy

	// ConvergenceInterval is the driver cadence; defaults to one second.
	ConvergenceInterval time.Duration
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	rulebook := cfg.Rulebook
	if rulebook == nil {
		empty, err := rulebookrepo.New(nil, nil, nil, nil)
		if err != nil {
			return nil, err
		}
		rulebook = empty
	}

	engine, err := progression.NewEngine(cfg.Policy)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	bus := events.NewBus()
	sequencer := events.NewSequencer()

	effSvc := effectService.NewService(&effectService.ServiceConfig{
		Bus:       bus,
		Sequencer: sequencer,
	})

	combatSvc := combatService.NewService(&combatService.ServiceConfig{
		Entities:    reg,
		Definitions: rulebook,
		Effects:     effSvc,
		Progression: engine,
		Bus:         bus,
		Sequencer:   sequencer,
	})

	progSvc := progressionService.NewService(&progressionService.ServiceConfig{
		Engine:      engine,
		Entities:    reg,
		Definitions: rulebook,
		Bus:         bus,
		Sequencer:   sequencer,
	})

	rosterSvc := rosterService.NewService(&rosterService.ServiceConfig{
		Repository: charRepo,
		Registry:   reg,
	})

	interval := cfg.ConvergenceInterval
	if interval <= 0 {
		interval = time.Second
	}
	driver, err := convergence.New(&convergence.Config{
		Registry:  reg,
		Effects:   effSvc,
		Bus:       bus,
		Sequencer: sequencer,
		Interval:  interval,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		Registry:           reg,
		Bus:                bus,
		EffectService:      effSvc,
		CombatService:      combatSvc,
		ProgressionService: progSvc,
		RosterService:      rosterSvc,
		Driver:             driver,
	}, nil
}
