package combat

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mudforge/mudcore/internal/dice"
	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/shared"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/progression"
	"github.com/mudforge/mudcore/internal/rulebook"
	"github.com/mudforge/mudcore/internal/services/effect"
)

//go:generate mockgen -destination=mock/mock_sources.go -package=mockcombat -source=service.go

// EntitySource resolves live entities by ID.
type EntitySource interface {
	Get(id string) (*character.Character, error)
}

// SkillDefinitionSource resolves skill templates by ID.
type SkillDefinitionSource interface {
	SkillDefinition(id string) (*rulebook.SkillDefinition, error)
}

// Service resolves combat actions into outcome records and pending-pool
// deltas.
type Service interface {
	// Attack resolves one attack action
	Attack(ctx context.Context, input *AttackInput) (*AttackResult, error)

	// Heal resolves one healing action, queueing healing on the target
	Heal(ctx context.Context, input *HealInput) (*HealResult, error)

	// StartSession opens a combat session scoping subsequent actions
	StartSession(participantIDs ...string) (*Session, error)

	// EndSession closes a session; its action log stays readable
	EndSession(sessionID string) error

	// Session returns a session by ID
	Session(sessionID string) (*Session, error)
}

// ServiceConfig holds configuration for the combat service
type ServiceConfig struct {
	Entities    EntitySource
	Definitions SkillDefinitionSource
	Effects     effect.Service
	Progression *progression.Engine
	Roller      dice.Roller
	Bus         *events.Bus
	Sequencer   *events.Sequencer

	// DodgeSkillID and ParrySkillID name the defense skills; the higher
	// cached level of the two is rolled.
	DodgeSkillID string
	ParrySkillID string
	// UnarmedSkillID is used when the actor holds no weapon.
	UnarmedSkillID string
	// OffHandPenalty is applied to off-hand attacks while dual-wielding.
	OffHandPenalty int
	// AttackDice is the pool size for attack and defense rolls.
	AttackDice int

	// LocationPicker chooses the struck body location; defaults to a
	// roller-driven uniform pick.
	LocationPicker func() shared.BodyLocation
	Clock          func() time.Time
}

type service struct {
	entities    EntitySource
	definitions SkillDefinitionSource
	effects     effect.Service
	progression *progression.Engine
	roller      dice.Roller
	bus         *events.Bus
	sequencer   *events.Sequencer
	sessions    *sessionStore

	dodgeSkillID   string
	parrySkillID   string
	unarmedSkillID string
	offHandPenalty int
	attackDice     int

	pickLocation func() shared.BodyLocation
	clock        func() time.Time
}

// NewService creates a new combat service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Entities == nil {
		panic("entity source is required")
	}
	if cfg.Definitions == nil {
		panic("skill definition source is required")
	}
	if cfg.Effects == nil {
		panic("effect service is required")
	}
	if cfg.Progression == nil {
		panic("progression engine is required")
	}

	svc := &service{
		entities:       cfg.Entities,
		definitions:    cfg.Definitions,
		effects:        cfg.Effects,
		progression:    cfg.Progression,
		roller:         cfg.Roller,
		bus:            cfg.Bus,
		sequencer:      cfg.Sequencer,
		sessions:       newSessionStore(),
		dodgeSkillID:   cfg.DodgeSkillID,
		parrySkillID:   cfg.ParrySkillID,
		unarmedSkillID: cfg.UnarmedSkillID,
		offHandPenalty: cfg.OffHandPenalty,
		attackDice:     cfg.AttackDice,
		pickLocation:   cfg.LocationPicker,
		clock:          cfg.Clock,
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.sequencer == nil {
		svc.sequencer = events.NewSequencer()
	}
	if svc.dodgeSkillID == "" {
		svc.dodgeSkillID = "dodge"
	}
	if svc.parrySkillID == "" {
		svc.parrySkillID = "parry"
	}
	if svc.unarmedSkillID == "" {
		svc.unarmedSkillID = "brawling"
	}
	if svc.offHandPenalty == 0 {
		svc.offHandPenalty = -3
	}
	if svc.attackDice == 0 {
		svc.attackDice = 4
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.pickLocation == nil {
		svc.pickLocation = svc.rollLocation
	}

	return svc
}

// rollLocation picks a struck location from a dice roll; the peaked
// distribution lands most hits on the torso.
func (s *service) rollLocation() shared.BodyLocation {
	result, err := s.roller.Roll(s.attackDice)
	if err != nil {
		return shared.LocationTorso
	}
	switch {
	case result.Total <= -3:
		return shared.LocationFeet
	case result.Total == -2:
		return shared.LocationLegs
	case result.Total == -1:
		return shared.LocationHands
	case result.Total == 1:
		return shared.LocationArms
	case result.Total >= 3:
		return shared.LocationHead
	default:
		return shared.LocationTorso
	}
}

// queueWithRetry stages pool changes on the target under its version
// token, retrying once against refreshed state before surfacing the
// conflict (single-writer-per-entity discipline).
func (s *service) queueWithRetry(ctx context.Context, target *character.Character, changes map[shared.PoolKind]int) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		version := target.Version()
		if err := target.QueuePoolChanges(changes, version); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
