package progression

import (
	"context"
	"time"

	"github.com/mudforge/mudcore/internal/domain/character"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/progression"
	"github.com/mudforge/mudcore/internal/rulebook"
)

//go:generate mockgen -destination=mock/mock_service.go -package=mockprogression -source=service.go

// EntitySource resolves live entities by ID.
type EntitySource interface {
	Get(id string) (*character.Character, error)
}

// DefinitionSource resolves skill templates by ID.
type DefinitionSource interface {
	SkillDefinition(id string) (*rulebook.SkillDefinition, error)
}

// UseSkillInput is one non-combat skill use to credit: crafting,
// teaching, training, or any deliberate practice outside the combat
// resolver (which credits weapon skills itself).
type UseSkillInput struct {
	CharacterID  string
	SkillID      string
	Type         progression.UsageType
	BaseValue    float64
	TargetRef    string
	TargetRating int
	Timestamp    time.Time
}

// Progress is a point-in-time report on one skill's advancement.
type Progress struct {
	SkillID    string
	Level      int
	Usage      float64
	CostToNext float64
}

// Service credits skill usage and reports advancement state.
type Service interface {
	// UseSkill credits one usage event against a character's skill,
	// creating the skill record on first use.
	UseSkill(ctx context.Context, input *UseSkillInput) (*progression.UsageResult, error)

	// Progress reports the current level, accumulated usage, and the
	// points still needed for the next level.
	Progress(ctx context.Context, characterID, skillID string) (*Progress, error)
}

// ServiceConfig holds the service dependencies
type ServiceConfig struct {
	Engine      *progression.Engine
	Entities    EntitySource
	Definitions DefinitionSource
	Bus         *events.Bus
	Sequencer   *events.Sequencer
}

type service struct {
	engine      *progression.Engine
	entities    EntitySource
	definitions DefinitionSource
	bus         *events.Bus
	sequencer   *events.Sequencer
}

// NewService creates a new progression service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("progression service config is required")
	}
	if cfg.Engine == nil {
		panic("progression engine is required")
	}
	if cfg.Entities == nil {
		panic("entity source is required")
	}
	if cfg.Definitions == nil {
		panic("definition source is required")
	}

	sequencer := cfg.Sequencer
	if sequencer == nil {
		sequencer = events.NewSequencer()
	}

	return &service{
		engine:      cfg.Engine,
		entities:    cfg.Entities,
		definitions: cfg.Definitions,
		bus:         cfg.Bus,
		sequencer:   sequencer,
	}
}

func (s *service) UseSkill(ctx context.Context, input *UseSkillInput) (*progression.UsageResult, error) {
	if input == nil {
		return nil, engineErrors.InvalidArgument("use skill input cannot be nil")
	}
	if input.CharacterID == "" {
		return nil, engineErrors.InvalidArgument("character id is required")
	}
	if input.SkillID == "" {
		return nil, engineErrors.InvalidArgument("skill id is required")
	}

	char, err := s.entities.Get(input.CharacterID)
	if err != nil {
		return nil, err
	}
	def, err := s.definitions.SkillDefinition(input.SkillID)
	if err != nil {
		return nil, err
	}

	now := input.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	result, err := s.engine.RecordUsage(&progression.UsageInput{
		Character:    char,
		Definition:   def,
		Type:         input.Type,
		BaseValue:    input.BaseValue,
		TargetRef:    input.TargetRef,
		TargetRating: input.TargetRating,
		Timestamp:    now,
	})
	if err != nil {
		return nil, err
	}

	s.emitUsage(char.ID, def.ID, result, now)
	return result, nil
}

func (s *service) Progress(ctx context.Context, characterID, skillID string) (*Progress, error) {
	if characterID == "" {
		return nil, engineErrors.InvalidArgument("character id is required")
	}
	if skillID == "" {
		return nil, engineErrors.InvalidArgument("skill id is required")
	}

	char, err := s.entities.Get(characterID)
	if err != nil {
		return nil, err
	}
	def, err := s.definitions.SkillDefinition(skillID)
	if err != nil {
		return nil, err
	}

	skill, _ := char.SkillSnapshot(skillID)
	usage := skill.Usage
	level := progression.CurrentLevel(def, usage)

	return &Progress{
		SkillID:    skillID,
		Level:      level,
		Usage:      usage,
		CostToNext: progression.TotalCostForLevel(def, level+1) - usage,
	}, nil
}

func (s *service) emitUsage(characterID, skillID string, result *progression.UsageResult, now time.Time) {
	if s.bus == nil {
		return
	}

	_ = s.bus.Emit(&events.UsageRecordedEvent{
		Envelope:    s.sequencer.Envelope(events.EventUsageRecorded, characterID, now),
		SkillID:     skillID,
		PointsAdded: result.PointsAdded,
		Throttled:   result.Throttled,
		Reason:      string(result.ThrottleReason),
	})

	if result.Advanced {
		_ = s.bus.Emit(&events.SkillAdvancedEvent{
			Envelope:    s.sequencer.Envelope(events.EventSkillAdvanced, characterID, now),
			SkillID:     skillID,
			PointsAdded: result.PointsAdded,
			OldLevel:    result.OldLevel,
			NewLevel:    result.NewLevel,
		})
	}
}
