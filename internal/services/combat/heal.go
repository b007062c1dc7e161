package combat

import (
	"context"
	"fmt"
	"time"

	"github.com/mudforge/mudcore/internal/dice"
	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/progression"
	"github.com/mudforge/mudcore/internal/score"
)

// HealInput is one healing action request. SkillID names the healing
// skill used.
type HealInput struct {
	SessionID string
	ActorID   string
	TargetID  string
	SkillID   string
	Timestamp time.Time
}

// HealResult reports queued healing. Healing enters the target's pending
// vitality pool and converges like damage does.
type HealResult struct {
	NoAction bool
	Reason   NoActionReason

	Amount      int
	Roll        *dice.RollResult
	Usage       *progression.UsageResult
	Description string
	LogEntryID  string
}

// Heal implements Service.Heal
func (s *service) Heal(ctx context.Context, input *HealInput) (*HealResult, error) {
	if input == nil {
		return nil, engineErrors.InvalidArgument("heal input cannot be nil")
	}
	if input.ActorID == "" || input.TargetID == "" || input.SkillID == "" {
		return nil, engineErrors.InvalidArgument("heal requires actor, target and skill")
	}

	actor, err := s.entities.Get(input.ActorID)
	if err != nil {
		return nil, engineErrors.Wrap(err, "failed to resolve actor")
	}
	target, err := s.entities.Get(input.TargetID)
	if err != nil {
		return nil, engineErrors.Wrap(err, "failed to resolve target")
	}

	now := input.Timestamp
	if now.IsZero() {
		now = s.clock()
	}

	actorSummary := s.effects.Summarize(actor.ID)
	if actorSummary.PreventActions {
		return &HealResult{
			NoAction:    true,
			Reason:      NoActionActionsPrevented,
			Description: fmt.Sprintf("%s cannot act", actor.Name),
		}, nil
	}

	healDef, err := s.definitions.SkillDefinition(input.SkillID)
	if err != nil {
		return nil, engineErrors.Wrapf(err, "unknown healing skill %s", input.SkillID)
	}

	roll, err := s.roller.RollExploding(s.attackDice)
	if err != nil {
		return nil, engineErrors.Wrap(err, "healing roll failed")
	}

	amount := score.Effective(score.Input{
		Attribute:     healDef.Attribute,
		AttributeBase: actor.Attribute(healDef.Attribute),
		SkillID:       healDef.ID,
		SkillLevel:    actor.SkillLevel(healDef.ID),
		Equipment:     actor.EquipmentModifiers(),
		Effects:       actorSummary,
	})
	amount += roll.Total

	if amount > 0 {
		targetSummary := s.effects.Summarize(target.ID)
		amount = roundHalfUp(float64(amount) * (1 + targetSummary.HealingReceivedPercent))
	}
	if amount < 0 {
		amount = 0
	}

	result := &HealResult{Amount: amount, Roll: roll}

	if amount > 0 {
		changes := map[shared.PoolKind]int{shared.PoolVitality: -amount}
		if err := s.queueWithRetry(ctx, target, changes); err != nil {
			return nil, err
		}
		result.Description = fmt.Sprintf("%s tends %s's wounds for %d", actor.Name, target.Name, amount)
	} else {
		result.Description = fmt.Sprintf("%s fumbles while tending %s's wounds", actor.Name, target.Name)
	}

	usage, err := s.progression.RecordUsage(&progression.UsageInput{
		Character:    actor,
		Definition:   healDef,
		Type:         progression.UsageRoutine,
		BaseValue:    1,
		TargetRef:    target.ID,
		TargetRating: actor.SkillLevel(healDef.ID),
		Timestamp:    now,
	})
	if err != nil {
		return nil, engineErrors.Wrap(err, "failed to record healing skill usage")
	}
	result.Usage = usage
	s.emitUsage(actor.ID, healDef.ID, usage, now)

	result.LogEntryID = s.logAction(input.SessionID, now, input.ActorID, input.TargetID, result.Description, amount > 0, -amount)

	return result, nil
}
