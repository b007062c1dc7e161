package combat

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mudforge/mudcore/internal/dice"
	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
	"github.com/mudforge/mudcore/internal/effects"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/progression"
	"github.com/mudforge/mudcore/internal/score"
)

// NoActionReason explains a policy rejection: the action was legal to
// request but could not take effect, and is reported as a typed no-op
// rather than an error.
type NoActionReason string

const (
	NoActionBrokenWeapon     NoActionReason = "broken_weapon"
	NoActionActionsPrevented NoActionReason = "actions_prevented"
)

// AttackInput is one attack action request.
type AttackInput struct {
	SessionID  string
	ActorID    string
	TargetID   string
	ActionType shared.ActionType
	OffHand    bool
	Timestamp  time.Time
}

// AttackResult is the outcome record for one attack.
type AttackResult struct {
	NoAction bool
	Reason   NoActionReason

	Hit          bool
	AttackValue  int
	DefenseValue int
	SuccessValue int
	Absorbed     int
	Location     shared.BodyLocation
	DamageType   shared.DamageType

	FatigueDamage  int
	VitalityDamage int

	AttackRoll  *dice.RollResult
	DefenseRoll *dice.RollResult
	Usage       *progression.UsageResult
	Description string
	LogEntryID  string
}

// Attack implements Service.Attack
func (s *service) Attack(ctx context.Context, input *AttackInput) (*AttackResult, error) {
	if input == nil {
		return nil, engineErrors.InvalidArgument("attack input cannot be nil")
	}
	if input.ActorID == "" || input.TargetID == "" {
		return nil, engineErrors.InvalidArgument("attack requires actor and target")
	}
	if input.ActorID == input.TargetID {
		return nil, engineErrors.InvalidArgument("actor cannot attack itself")
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
		return &AttackResult{
			NoAction:    true,
			Reason:      NoActionActionsPrevented,
			Description: fmt.Sprintf("%s cannot act", actor.Name),
		}, nil
	}

	weapon, held, dualWielding, err := s.selectWeapon(actor, input.OffHand)
	if err != nil {
		return nil, err
	}
	if weapon.IsBroken() {
		s.recordZeroUsage(actor, weapon.SkillID, string(NoActionBrokenWeapon), now)
		return &AttackResult{
			NoAction:    true,
			Reason:      NoActionBrokenWeapon,
			Description: fmt.Sprintf("%s is broken", weapon.Name),
		}, nil
	}

	weaponDef, err := s.definitions.SkillDefinition(weapon.SkillID)
	if err != nil {
		return nil, engineErrors.Wrapf(err, "unknown weapon skill %s", weapon.SkillID)
	}

	attackRoll, err := s.roller.RollExploding(s.attackDice)
	if err != nil {
		return nil, engineErrors.Wrap(err, "attack roll failed")
	}

	attackValue := score.Effective(score.Input{
		Attribute:     weaponDef.Attribute,
		AttributeBase: actor.Attribute(weaponDef.Attribute),
		SkillID:       weaponDef.ID,
		SkillLevel:    actor.SkillLevel(weaponDef.ID),
		Equipment:     actor.EquipmentModifiers(),
		Effects:       actorSummary,
	})
	attackValue += weapon.AttackModifier
	if dualWielding && input.OffHand {
		attackValue += s.offHandPenalty
	}
	attackValue += actorSummary.AttackDelta
	attackValue += attackRoll.Total

	targetSummary := s.effects.Summarize(target.ID)
	defenseValue, defenseSkillLevel, defenseRoll, err := s.defenseValue(target, targetSummary)
	if err != nil {
		return nil, err
	}

	successValue := attackValue - defenseValue
	successValue += actor.StrengthBonus()
	successValue += weapon.SuccessModifier
	successValue += actorSummary.SuccessDelta

	location := s.pickLocation()
	absorbed := target.Absorption(location, weapon.DamageType, weapon.DamageClass)

	finalSuccess := successValue - absorbed
	if finalSuccess < 0 {
		finalSuccess = 0
	}

	result := &AttackResult{
		Hit:          finalSuccess > 0,
		AttackValue:  attackValue,
		DefenseValue: defenseValue,
		SuccessValue: finalSuccess,
		Absorbed:     absorbed,
		Location:     location,
		DamageType:   weapon.DamageType,
		AttackRoll:   attackRoll,
		DefenseRoll:  defenseRoll,
	}

	if result.Hit {
		raw := roundHalfUp(float64(finalSuccess) * actorSummary.DamageDealtScale())
		result.FatigueDamage, result.VitalityDamage = splitDamage(input.ActionType, weapon.DamageType, raw)

		changes := map[shared.PoolKind]int{}
		if result.FatigueDamage > 0 {
			changes[shared.PoolFatigue] = result.FatigueDamage
		}
		if result.VitalityDamage > 0 {
			changes[shared.PoolVitality] = result.VitalityDamage
		}
		if len(changes) > 0 {
			if err := s.queueWithRetry(ctx, target, changes); err != nil {
				return nil, err
			}
		}
		if held {
			actor.WearWeapon(input.OffHand)
		}
	}
	if result.Absorbed > 0 && result.AttackValue > result.DefenseValue {
		target.WearArmor(location)
	}

	result.Description = describeAttack(actor.Name, target.Name, weapon.Name, result)

	usage, err := s.progression.RecordUsage(&progression.UsageInput{
		Character:    actor,
		Definition:   weaponDef,
		Type:         progression.UsageRoutine,
		BaseValue:    1,
		TargetRef:    target.ID,
		TargetRating: defenseSkillLevel,
		Timestamp:    now,
	})
	if err != nil {
		return nil, engineErrors.Wrap(err, "failed to record weapon skill usage")
	}
	result.Usage = usage
	s.emitUsage(actor.ID, weaponDef.ID, usage, now)

	result.LogEntryID = s.logAction(input.SessionID, now, input.ActorID, input.TargetID, result.Description, result.Hit, result.FatigueDamage+result.VitalityDamage)
	s.emitOutcome(input, result, now)

	return result, nil
}

// selectWeapon picks the attacking weapon as a point-in-time copy,
// substituting an unarmed pseudo-weapon for an empty main hand. held
// reports whether a real equipped weapon swings and so takes wear.
func (s *service) selectWeapon(actor *character.Character, offHand bool) (equipment.Weapon, bool, bool, error) {
	w, held, dual := actor.WeaponSnapshot(offHand)

	if offHand {
		if !held {
			return equipment.Weapon{}, false, dual, engineErrors.InvalidArgumentf("%s holds nothing in the off hand", actor.Name)
		}
		return w, true, dual, nil
	}

	if !held {
		return equipment.Weapon{
			Name:       "fists",
			SkillID:    s.unarmedSkillID,
			DamageType: shared.DamageTypeBlunt,
			Durability: 1,
		}, false, false, nil
	}
	return w, true, dual, nil
}

// defenseValue computes the target's defense: the better of dodge and
// parry, plus functioning armor dodge modifiers, plus an exploding roll.
func (s *service) defenseValue(target *character.Character, summary *effects.Summary) (int, int, *dice.RollResult, error) {
	defenseSkillID := s.dodgeSkillID
	if target.SkillLevel(s.parrySkillID) > target.SkillLevel(s.dodgeSkillID) {
		defenseSkillID = s.parrySkillID
	}

	defenseDef, err := s.definitions.SkillDefinition(defenseSkillID)
	if err != nil {
		return 0, 0, nil, engineErrors.Wrapf(err, "unknown defense skill %s", defenseSkillID)
	}

	roll, err := s.roller.RollExploding(s.attackDice)
	if err != nil {
		return 0, 0, nil, engineErrors.Wrap(err, "defense roll failed")
	}

	level := target.SkillLevel(defenseSkillID)
	value := score.Effective(score.Input{
		Attribute:     defenseDef.Attribute,
		AttributeBase: target.Attribute(defenseDef.Attribute),
		SkillID:       defenseDef.ID,
		SkillLevel:    level,
		Equipment:     target.EquipmentModifiers(),
		Effects:       summary,
	})
	value += target.DodgeModifier()
	value += roll.Total

	return value, level, roll, nil
}

// splitDamage divides raw damage across the pools by action-type rules:
// subdual damage is all fatigue, blunt trauma splits evenly with the
// larger half on fatigue, and edged/elemental damage is all vitality.
func splitDamage(action shared.ActionType, damageType shared.DamageType, raw int) (fatigue, vitality int) {
	if raw <= 0 {
		return 0, 0
	}
	switch {
	case action == shared.ActionTypeSubdue:
		return raw, 0
	case damageType == shared.DamageTypeBlunt:
		fatigue = (raw + 1) / 2
		return fatigue, raw - fatigue
	default:
		return 0, raw
	}
}

func (s *service) recordZeroUsage(actor *character.Character, skillID, reason string, now time.Time) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Emit(&events.UsageRecordedEvent{
		Envelope:  s.sequencer.Envelope(events.EventUsageRecorded, actor.ID, now),
		SkillID:   skillID,
		Throttled: true,
		Reason:    reason,
	})
}

func (s *service) emitUsage(characterID, skillID string, usage *progression.UsageResult, now time.Time) {
	if s.bus == nil {
		return
	}

	_ = s.bus.Emit(&events.UsageRecordedEvent{
		Envelope:    s.sequencer.Envelope(events.EventUsageRecorded, characterID, now),
		SkillID:     skillID,
		PointsAdded: usage.PointsAdded,
		Throttled:   usage.Throttled,
		Reason:      string(usage.ThrottleReason),
	})

	if usage.Advanced {
		_ = s.bus.Emit(&events.SkillAdvancedEvent{
			Envelope:    s.sequencer.Envelope(events.EventSkillAdvanced, characterID, now),
			SkillID:     skillID,
			PointsAdded: usage.PointsAdded,
			OldLevel:    usage.OldLevel,
			NewLevel:    usage.NewLevel,
		})
	}
}

func (s *service) emitOutcome(input *AttackInput, result *AttackResult, now time.Time) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Emit(&events.CombatOutcomeEvent{
		Envelope:       s.sequencer.Envelope(events.EventCombatOutcome, input.TargetID, now),
		SessionID:      input.SessionID,
		ActorID:        input.ActorID,
		TargetID:       input.TargetID,
		Hit:            result.Hit,
		AttackValue:    result.AttackValue,
		DefenseValue:   result.DefenseValue,
		SuccessValue:   result.SuccessValue,
		Absorbed:       result.Absorbed,
		DamageType:     result.DamageType,
		FatigueDamage:  result.FatigueDamage,
		VitalityDamage: result.VitalityDamage,
		Description:    result.Description,
	})
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
