package progression

import (
	"log"
	"time"

	"github.com/mudforge/mudcore/internal/domain/character"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/rulebook"
)

// ThrottleReason explains a zero-value usage result.
type ThrottleReason string

const (
	ThrottleNone           ThrottleReason = ""
	ThrottleTargetCooldown ThrottleReason = "target_cooldown"
)

// UsageInput is one usage event to credit.
type UsageInput struct {
	Character    *character.Character
	Definition   *rulebook.SkillDefinition
	Type         UsageType
	BaseValue    float64
	TargetRef    string // opponent/recipe/target identity for the cooldown check
	TargetRating int    // difficulty on the skill-level scale
	Timestamp    time.Time
}

// UsageResult reports what a usage event was worth. A throttled event is
// an accepted zero-value result, not an error, so callers can surface an
// explanatory message.
type UsageResult struct {
	PointsAdded    float64
	Throttled      bool
	ThrottleReason ThrottleReason
	OldLevel       int
	NewLevel       int
	Advanced       bool
}

// Engine is the progression engine. It is a pure function of usage
// history plus policy state; per character-skill mutations serialize on
// the pair's tracker.
type Engine struct {
	policy   *Policy
	trackers *trackerSet
}

// NewEngine creates a progression engine with the given policy, falling
// back to the default policy when nil.
func NewEngine(policy *Policy) (*Engine, error) {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy, trackers: newTrackerSet()}, nil
}

// RecordUsage validates and credits one usage event: throttle policy
// first, then the usage-type multiplier, then accumulation and level
// recomputation. Advancement is reported when the recomputed level rose;
// this is the only path that writes CachedLevel.
func (e *Engine) RecordUsage(in *UsageInput) (*UsageResult, error) {
	if in == nil {
		return nil, engineErrors.InvalidArgument("usage input cannot be nil")
	}
	if in.Character == nil {
		return nil, engineErrors.InvalidArgument("usage input requires a character")
	}
	if in.Definition == nil {
		return nil, engineErrors.InvalidArgument("usage input requires a skill definition")
	}
	if err := in.Definition.Validate(); err != nil {
		return nil, err
	}
	if in.BaseValue < 0 {
		return nil, engineErrors.InvalidArgumentf("usage value cannot be negative, got %v", in.BaseValue)
	}

	now := in.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	tracker := e.trackers.get(in.Character.ID, in.Definition.ID)
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	// The tracker lock makes this the sole writer for the pair, so the
	// snapshot cannot go stale before the commit below. CachedLevel must
	// always equal the level computed from usage; usage is the source of
	// truth, so repair and log on divergence rather than propagate a
	// corrupt derived value.
	skill, _ := in.Character.SkillSnapshot(in.Definition.ID)
	oldLevel := CurrentLevel(in.Definition, skill.Usage)
	if skill.CachedLevel != oldLevel {
		log.Printf("progression: cached level %d diverged from computed %d for %s/%s, repairing",
			skill.CachedLevel, oldLevel, in.Character.ID, in.Definition.ID)
		in.Character.SetSkillProgress(in.Definition.ID, skill.Usage, oldLevel)
	}

	if tracker.targetOnCooldown(in.TargetRef, now, e.policy.TargetCooldown) {
		tracker.record(now)
		return &UsageResult{
			Throttled:      true,
			ThrottleReason: ThrottleTargetCooldown,
			OldLevel:       oldLevel,
			NewLevel:       oldLevel,
		}, nil
	}

	priorUses := tracker.pruneWindow(now, e.policy.HourlyWindow)
	value := in.BaseValue
	value *= e.policy.hourlyMultiplier(priorUses)
	value *= e.policy.challengeMultiplier(in.TargetRating - oldLevel)
	if e.policy.DailyFreshBonus > 0 && tracker.firstUseOfDay(now) {
		value *= 1 + e.policy.DailyFreshBonus
	}
	value *= in.Type.Multiplier()

	tracker.record(now)

	newUsage := skill.Usage + value
	newLevel := CurrentLevel(in.Definition, newUsage)
	in.Character.SetSkillProgress(in.Definition.ID, newUsage, newLevel)

	return &UsageResult{
		PointsAdded: value,
		OldLevel:    oldLevel,
		NewLevel:    newLevel,
		Advanced:    newLevel > oldLevel,
	}, nil
}
