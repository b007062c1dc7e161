package progression

import (
	"sort"
	"time"

	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// UsageType classifies how a skill was exercised; each type weights the
// base usage value differently.
type UsageType string

const (
	UsageRoutine     UsageType = "routine"
	UsageChallenging UsageType = "challenging"
	UsageCritical    UsageType = "critical"
	UsageTeaching    UsageType = "teaching"
	UsageTraining    UsageType = "training"
)

// Multiplier returns the usage-type weight. Unknown types count as
// routine.
func (t UsageType) Multiplier() float64 {
	switch t {
	case UsageChallenging:
		return 1.5
	case UsageCritical:
		return 2.0
	case UsageTeaching:
		return 0.8
	case UsageTraining:
		return 0.5
	case UsageRoutine:
		return 1.0
	}
	return 1.0
}

// HourlyBracket is one diminishing-returns band over the rolling hour.
// UpTo is the cumulative use count the band covers; the final band may
// set UpTo to zero to cover everything beyond.
type HourlyBracket struct {
	UpTo       int     `koanf:"up_to" json:"up_to"`
	Multiplier float64 `koanf:"multiplier" json:"multiplier"`
}

// ChallengeBand maps a difficulty gap (target rating minus current skill
// level) to a usage multiplier. The band with the greatest MinDelta not
// exceeding the gap wins.
type ChallengeBand struct {
	MinDelta   int     `koanf:"min_delta" json:"min_delta"`
	Multiplier float64 `koanf:"multiplier" json:"multiplier"`
}

// Policy holds every throttling knob. All values are externally supplied
// configuration; nothing here is load-bearing for curve correctness.
type Policy struct {
	HourlyWindow    time.Duration   `koanf:"hourly_window" json:"hourly_window"`
	HourlyBrackets  []HourlyBracket `koanf:"hourly_brackets" json:"hourly_brackets"`
	TargetCooldown  time.Duration   `koanf:"target_cooldown" json:"target_cooldown"`
	ChallengeBands  []ChallengeBand `koanf:"challenge_bands" json:"challenge_bands"`
	DailyFreshBonus float64         `koanf:"daily_fresh_bonus" json:"daily_fresh_bonus"`
}

// DefaultPolicy returns the shipped tuning. Deployments override it via
// the policy config file.
func DefaultPolicy() *Policy {
	return &Policy{
		HourlyWindow: time.Hour,
		HourlyBrackets: []HourlyBracket{
			{UpTo: 10, Multiplier: 1.0},
			{UpTo: 25, Multiplier: 0.5},
			{UpTo: 0, Multiplier: 0.25},
		},
		TargetCooldown: 10 * time.Minute,
		ChallengeBands: []ChallengeBand{
			{MinDelta: -100, Multiplier: 0.25}, // trivial
			{MinDelta: -4, Multiplier: 0.75},
			{MinDelta: 0, Multiplier: 1.0},
			{MinDelta: 3, Multiplier: 1.25}, // stretch targets pay a bonus
			{MinDelta: 6, Multiplier: 0.5},  // overwhelming
		},
		DailyFreshBonus: 0.25,
	}
}

// Validate checks the policy for usable values.
func (p *Policy) Validate() error {
	if p.HourlyWindow <= 0 {
		return engineErrors.Validation("policy hourly window must be positive")
	}
	if len(p.HourlyBrackets) == 0 {
		return engineErrors.Validation("policy requires at least one hourly bracket")
	}
	for _, b := range p.HourlyBrackets {
		if b.Multiplier < 0 {
			return engineErrors.Validation("hourly bracket multipliers cannot be negative")
		}
	}
	if p.TargetCooldown < 0 {
		return engineErrors.Validation("target cooldown cannot be negative")
	}
	if len(p.ChallengeBands) == 0 {
		return engineErrors.Validation("policy requires at least one challenge band")
	}
	return nil
}

// hourlyMultiplier returns the diminishing-returns weight for the Nth
// use within the rolling window (priorUses counted before this one).
func (p *Policy) hourlyMultiplier(priorUses int) float64 {
	useNumber := priorUses + 1
	for _, bracket := range p.HourlyBrackets {
		if bracket.UpTo == 0 || useNumber <= bracket.UpTo {
			return bracket.Multiplier
		}
	}
	// past every bounded bracket with no catch-all configured
	return p.HourlyBrackets[len(p.HourlyBrackets)-1].Multiplier
}

// challengeMultiplier returns the weight for a difficulty gap.
func (p *Policy) challengeMultiplier(delta int) float64 {
	bands := append([]ChallengeBand(nil), p.ChallengeBands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinDelta < bands[j].MinDelta })

	mult := bands[0].Multiplier
	for _, band := range bands {
		if delta >= band.MinDelta {
			mult = band.Multiplier
		}
	}
	return mult
}
