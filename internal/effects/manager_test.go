package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudforge/mudcore/internal/domain/shared"
)

func newTestManager() *Manager {
	return NewManager(nil)
}

func bleedDef() *Definition {
	return &Definition{
		ID:           "bleeding",
		Name:         "Bleeding",
		Category:     CategoryDoT,
		Stackable:    true,
		MaxStacks:    3,
		Duration:     time.Minute,
		TickInterval: 10 * time.Second,
		Impacts: []Impact{
			{Kind: ImpactPeriodicFlat, Pool: shared.PoolVitality, Amount: 2},
		},
	}
}

func blessDef() *Definition {
	return &Definition{
		ID:       "blessing",
		Name:     "Blessing",
		Category: CategoryBuff,
		Duration: time.Hour,
		Impacts: []Impact{
			{Kind: ImpactAttribute, Attribute: shared.AttributeStrength, Amount: 2, ApplyOrder: 1},
			{Kind: ImpactAttackValue, Amount: 1, ApplyOrder: 2},
		},
	}
}

func TestApply_StackingUpToMax(t *testing.T) {
	m := newTestManager()
	def := bleedDef()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := m.Apply(def, "goblin", 1, shared.LocationArms, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, first.Outcome)
	assert.Equal(t, 1, first.Instance.Stacks)

	// Five applications cap at three stacks; extras refresh only.
	outcomes := []ApplyOutcome{OutcomeStacked, OutcomeStacked, OutcomeRefreshed, OutcomeRefreshed}
	for i, want := range outcomes {
		result, err := m.Apply(def, "goblin", 1, shared.LocationArms, now.Add(time.Duration(i+1)*time.Second))
		require.NoError(t, err)
		assert.Equal(t, want, result.Outcome, "application %d", i+2)
		assert.Same(t, first.Instance, result.Instance)
	}
	assert.Equal(t, 3, first.Instance.Stacks)

	// Every reapplication pushed the expiry forward.
	require.NotNil(t, first.Instance.ExpiresAt)
	assert.Equal(t, now.Add(4*time.Second).Add(time.Minute), *first.Instance.ExpiresAt)
}

func TestApply_NonStackableRefreshes(t *testing.T) {
	m := newTestManager()
	def := blessDef()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := m.Apply(def, "priest", 1, "", now)
	require.NoError(t, err)

	second, err := m.Apply(def, "priest", 1, "", now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefreshed, second.Outcome)
	assert.Same(t, first.Instance, second.Instance)
	assert.Equal(t, 1, second.Instance.Stacks)
	assert.Len(t, m.ActiveInstances(now.Add(30*time.Minute)), 1)
}

func TestApply_IntensityTakesMax(t *testing.T) {
	m := newTestManager()
	def := bleedDef()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := m.Apply(def, "goblin", 2.0, shared.LocationArms, now)
	require.NoError(t, err)

	_, err = m.Apply(def, "orc", 1.0, shared.LocationArms, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2.0, first.Instance.Intensity, "weaker reapplication never lowers intensity")

	_, err = m.Apply(def, "troll", 3.0, shared.LocationArms, now.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3.0, first.Instance.Intensity)
}

func TestApply_ExpiredInstanceDoesNotStack(t *testing.T) {
	m := newTestManager()
	def := bleedDef()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := m.Apply(def, "goblin", 1, shared.LocationArms, now)
	require.NoError(t, err)

	// Past the expiry a reapplication creates a fresh instance.
	later := now.Add(2 * time.Minute)
	second, err := m.Apply(def, "goblin", 1, shared.LocationArms, later)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, second.Outcome)
	assert.NotEqual(t, first.Instance.ID, second.Instance.ID)
}

func TestTick_FlatAndPercent(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	def := &Definition{
		ID:           "burning",
		Category:     CategoryDoT,
		TickInterval: 10 * time.Second,
		Impacts: []Impact{
			{Kind: ImpactPeriodicFlat, Pool: shared.PoolVitality, Amount: 2},
			{Kind: ImpactPeriodicPercent, Pool: shared.PoolFatigue, Amount: 0.10},
		},
	}
	_, err := m.Apply(def, "fire", 1, "", now)
	require.NoError(t, err)

	poolMax := map[shared.PoolKind]int{shared.PoolFatigue: 40, shared.PoolVitality: 30}

	// Not yet due.
	assert.Empty(t, m.Tick(now.Add(5*time.Second), poolMax))

	results := m.Tick(now.Add(10*time.Second), poolMax)
	require.Len(t, results, 1)
	require.Len(t, results[0].Changes, 2)
	assert.Equal(t, PoolChange{Pool: shared.PoolVitality, Amount: 2}, results[0].Changes[0])
	assert.Equal(t, PoolChange{Pool: shared.PoolFatigue, Amount: 4}, results[0].Changes[1])

	// The tick advanced the clock: nothing due again until the next interval.
	assert.Empty(t, m.Tick(now.Add(15*time.Second), poolMax))
	assert.Len(t, m.Tick(now.Add(20*time.Second), poolMax), 1)
}

func TestTick_ScalesWithStacks(t *testing.T) {
	m := newTestManager()
	def := bleedDef()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := m.Apply(def, "goblin", 1, shared.LocationArms, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	results := m.Tick(now.Add(15*time.Second), nil)
	require.Len(t, results, 1)
	require.Len(t, results[0].Changes, 1)
	assert.Equal(t, 6, results[0].Changes[0].Amount, "three stacks triple the flat tick")
}

func TestTick_HealingOverTime(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	def := &Definition{
		ID:           "regeneration",
		Category:     CategoryHoT,
		TickInterval: 5 * time.Second,
		Impacts: []Impact{
			{Kind: ImpactPeriodicFlat, Pool: shared.PoolVitality, Amount: -3},
		},
	}
	_, err := m.Apply(def, "potion", 1, "", now)
	require.NoError(t, err)

	results := m.Tick(now.Add(5*time.Second), nil)
	require.Len(t, results, 1)
	assert.Equal(t, -3, results[0].Changes[0].Amount, "negative amounts queue healing")
}

func TestExpireDue(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	short := &Definition{ID: "stun", Category: CategoryStatus, Duration: 10 * time.Second,
		Impacts: []Impact{{Kind: ImpactPreventActions}}}
	long := blessDef()

	_, err := m.Apply(short, "mace", 1, "", now)
	require.NoError(t, err)
	_, err = m.Apply(long, "priest", 1, "", now)
	require.NoError(t, err)

	removed := m.ExpireDue(now.Add(30 * time.Second))
	require.Len(t, removed, 1)
	assert.Equal(t, "stun", removed[0].Instance.DefinitionID)
	assert.Equal(t, RemovedExpired, removed[0].Reason)
	assert.Len(t, m.ActiveInstances(now.Add(30*time.Second)), 1)
}

func TestRemove(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	applied, err := m.Apply(blessDef(), "priest", 1, "", now)
	require.NoError(t, err)

	removal, err := m.Remove(applied.Instance.ID, RemovedDispelled)
	require.NoError(t, err)
	assert.Equal(t, RemovedDispelled, removal.Reason)
	assert.Empty(t, m.ActiveInstances(now))

	_, err = m.Remove(applied.Instance.ID, RemovedManual)
	require.Error(t, err)
}

func TestRemoveByDefinition(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	wound := &Definition{ID: "laceration", Category: CategoryWound,
		Impacts: []Impact{{Kind: ImpactSkill, SkillID: "swords", Amount: -1}}}

	_, err := m.Apply(wound, "sword", 1, shared.LocationArms, now)
	require.NoError(t, err)
	_, err = m.Apply(blessDef(), "priest", 1, "", now)
	require.NoError(t, err)

	removed := m.RemoveByDefinition("laceration", RemovedHealed)
	require.Len(t, removed, 1)
	assert.Equal(t, RemovedHealed, removed[0].Reason)
	assert.True(t, m.HasActive("blessing", now))
	assert.False(t, m.HasActive("laceration", now))
}

func TestSummarize(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := m.Apply(blessDef(), "priest", 1, "", now)
	require.NoError(t, err)

	curse := &Definition{
		ID: "curse", Category: CategoryDebuff, Duration: time.Hour,
		Impacts: []Impact{
			{Kind: ImpactAttribute, Attribute: shared.AttributeStrength, Amount: -1, ApplyOrder: 1},
			{Kind: ImpactDamageDealtPercent, Amount: -0.25, ApplyOrder: 3},
			{Kind: ImpactPreventSpellcasting, ApplyOrder: 3},
		},
	}
	_, err = m.Apply(curse, "witch", 1, "", now)
	require.NoError(t, err)

	summary := m.Summarize(now)
	assert.Equal(t, 1, summary.AttributeDeltas[shared.AttributeStrength])
	assert.Equal(t, 1, summary.AttackDelta)
	assert.Equal(t, -0.25, summary.DamageDealtPercent)
	assert.True(t, summary.PreventSpellcasting)
	assert.False(t, summary.PreventActions)
	assert.Equal(t, 0.75, summary.DamageDealtScale())
}

func TestSummarize_SkipsExpired(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := m.Apply(blessDef(), "priest", 1, "", now)
	require.NoError(t, err)

	summary := m.Summarize(now.Add(2 * time.Hour))
	assert.Empty(t, summary.AttributeDeltas)
	assert.Equal(t, 0, summary.AttackDelta)
}

func TestSummarize_IntensityScaling(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	def := &Definition{
		ID: "weakness", Category: CategoryDebuff, Duration: time.Hour,
		ScalesWithIntensity: true,
		Impacts: []Impact{
			{Kind: ImpactAttribute, Attribute: shared.AttributeStrength, Amount: -2},
		},
	}
	_, err := m.Apply(def, "poison", 1.5, "", now)
	require.NoError(t, err)

	summary := m.Summarize(now)
	assert.Equal(t, -3, summary.AttributeDeltas[shared.AttributeStrength])
}

func TestRestore(t *testing.T) {
	m := newTestManager()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	def := blessDef()

	instance := &Instance{
		ID:           "restored-1",
		DefinitionID: def.ID,
		AppliedAt:    now.Add(-time.Minute),
		Stacks:       1,
		Intensity:    1,
	}
	require.NoError(t, m.Restore(def, instance))
	assert.True(t, m.HasActive(def.ID, now))

	err := m.Restore(def, &Instance{ID: "bad", DefinitionID: "other"})
	require.Error(t, err)
}
