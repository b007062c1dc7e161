package convergence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/shared"
	"github.com/mudforge/mudcore/internal/effects"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/registry"
	"github.com/mudforge/mudcore/internal/services/effect"
)

type poolDeltaSink struct {
	events []*events.PoolDeltaEvent
}

func (s *poolDeltaSink) HandleEvent(e events.Event) error {
	if pd, ok := e.(*events.PoolDeltaEvent); ok {
		s.events = append(s.events, pd)
	}
	return nil
}

func (s *poolDeltaSink) Priority() int { return 0 }
func (s *poolDeltaSink) ID() string    { return "pool-sink" }

func testEntity(id string) *character.Character {
	return &character.Character{
		ID:   id,
		Name: id,
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength: 10,
		},
		Fatigue:  character.Pool{Current: 40, Max: 40},
		Vitality: character.Pool{Current: 30, Max: 30},
	}
}

func setupDriver(t *testing.T, interval time.Duration, clock func() time.Time) (*Driver, *registry.Registry, effect.Service, *poolDeltaSink) {
	t.Helper()

	reg := registry.New()
	bus := events.NewBus()
	sink := &poolDeltaSink{}
	bus.Subscribe(events.EventPoolDelta, sink)

	effSvc := effect.NewService(&effect.ServiceConfig{Clock: clock})

	driver, err := New(&Config{
		Registry: reg,
		Effects:  effSvc,
		Bus:      bus,
		Interval: interval,
		Clock:    clock,
	})
	require.NoError(t, err)
	return driver, reg, effSvc, sink
}

func TestNew_Validation(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)

	_, err = New(&Config{Registry: registry.New()})
	require.Error(t, err)

	_, err = New(&Config{Registry: registry.New(), Effects: effect.NewService(&effect.ServiceConfig{})})
	require.Error(t, err, "interval must be positive")
}

func TestRunOnce_ConvergesPendingDamage(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	driver, reg, _, sink := setupDriver(t, time.Second, func() time.Time { return now })

	entity := testEntity("char-1")
	entity.QueuePoolChangeUnchecked(shared.PoolVitality, 10)
	require.NoError(t, reg.Add(entity))

	require.NoError(t, driver.RunOnce(context.Background()))

	assert.Equal(t, 25, entity.Pool(shared.PoolVitality).Current)
	assert.Equal(t, 5, entity.Pool(shared.PoolVitality).Pending)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "char-1", sink.events[0].Character())
	assert.Equal(t, -5, sink.events[0].Applied)
}

func TestRunOnce_FullConvergenceTrace(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	driver, reg, _, _ := setupDriver(t, time.Second, func() time.Time { return now })

	entity := testEntity("char-1")
	entity.QueuePoolChangeUnchecked(shared.PoolVitality, 10)
	require.NoError(t, reg.Add(entity))

	wantCurrent := []int{25, 23, 22, 21, 20}
	for i, want := range wantCurrent {
		require.NoError(t, driver.RunOnce(context.Background()))
		assert.Equal(t, want, entity.Pool(shared.PoolVitality).Current, "tick %d", i+1)
	}
	assert.Equal(t, 0, entity.Pool(shared.PoolVitality).Pending)

	// Settled pools stay silent.
	require.NoError(t, driver.RunOnce(context.Background()))
	assert.Equal(t, 20, entity.Pool(shared.PoolVitality).Current)
}

func TestRunOnce_PeriodicEffectFeedsPendingPool(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	driver, reg, effSvc, _ := setupDriver(t, time.Second, func() time.Time { return *clock })

	entity := testEntity("char-1")
	require.NoError(t, reg.Add(entity))

	bleed := &effects.Definition{
		ID: "bleeding", Category: effects.CategoryDoT,
		Duration: time.Minute, TickInterval: 10 * time.Second,
		Impacts: []effects.Impact{
			{Kind: effects.ImpactPeriodicFlat, Pool: shared.PoolVitality, Amount: 4},
		},
	}
	_, err := effSvc.Apply("char-1", bleed, "sword", 1, shared.LocationArms)
	require.NoError(t, err)

	// First tick: the DoT queues 4 pending, convergence drains half of it.
	*clock = clock.Add(10 * time.Second)
	require.NoError(t, driver.RunOnce(context.Background()))
	assert.Equal(t, 28, entity.Pool(shared.PoolVitality).Current)
	assert.Equal(t, 2, entity.Pool(shared.PoolVitality).Pending)
}

func TestRunOnce_ExpiresEffects(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	driver, reg, effSvc, _ := setupDriver(t, time.Second, func() time.Time { return *clock })

	entity := testEntity("char-1")
	require.NoError(t, reg.Add(entity))

	stun := &effects.Definition{
		ID: "stun", Category: effects.CategoryStatus, Duration: 5 * time.Second,
		Impacts: []effects.Impact{{Kind: effects.ImpactPreventActions}},
	}
	_, err := effSvc.Apply("char-1", stun, "mace", 1, "")
	require.NoError(t, err)
	require.Len(t, effSvc.ActiveInstances("char-1"), 1)

	*clock = clock.Add(10 * time.Second)
	require.NoError(t, driver.RunOnce(context.Background()))
	assert.Empty(t, effSvc.ActiveInstances("char-1"))
}

func TestRunOnce_MultipleEntities(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	driver, reg, _, sink := setupDriver(t, time.Second, func() time.Time { return now })

	for _, id := range []string{"char-a", "char-b", "char-c"} {
		entity := testEntity(id)
		entity.QueuePoolChangeUnchecked(shared.PoolFatigue, 6)
		require.NoError(t, reg.Add(entity))
	}

	require.NoError(t, driver.RunOnce(context.Background()))
	assert.Len(t, sink.events, 3)
}

func TestStartStop(t *testing.T) {
	driver, reg, _, _ := setupDriver(t, 5*time.Millisecond, time.Now)

	entity := testEntity("char-1")
	entity.QueuePoolChangeUnchecked(shared.PoolVitality, 10)
	require.NoError(t, reg.Add(entity))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver.Start(ctx)
	require.Eventually(t, func() bool {
		return entity.Pool(shared.PoolVitality).Pending == 0
	}, time.Second, 5*time.Millisecond)
	driver.Stop()

	assert.Equal(t, 20, entity.Pool(shared.PoolVitality).Current)
}
