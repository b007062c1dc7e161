// Package convergence runs the periodic driver that moves pending
// damage and healing into live pools and advances effect ticks and
// expiry for every live entity.
package convergence

import (
	"context"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/registry"
	"github.com/mudforge/mudcore/internal/services/effect"
)

// Config holds configuration for the driver
type Config struct {
	Registry  *registry.Registry
	Effects   effect.Service
	Bus       *events.Bus
	Sequencer *events.Sequencer

	// Interval is the convergence cadence.
	Interval time.Duration
	// Parallelism bounds concurrent per-entity work within one tick.
	Parallelism int

	Clock func() time.Time
}

// Driver is the single periodic clock for convergence and effect
// lifecycle. Work within one tick runs in parallel across entities but
// never within one entity's own state.
type Driver struct {
	registry    *registry.Registry
	effects     effect.Service
	bus         *events.Bus
	sequencer   *events.Sequencer
	interval    time.Duration
	parallelism int
	clock       func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a driver from config
func New(cfg *Config) (*Driver, error) {
	if cfg.Registry == nil {
		return nil, engineErrors.InvalidArgument("registry is required")
	}
	if cfg.Effects == nil {
		return nil, engineErrors.InvalidArgument("effect service is required")
	}
	if cfg.Interval <= 0 {
		return nil, engineErrors.InvalidArgument("interval must be positive")
	}

	d := &Driver{
		registry:    cfg.Registry,
		effects:     cfg.Effects,
		bus:         cfg.Bus,
		sequencer:   cfg.Sequencer,
		interval:    cfg.Interval,
		parallelism: cfg.Parallelism,
		clock:       cfg.Clock,
	}
	if d.sequencer == nil {
		d.sequencer = events.NewSequencer()
	}
	if d.parallelism <= 0 {
		d.parallelism = runtime.NumCPU()
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	return d, nil
}

// Start launches the periodic loop. Stop or context cancellation ends it.
func (d *Driver) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := d.RunOnce(ctx); err != nil {
					log.Printf("convergence: tick failed: %v", err)
				}
			}
		}
	}()
}

// Stop ends the loop and waits for in-flight tick work to finish.
func (d *Driver) Stop() {
	if d.cancel != nil {
		d.cancel()
		<-d.done
	}
}

// RunOnce performs one full tick over every live entity. Exported so
// tests and simulations can drive convergence manually.
func (d *Driver) RunOnce(ctx context.Context) error {
	now := d.clock()
	entities := d.registry.List()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)

	for _, entity := range entities {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			d.tickEntity(entity, now)
			return nil
		})
	}
	return g.Wait()
}

// tickEntity runs one entity's tick: periodic effect impacts feed the
// pending pools, expired effects fall off, then both pools converge one
// step. A failure here stays local to the entity.
func (d *Driver) tickEntity(entity *character.Character, now time.Time) {
	poolMax := map[shared.PoolKind]int{
		shared.PoolFatigue:  entity.Pool(shared.PoolFatigue).Max,
		shared.PoolVitality: entity.Pool(shared.PoolVitality).Max,
	}

	for _, result := range d.effects.Tick(entity.ID, now, poolMax) {
		for _, change := range result.Changes {
			entity.QueuePoolChangeUnchecked(change.Pool, change.Amount)
		}
	}

	d.effects.ExpireDue(entity.ID, now)

	for _, delta := range entity.ConvergePools() {
		d.emitPoolDelta(entity.ID, delta, now)
	}
}

func (d *Driver) emitPoolDelta(characterID string, delta character.PoolDelta, now time.Time) {
	if d.bus == nil {
		return
	}
	_ = d.bus.Emit(&events.PoolDeltaEvent{
		Envelope: d.sequencer.Envelope(events.EventPoolDelta, characterID, now),
		Pool:     delta.Kind,
		Applied:  delta.Applied,
		Current:  delta.Current,
		Pending:  delta.Pending,
	})
}
