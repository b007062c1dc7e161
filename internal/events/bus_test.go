package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	id       string
	priority int
	err      error
	log      *[]string
}

func (l *recordingListener) HandleEvent(event Event) error {
	*l.log = append(*l.log, l.id)
	return l.err
}

func (l *recordingListener) Priority() int { return l.priority }
func (l *recordingListener) ID() string    { return l.id }

func TestEmit_PriorityOrder(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventCombatOutcome, &recordingListener{id: "late", priority: 10, log: &log})
	bus.Subscribe(EventCombatOutcome, &recordingListener{id: "early", priority: 1, log: &log})

	seq := NewSequencer()
	err := bus.Emit(&CombatOutcomeEvent{Envelope: seq.Envelope(EventCombatOutcome, "char-1", time.Now())})
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, log)
}

func TestEmit_FailingListenerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventCombatOutcome, &recordingListener{id: "boom", priority: 1, err: errors.New("boom"), log: &log})
	bus.Subscribe(EventCombatOutcome, &recordingListener{id: "after", priority: 2, log: &log})

	seq := NewSequencer()
	err := bus.Emit(&CombatOutcomeEvent{Envelope: seq.Envelope(EventCombatOutcome, "char-1", time.Now())})
	require.Error(t, err)
	assert.Equal(t, []string{"boom", "after"}, log)
}

func TestEmit_OnlyMatchingType(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventPoolDelta, &recordingListener{id: "pools", log: &log})

	seq := NewSequencer()
	require.NoError(t, bus.Emit(&CombatOutcomeEvent{Envelope: seq.Envelope(EventCombatOutcome, "char-1", time.Now())}))
	assert.Empty(t, log)

	require.NoError(t, bus.Emit(&PoolDeltaEvent{Envelope: seq.Envelope(EventPoolDelta, "char-1", time.Now())}))
	assert.Equal(t, []string{"pools"}, log)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	var log []string

	bus.Subscribe(EventPoolDelta, &recordingListener{id: "pools", log: &log})
	bus.Unsubscribe(EventPoolDelta, "pools")

	seq := NewSequencer()
	require.NoError(t, bus.Emit(&PoolDeltaEvent{Envelope: seq.Envelope(EventPoolDelta, "char-1", time.Now())}))
	assert.Empty(t, log)
}

func TestSequencer_PerCharacterMonotonic(t *testing.T) {
	seq := NewSequencer()

	assert.Equal(t, uint64(1), seq.Next("char-a"))
	assert.Equal(t, uint64(2), seq.Next("char-a"))
	assert.Equal(t, uint64(1), seq.Next("char-b"), "sequences are per character")
	assert.Equal(t, uint64(3), seq.Next("char-a"))
}

func TestSequencer_Envelope(t *testing.T) {
	seq := NewSequencer()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	env := seq.Envelope(EventUsageRecorded, "char-1", at)
	assert.Equal(t, EventUsageRecorded, env.Type())
	assert.Equal(t, "char-1", env.Character())
	assert.Equal(t, uint64(1), env.Seq())
	assert.Equal(t, at, env.Timestamp)
}
