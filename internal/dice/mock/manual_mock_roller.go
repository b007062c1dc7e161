package mockdice

import (
	"fmt"
	"sync"

	"github.com/mudforge/mudcore/internal/dice"
)

// ManualRoller implements dice.Roller for testing with predetermined totals.
type ManualRoller struct {
	mu        sync.Mutex
	totals    []int
	rollIndex int
}

// NewManualRoller creates a new mock dice roller.
func NewManualRoller() *ManualRoller {
	return &ManualRoller{}
}

// SetTotals sets the totals returned by subsequent rolls, in order.
func (m *ManualRoller) SetTotals(totals ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals = totals
	m.rollIndex = 0
}

// Reset clears all queued totals.
func (m *ManualRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals = nil
	m.rollIndex = 0
}

func (m *ManualRoller) next() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rollIndex >= len(m.totals) {
		return 0, fmt.Errorf("no roll queued at index %d", m.rollIndex)
	}
	total := m.totals[m.rollIndex]
	m.rollIndex++
	return total, nil
}

// Roll implements dice.Roller.
func (m *ManualRoller) Roll(count int) (*dice.RollResult, error) {
	total, err := m.next()
	if err != nil {
		return nil, err
	}
	return &dice.RollResult{Total: total, Count: count}, nil
}

// RollExploding implements dice.Roller.
func (m *ManualRoller) RollExploding(count int) (*dice.RollResult, error) {
	return m.Roll(count)
}

// ManualSource implements dice.Source with a scripted sequence of values,
// letting tests drive the real roll algorithms deterministically.
type ManualSource struct {
	mu     sync.Mutex
	values []int
	index  int
}

// NewManualSource creates a source returning the given values in order.
// Once exhausted it repeats the final value.
func NewManualSource(values ...int) *ManualSource {
	return &ManualSource{values: values}
}

// Intn implements dice.Source. The queued value is taken modulo n.
func (s *ManualSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.index]
	if s.index < len(s.values)-1 {
		s.index++
	}
	return v % n
}
