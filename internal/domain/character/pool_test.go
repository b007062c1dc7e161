package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverge_DamageTrace(t *testing.T) {
	p := Pool{Current: 30, Max: 30}
	p.QueueDamage(10)

	// 10 pending drains 5, 2, 1, 1, 1.
	wantPending := []int{5, 3, 2, 1, 0}
	wantCurrent := []int{25, 23, 22, 21, 20}

	for i := range wantPending {
		p.Converge()
		assert.Equal(t, wantPending[i], p.Pending, "step %d pending", i+1)
		assert.Equal(t, wantCurrent[i], p.Current, "step %d current", i+1)
	}

	assert.Equal(t, 0, p.Converge(), "converged pool is a no-op")
}

func TestConverge_HealingNeverOvershoots(t *testing.T) {
	p := Pool{Current: 28, Max: 30}
	p.QueueHealing(10)

	for i := 0; i < 20 && p.Pending != 0; i++ {
		p.Converge()
		assert.LessOrEqual(t, p.Current, p.Max)
	}
	assert.Equal(t, 30, p.Current)
	assert.Equal(t, 0, p.Pending)
}

func TestConverge_ClampsAtZero(t *testing.T) {
	p := Pool{Current: 3, Max: 30}
	p.QueueDamage(100)

	for i := 0; i < 20 && p.Pending != 0; i++ {
		p.Converge()
		assert.GreaterOrEqual(t, p.Current, 0)
	}
	assert.Equal(t, 0, p.Current)
	assert.True(t, p.Depleted())
}

func TestConverge_PendingNeverCrossesZero(t *testing.T) {
	p := Pool{Current: 10, Max: 30, Pending: 7}
	for p.Pending != 0 {
		p.Converge()
		assert.GreaterOrEqual(t, p.Pending, 0)
	}

	p = Pool{Current: 10, Max: 30, Pending: -7}
	for p.Pending != 0 {
		p.Converge()
		assert.LessOrEqual(t, p.Pending, 0)
	}
}

func TestQueue_IgnoresNonPositiveAmounts(t *testing.T) {
	p := Pool{Current: 10, Max: 10}
	p.QueueDamage(0)
	p.QueueDamage(-5)
	p.QueueHealing(0)
	p.QueueHealing(-5)
	assert.Equal(t, 0, p.Pending)
}

func TestQueue_DamageAndHealingOffset(t *testing.T) {
	p := Pool{Current: 20, Max: 30}
	p.QueueDamage(8)
	p.QueueHealing(3)
	require.Equal(t, 5, p.Pending)
}
