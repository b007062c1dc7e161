package character

// Pool is one health pool plus its staging accumulator. Pending damage is
// positive, pending healing negative; convergence drains pending into
// Current without ever crossing zero.
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Pending int `json:"pending"`
}

// QueueDamage stages damage for later convergence.
func (p *Pool) QueueDamage(amount int) {
	if amount > 0 {
		p.Pending += amount
	}
}

// QueueHealing stages healing for later convergence.
func (p *Pool) QueueHealing(amount int) {
	if amount > 0 {
		p.Pending -= amount
	}
}

// Converge performs one convergence step: it moves half the pending value
// (rounded down, minimum one unit) into the live pool, clamped to
// [0, Max]. Returns the signed change applied to Current; zero pending is
// a no-op. Pending shrinks toward zero and never changes sign.
func (p *Pool) Converge() int {
	if p.Pending == 0 {
		return 0
	}

	mag := p.Pending
	sign := 1
	if mag < 0 {
		mag = -mag
		sign = -1
	}

	moved := mag / 2
	if moved == 0 {
		moved = 1
	}

	before := p.Current
	// positive pending is queued damage
	p.Current -= moved * sign
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
	p.Pending -= moved * sign

	return p.Current - before
}

// Depleted reports whether the live pool has hit zero.
func (p Pool) Depleted() bool {
	return p.Current <= 0
}
