package dice

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// faces is the die layout: six faces, two each of +1, 0 and -1.
var faces = [6]int{1, 1, 0, 0, -1, -1}

type randomRoller struct {
	mu  sync.Mutex
	src Source
}

// NewRoller creates a Roller backed by the given random source.
func NewRoller(src Source) Roller {
	return &randomRoller{src: src}
}

// NewRandomRoller creates a Roller seeded from the current time.
func NewRandomRoller() Roller {
	return NewRoller(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.New("invalid dice count")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := &RollResult{Count: count}
	r.throw(count, result)
	return result, nil
}

// RollExploding implements Roller.RollExploding
func (r *randomRoller) RollExploding(count int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.New("invalid dice count")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := &RollResult{Count: count}
	base := r.throw(count, result)

	switch base {
	case count:
		r.explode(count, 1, result)
	case -count:
		r.explode(count, -1, result)
	}

	return result, nil
}

// throw rolls count dice, appending faces and updating the total.
// Returns the sum of this throw alone.
func (r *randomRoller) throw(count int, result *RollResult) int {
	sum := 0
	for i := 0; i < count; i++ {
		face := faces[r.src.Intn(len(faces))]
		result.Rolls = append(result.Rolls, face)
		sum += face
	}
	result.Total += sum
	return sum
}

// explode performs continuation throws counting only faces matching sign.
// Each throw that comes up all-matching chains into another.
func (r *randomRoller) explode(count, sign int, result *RollResult) {
	for {
		result.Explosions++
		matched := 0
		for i := 0; i < count; i++ {
			face := faces[r.src.Intn(len(faces))]
			result.Rolls = append(result.Rolls, face)
			if face == sign {
				matched++
			}
		}
		result.Total += matched * sign
		if matched < count {
			return
		}
	}
}
