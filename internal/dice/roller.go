package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller rolls pools of three-outcome dice (+1/0/-1, two faces of each).
// Implementations must be safe for concurrent use.
type Roller interface {
	// Roll rolls count dice and sums the faces.
	Roll(count int) (*RollResult, error)

	// RollExploding rolls count dice; a maximal result (+count or -count)
	// triggers continuation throws that count only the matching faces,
	// chaining for as long as every continuation throw is itself maximal.
	RollExploding(count int) (*RollResult, error)
}

// Source supplies raw randomness for a Roller. Injected so results are
// reproducible in tests.
type Source interface {
	// Intn returns a non-negative random int in [0, n). n must be > 0.
	Intn(n int) int
}
