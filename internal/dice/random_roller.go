package dice

import (
	"math/rand"

	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

// randomRoller implements Roller using math/rand
type randomRoller struct{}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides int) ([]int, error) {
	if count < 1 {
		return nil, engerr.InvalidRequestf("invalid dice count %d", count)
	}
	if sides < 1 {
		return nil, engerr.InvalidRequestf("invalid dice sides %d", sides)
	}

	out := make([]int, count)
	for i := range out {
		out[i] = rand.Intn(sides) + 1
	}

	return out, nil
}
