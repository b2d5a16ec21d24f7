package dice

// Roller provides an interface for drawing raw die values
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll draws count independent uniform integers in [1, sides],
	// returned in roll order
	Roll(count, sides int) ([]int, error)
}
