package discount

import (
	"fmt"
	"math/rand/v2"
)

// Generator mints code strings. It is an interface so tests can inject
// deterministic values in place of the random default.
type Generator interface {
	Generate() string
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func() string

// Generate calls f.
func (f GeneratorFunc) Generate() string { return f() }

// RandomGenerator produces WINNER-prefixed codes with a random numeric
// suffix.
type RandomGenerator struct{}

// Generate returns a fresh random code.
func (RandomGenerator) Generate() string {
	return fmt.Sprintf("WINNER-%d", rand.IntN(10000))
}
