package generator

import (
	"io"
	"math/rand/v2"
)

// Generator produces input lines for one executor
type Generator interface {
	// Init hands the generator its own random source
	Init(r *rand.Rand)

	// WriteLine writes a single line of test data to the writer
	WriteLine(w io.Writer) error

	// Description returns a human-readable description of the data format
	Description() string

	// DefaultCount returns the suggested default number of lines to generate
	DefaultCount() int64
}
