package linereduce

import (
	"context"
	"fmt"
)

// KeyValue is a pair emitted by a map or reduce function.
type KeyValue struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Record is one input line handed to a Mapper.
// Key is "<file-path>:<line-number>", line numbers start at 1.
type Record struct {
	Key   string
	Value string
}

// Emitter is the sink map and reduce functions write their pairs to.
type Emitter func(KeyValue)

// Mapper turns one input record into zero or more intermediate pairs.
type Mapper interface {
	Map(ctx context.Context, record Record, emit Emitter) error
}

// Reducer folds every value emitted for key into a single pair.
type Reducer interface {
	Reduce(ctx context.Context, key string, values []int, emit Emitter) error
}

// Worker is a complete map/reduce behaviour selected when a job is built.
type Worker interface {
	Mapper
	Reducer
	Description() string
}

// PolicyWorker is an optional interface that Workers can implement
// to choose how their results are written.
//
// Workers that don't implement it get EmitAll.
type PolicyWorker interface {
	Worker
	OutputPolicy() Policy
}

// Policy selects which reduced pairs reach the output file.
type Policy int

const (
	// EmitAll writes every pair.
	EmitAll Policy = iota
	// EmitMax writes only the pairs holding the global maximum value, ties included.
	EmitMax
)

func (p Policy) String() string {
	switch p {
	case EmitAll:
		return "all"
	case EmitMax:
		return "max"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses the names produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "all":
		return EmitAll, nil
	case "max":
		return EmitMax, nil
	default:
		return 0, fmt.Errorf("%w: unknown output policy %q", ErrInvalidArgument, s)
	}
}

// PolicyOf returns the output policy declared by w.
func PolicyOf(w Worker) Policy {
	if pw, ok := w.(PolicyWorker); ok {
		return pw.OutputPolicy()
	}

	return EmitAll
}
