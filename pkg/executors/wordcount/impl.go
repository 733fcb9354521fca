package wordcount

import (
	"context"
	"strings"
	"unicode"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Worker implements linereduce.Worker
type Worker struct{}

// Map splits the line on whitespace and emits (word, 1) for every
// normalized, non-empty word.
func (Worker) Map(_ context.Context, record linereduce.Record, emit linereduce.Emitter) error {
	for _, field := range strings.Fields(record.Value) {
		if word := Normalize(field); word != "" {
			emit(linereduce.KeyValue{Key: word, Value: 1})
		}
	}

	return nil
}

// Reduce emits (word, sum of counts).
func (Worker) Reduce(_ context.Context, key string, values []int, emit linereduce.Emitter) error {
	sum := 0
	for _, v := range values {
		sum += v
	}

	emit(linereduce.KeyValue{Key: key, Value: sum})

	return nil
}

func (Worker) OutputPolicy() linereduce.Policy {
	return linereduce.EmitAll
}

func (Worker) Description() string {
	return "Counts occurrences of each normalized word"
}

// Normalize lower-cases token and strips leading and trailing runes
// that are neither letters nor digits. Pure punctuation becomes "".
func Normalize(token string) string {
	return strings.TrimFunc(strings.ToLower(token), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
