package longestpath

import (
	"context"
	"strings"
	"unicode/utf8"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Worker finds the longest distinct line content across all inputs.
// The trimmed line itself is the key, so identical lines in different
// files collapse into one entry.
type Worker struct{}

// Map emits (trimmed line, length in characters) for non-blank lines.
func (Worker) Map(_ context.Context, record linereduce.Record, emit linereduce.Emitter) error {
	path := strings.TrimSpace(record.Value)
	if path == "" {
		return nil
	}

	emit(linereduce.KeyValue{Key: path, Value: utf8.RuneCountInString(path)})

	return nil
}

// Reduce emits the largest length seen for key, 0 when there is none.
func (Worker) Reduce(_ context.Context, key string, values []int, emit linereduce.Emitter) error {
	emit(linereduce.KeyValue{Key: key, Value: maxOf(values)})
	return nil
}

// OutputPolicy keeps only the longest lines, ties included.
func (Worker) OutputPolicy() linereduce.Policy {
	return linereduce.EmitMax
}

func (Worker) Description() string {
	return "Finds the longest distinct line(s) across all inputs"
}

func maxOf(values []int) int {
	if len(values) == 0 {
		return 0
	}

	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	return maxVal
}
