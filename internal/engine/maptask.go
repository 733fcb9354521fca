package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// FileStats describes one finished map task.
type FileStats struct {
	Path     string
	Lines    int64
	Emitted  int64
	Bytes    int64
	Duration time.Duration
}

// runMapTask streams path line by line through the worker's Map.
// The file is closed on every return path.
func (e *Engine) runMapTask(ctx context.Context, path string, emit linereduce.Emitter) (stats FileStats, err error) {
	stats.Path = path
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", linereduce.ErrPanic, r)
		}
		stats.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	file, err := os.Open(path)
	if err != nil {
		return stats, err
	}
	defer file.Close()

	if fi, err := file.Stat(); err == nil {
		stats.Bytes = fi.Size()
	}

	counted := func(kv linereduce.KeyValue) {
		stats.Emitted++
		emit(kv)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, min(64*1024, e.config.MaxLineBytes)), e.config.MaxLineBytes)
	scanner.Split(scanLines)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Lines++
		line := scanner.Text()

		if !utf8.ValidString(line) {
			return stats, fmt.Errorf("line %d: %w", stats.Lines, linereduce.ErrInvalidUTF8)
		}

		record := linereduce.Record{
			Key:   path + ":" + strconv.FormatInt(stats.Lines, 10),
			Value: line,
		}

		if err := e.worker.Map(ctx, record, counted); err != nil {
			return stats, fmt.Errorf("map %s: %w", record.Key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read after line %d: %w", stats.Lines, err)
	}

	return stats, nil
}

// scanLines is a bufio.SplitFunc that ends lines at "\n", "\r\n" or a
// lone "\r". The terminator is not part of the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': need one more byte to tell "\r\n" from a lone "\r".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
