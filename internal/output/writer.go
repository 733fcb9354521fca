// Package output renders reduced results as sorted, tab-separated text.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Summary describes what Write produced.
type Summary struct {
	Path  string
	Lines int
	Bytes int64
	Max   int // global maximum, only meaningful for EmitMax
}

// Select returns the pairs policy keeps, sorted by key.
// results is not modified.
func Select(results []linereduce.KeyValue, policy linereduce.Policy) ([]linereduce.KeyValue, int) {
	sorted := make([]linereduce.KeyValue, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	if policy != linereduce.EmitMax {
		return sorted, 0
	}

	maxVal := GlobalMax(sorted)

	kept := sorted[:0]
	for _, kv := range sorted {
		if kv.Value == maxVal {
			kept = append(kept, kv)
		}
	}

	return kept, maxVal
}

// GlobalMax returns the largest value in results. The maximum starts at 0,
// so an empty or all-negative result set yields 0.
func GlobalMax(results []linereduce.KeyValue) int {
	maxVal := 0
	for _, kv := range results {
		if kv.Value > maxVal {
			maxVal = kv.Value
		}
	}

	return maxVal
}

// Format writes the pairs kept by policy to w, one "key\tvalue\n" line each.
func Format(w io.Writer, results []linereduce.KeyValue, policy linereduce.Policy) (Summary, error) {
	kept, maxVal := Select(results, policy)
	summary := Summary{Max: maxVal}

	bw := bufio.NewWriter(w)
	for _, kv := range kept {
		n, err := bw.WriteString(kv.Key + "\t" + strconv.Itoa(kv.Value) + "\n")
		summary.Bytes += int64(n)
		if err != nil {
			return summary, err
		}
		summary.Lines++
	}

	if err := bw.Flush(); err != nil {
		return summary, err
	}

	return summary, nil
}

// Write renders results to path, creating parent directories.
// The content goes to a temporary sibling first and is renamed into place,
// so on error the previous file at path (if any) is untouched.
func Write(path string, results []linereduce.KeyValue, policy linereduce.Policy) (Summary, error) {
	fail := func(err error) (Summary, error) {
		return Summary{Path: path}, &linereduce.OutputWriteError{Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(fmt.Errorf("create output directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fail(fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()

	summary, err := Format(tmp, results, policy)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fail(err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fail(fmt.Errorf("close temp file: %w", err))
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fail(err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fail(fmt.Errorf("rename into place: %w", err))
	}

	summary.Path = path

	return summary, nil
}
