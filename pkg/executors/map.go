package executors

import (
	"fmt"
	"sort"

	"pkg.jsn.cam/linereduce/pkg/executors/longestpath"
	"pkg.jsn.cam/linereduce/pkg/executors/wordcount"
	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

var Executors = map[string]linereduce.Worker{
	"wordcount":   wordcount.Worker{},
	"longestpath": longestpath.Worker{},
}

func IsValidExecutor(name string) bool {
	_, exists := Executors[name]
	return exists
}

func GetExecutor(name string) linereduce.Worker {
	return Executors[name]
}

// ListExecutors returns the registered names in sorted order.
func ListExecutors() []string {
	names := make([]string, 0, len(Executors))
	for name := range Executors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func GetDescription(name string) (string, error) {
	if worker, exists := Executors[name]; exists {
		return worker.Description(), nil
	}

	return "", fmt.Errorf("%w: %s", linereduce.ErrUnknownExecutor, name)
}
