package generator

import (
	"fmt"
	"sort"
)

// Registry maps executor names to generator factory functions
var Registry = map[string]func() Generator{
	"wordcount":   func() Generator { return &WordsGenerator{MaxWords: 12} },
	"longestpath": func() Generator { return &PathsGenerator{MaxDepth: 6} },
}

// Get returns a generator by name
func Get(name string) (Generator, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown generator: %s (available: %v)", name, List())
	}
	return factory(), nil
}

// List returns all available generator names, sorted
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
