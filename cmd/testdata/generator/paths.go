package generator

import (
	"io"
	"math/rand/v2"
	"strings"
)

// PathsGenerator writes file-system-like paths, some indented and some
// repeated, for the longest-path executor.
type PathsGenerator struct {
	MaxDepth int
	rand     *rand.Rand
}

var roots = []string{"/usr", "/var", "/home/alice", "/home/bob", "/etc", "/opt", "/srv"}

var segments = []string{
	"lib", "share", "log", "cache", "src", "pkg", "internal", "cmd",
	"config", "data", "tmp", "bin", "docs", "tests", "assets", "vendor",
}

var extensions = []string{"", ".go", ".txt", ".log", ".json", ".yaml", ".md"}

func (g *PathsGenerator) Init(r *rand.Rand) {
	g.rand = r
	if g.MaxDepth <= 0 {
		g.MaxDepth = 6
	}
}

func (g *PathsGenerator) WriteLine(w io.Writer) error {
	var b strings.Builder

	// leading whitespace is trimmed by the mapper
	if g.rand.IntN(10) == 0 {
		b.WriteString("  ")
	}

	b.WriteString(roots[g.rand.IntN(len(roots))])

	depth := g.rand.IntN(g.MaxDepth + 1)
	for i := 0; i < depth; i++ {
		b.WriteByte('/')
		b.WriteString(segments[g.rand.IntN(len(segments))])
	}
	b.WriteString(extensions[g.rand.IntN(len(extensions))])
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func (g *PathsGenerator) Description() string {
	return "File-system-like paths, one per line"
}

func (g *PathsGenerator) DefaultCount() int64 {
	return 5e3
}
