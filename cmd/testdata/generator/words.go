package generator

import (
	"io"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordsGenerator writes prose-like lines with mixed case, punctuation and
// the occasional blank line.
type WordsGenerator struct {
	MaxWords int
	rand     *rand.Rand
}

var vocabulary = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	"map", "reduce", "key", "value", "file", "line", "word", "count",
	"engine", "worker", "phase", "barrier", "output", "input", "shard",
	"naïve", "café", "über", "2024", "v2",
}

var decorations = []struct{ prefix, suffix string }{
	{"", ""},
	{"", ""},
	{"", ""},
	{"", ","},
	{"", "."},
	{"\"", "\""},
	{"(", ")"},
	{"", "!"},
	{"--", "--"},
}

func (g *WordsGenerator) Init(r *rand.Rand) {
	g.rand = r
	if g.MaxWords <= 0 {
		g.MaxWords = 12
	}
}

func (g *WordsGenerator) WriteLine(w io.Writer) error {
	// roughly one line in twenty is blank
	if g.rand.IntN(20) == 0 {
		_, err := io.WriteString(w, "\n")
		return err
	}

	n := 1 + g.rand.IntN(g.MaxWords)

	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}

		word := vocabulary[g.rand.IntN(len(vocabulary))]
		switch g.rand.IntN(6) {
		case 0:
			word = strings.ToUpper(word)
		case 1:
			r, size := utf8.DecodeRuneInString(word)
			word = string(unicode.ToUpper(r)) + word[size:]
		}

		d := decorations[g.rand.IntN(len(decorations))]
		b.WriteString(d.prefix)
		b.WriteString(word)
		b.WriteString(d.suffix)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func (g *WordsGenerator) Description() string {
	return "Prose with mixed case and punctuation for word counting"
}

func (g *WordsGenerator) DefaultCount() int64 {
	return 1e4
}
