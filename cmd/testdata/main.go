package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"pkg.jsn.cam/linereduce/cmd/testdata/generator"
)

/* generates input files for the linereduce executors */

var (
	Executor   = flag.String("executor", "wordcount", "Executor to generate data for ("+strings.Join(generator.List(), ", ")+")")
	Count      = flag.Int64("count", 0, "Lines per file (0 = generator default)")
	Files      = flag.Int("files", 1, "Number of files to write")
	OutputPath = flag.String("output", "var/testdata.txt", "Output file path; with -files > 1 an index is added before the extension")
	Seed       = flag.Uint64("seed", 1, "Random seed")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "testdata:", err)
		os.Exit(1)
	}
}

func run() error {
	if *Files < 1 {
		return fmt.Errorf("-files must be at least 1")
	}

	for i := 0; i < *Files; i++ {
		gen, err := generator.Get(*Executor)
		if err != nil {
			return err
		}
		gen.Init(rand.New(rand.NewPCG(*Seed, uint64(i))))

		count := *Count
		if count <= 0 {
			count = gen.DefaultCount()
		}

		path := fileName(*OutputPath, i, *Files)
		if err := writeFile(path, gen, count); err != nil {
			return err
		}
		fmt.Printf("wrote %d line(s) to %s (%s)\n", count, path, gen.Description())
	}

	return nil
}

func fileName(base string, i, total int) string {
	if total == 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), i, ext)
}

func writeFile(path string, gen generator.Generator, count int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for i := int64(0); i < count; i++ {
		if err := gen.WriteLine(w); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return file.Close()
}
