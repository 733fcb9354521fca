// Command wordcount counts word frequencies across text files.
//
//	wordcount <output_file> <input_file1> [input_file2 ...]
package main

import (
	"os"

	"pkg.jsn.cam/linereduce/internal/cli"
)

func main() {
	os.Exit(cli.JobMain("wordcount", "wordcount", os.Args[1:], os.Stderr))
}
