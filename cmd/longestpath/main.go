// Command longestpath finds the longest distinct lines across text files.
//
//	longestpath <output_file> <input_file1> [input_file2 ...]
package main

import (
	"os"

	"pkg.jsn.cam/linereduce/internal/cli"
)

func main() {
	os.Exit(cli.JobMain("longest-path", "longestpath", os.Args[1:], os.Stderr))
}
