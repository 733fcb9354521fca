package main

import (
	"os"

	"pkg.jsn.cam/linereduce/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
