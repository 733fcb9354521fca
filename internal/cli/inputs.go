package cli

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ResolveInputs makes every argument absolute and keeps only regular files.
// Skipped arguments are reported on log.
func ResolveInputs(args []string, log logrus.FieldLogger) []string {
	var inputs []string

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			log.Warnf("Skipping input %s: %v", arg, err)
			continue
		}

		fi, err := os.Stat(abs)
		if err != nil || !fi.Mode().IsRegular() {
			log.Warnf("Skipping non-regular file: %s", abs)
			continue
		}

		inputs = append(inputs, abs)
	}

	return inputs
}
