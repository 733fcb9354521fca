package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

const (
	EnvWorkers = "LINEREDUCE_WORKERS"
	EnvTimeout = "LINEREDUCE_TIMEOUT"
)

// DefaultWorkers returns $LINEREDUCE_WORKERS, or the hardware concurrency.
func DefaultWorkers() (int, error) {
	v := os.Getenv(EnvWorkers)
	if v == "" {
		return runtime.NumCPU(), nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
	}

	return n, nil
}

// DefaultTimeout returns $LINEREDUCE_TIMEOUT, or zero for the engine default.
func DefaultTimeout() (time.Duration, error) {
	v := os.Getenv(EnvTimeout)
	if v == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", EnvTimeout, v)
	}

	return d, nil
}
