package hydrate

import "runtime"

// MaxWorkers is the upper bound for Config.Workers.
const MaxWorkers = 256

// Config holds configuration for the Engine.
type Config struct {
	// Workers is the number of siblings hydrated concurrently within one
	// fan-out. Nested levels fan out independently, each with this limit.
	// Default: GOMAXPROCS
	// Max: 256
	Workers int

	// MinFanOut is the smallest sibling count hydrated concurrently.
	// Smaller sibling sets are hydrated inline on the calling goroutine.
	// Default: 2
	MinFanOut int
}

// DefaultConfig returns sensible defaults for the host.
func DefaultConfig() Config {
	return Config{
		Workers:   runtime.GOMAXPROCS(0),
		MinFanOut: 2,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Workers < 1 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Workers > MaxWorkers {
		c.Workers = MaxWorkers
	}
	if c.MinFanOut < 1 {
		c.MinFanOut = 2
	}
}
