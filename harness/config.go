package harness

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("harness: invalid configuration")

// GroupFilter marks case groups that are excluded from a run.
type GroupFilter map[string]bool

// Enabled reports whether cases of group g take part in the run. The empty
// group is always enabled.
func (f GroupFilter) Enabled(g string) bool {
	if g == "" {
		return true
	}
	return !f[g]
}

// Config is read-only for the duration of a batch.
type Config struct {
	// MinSeconds is the wall-clock floor for each case.
	MinSeconds float64
	// Skip lists the disabled groups.
	Skip GroupFilter
}

// Validate rejects a non-positive or non-finite MinSeconds.
func (c Config) Validate() error {
	if math.IsNaN(c.MinSeconds) || math.IsInf(c.MinSeconds, 0) || c.MinSeconds <= 0 {
		return fmt.Errorf("%w: min seconds per case must be a positive number, got %v", ErrInvalidConfig, c.MinSeconds)
	}
	return nil
}
