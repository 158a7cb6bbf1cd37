package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when a case has no name.
	ErrEmptyName = errors.New("harness: case name is empty")
	// ErrNilOperation is returned when a case has no operation.
	ErrNilOperation = errors.New("harness: case operation is nil")
	// ErrDuplicateCase is returned when a name is registered twice.
	ErrDuplicateCase = errors.New("harness: duplicate case name")
)

// Case is a named operation. Bytes optionally records the payload size
// handled per invocation.
type Case struct {
	Name  string
	Group string
	Bytes int64
	Op    Operation
}

// Suite is the ordered registry of cases for one batch.
type Suite struct {
	cases []Case
	names map[string]struct{}
}

// NewSuite returns an empty suite.
func NewSuite() *Suite {
	return &Suite{names: make(map[string]struct{})}
}

// Add registers c after every previously added case.
func (s *Suite) Add(c Case) error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Op == nil {
		return fmt.Errorf("%w: %q", ErrNilOperation, c.Name)
	}
	if _, ok := s.names[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCase, c.Name)
	}
	s.names[c.Name] = struct{}{}
	s.cases = append(s.cases, c)
	return nil
}

// Len returns the number of registered cases.
func (s *Suite) Len() int { return len(s.cases) }

// Select returns the cases whose group is enabled by cfg, in registration
// order.
func (s *Suite) Select(cfg Config) []Case {
	out := make([]Case, 0, len(s.cases))
	for _, c := range s.cases {
		if cfg.Skip.Enabled(c.Group) {
			out = append(out, c)
		}
	}
	return out
}

// Run measures the selected cases with r.
func (s *Suite) Run(r *Runner, cfg Config) (Batch, error) {
	return r.RunAll(s.Select(cfg), cfg)
}
