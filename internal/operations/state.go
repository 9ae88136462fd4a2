package operations

import (
	"context"
	"sync"
	"time"

	"apucli/internal/apiclient"
	"apucli/internal/config"
	"apucli/pkg/contracts/domain"
)

// Lookup provides the remote data the map and payload steps consume.
// *apiclient.Client and *apiclient.FileLookup both satisfy it.
type Lookup interface {
	Chapters(ctx context.Context) ([]domain.Chapter, error)
	Users(ctx context.Context) ([]domain.User, error)
	Beneficiary(ctx context.Context, userID any) (map[string]any, error)
}

// State is the shared run state threaded through every step.
type State struct {
	RunID  string
	Config config.Config

	// Lookup serves chapters/users/beneficiary data. Nil disables the map
	// and payload steps' remote work and makes their Validate fail.
	Lookup Lookup

	// Registry holds the payload templates. Only the payload step needs it.
	Registry *apiclient.Registry

	// TemplateName selects the payload template from the registry.
	TemplateName string

	// BudgetID is the global budget id applied to every file unless
	// overridden per file in BudgetMap.
	BudgetID any

	// BudgetMap maps workbook/JSON file names to per-file budget ids.
	BudgetMap map[string]any

	StartTime time.Time

	mu       sync.Mutex
	counters map[string]int
}

// NewState creates a run state for the given configuration.
func NewState(runID string, cfg config.Config) *State {
	return &State{
		RunID:     runID,
		Config:    cfg,
		StartTime: time.Now(),
		counters:  make(map[string]int),
	}
}

// SetCount records a named counter for the run summary.
func (s *State) SetCount(name string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] = n
}

// AddCount increments a named counter.
func (s *State) AddCount(name string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] += n
}

// Count returns the value of a named counter.
func (s *State) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[name]
}

// Counts returns a copy of all counters.
func (s *State) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}
