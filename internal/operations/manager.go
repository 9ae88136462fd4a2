package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"apucli/internal/config"
)

// Manager runs a fixed sequence of steps, fail-fast.
type Manager struct {
	steps  []Step
	logger *slog.Logger
}

// NewManager creates a manager over the given steps in order.
func NewManager(steps []Step, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{steps: steps, logger: logger}
}

// NewRunID generates a unique id for one pipeline run.
func NewRunID() string {
	return uuid.New().String()
}

// Run executes every step in order against a fresh state and returns it.
// The first failing step aborts the run with a wrapped StepError.
func (m *Manager) Run(ctx context.Context, cfg config.Config) (*State, error) {
	state := NewState(NewRunID(), cfg)
	if err := m.RunWithState(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// RunWithState executes the steps against a caller-prepared state. Used when
// the caller needs to attach a lookup client, registry or budget ids first.
func (m *Manager) RunWithState(ctx context.Context, state *State) error {
	m.logger.InfoContext(ctx, "pipeline started",
		slog.String("run_id", state.RunID),
		slog.Int("steps", len(m.steps)))

	for _, step := range m.steps {
		if err := ctx.Err(); err != nil {
			return NewStepError(step.ID(), err)
		}
		if err := step.Validate(state); err != nil {
			m.logger.ErrorContext(ctx, "step validation failed",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return NewStepError(step.ID(), err)
		}

		start := time.Now()
		m.logger.InfoContext(ctx, "step started",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()),
			slog.String("name", step.Name()))

		if err := step.Execute(ctx, state); err != nil {
			m.logger.ErrorContext(ctx, "step failed",
				slog.String("run_id", state.RunID),
				slog.String("step", step.ID()),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()))
			return NewStepError(step.ID(), err)
		}

		m.logger.InfoContext(ctx, "step completed",
			slog.String("run_id", state.RunID),
			slog.String("step", step.ID()),
			slog.Duration("duration", time.Since(start)))
	}

	m.logger.InfoContext(ctx, "pipeline completed",
		slog.String("run_id", state.RunID),
		slog.Duration("duration", time.Since(state.StartTime)),
		slog.Any("counters", state.Counts()))
	return nil
}
