package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/docchat/internal/backend"
	"github.com/csheth/docchat/internal/dispatch"
)

const healthTimeout = 5 * time.Second

// HealthChecker probes the backend once at startup.
type HealthChecker interface {
	Health(ctx context.Context) (backend.HealthResponse, error)
}

func queryJob(ex *dispatch.Exchange) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		out := ex.Run(ctx)
		return answerMsg{outcome: out}, out.Err
	}
}

func healthJob(checker HealthChecker) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, healthTimeout)
		defer cancel()
		resp, err := checker.Health(ctx)
		if err != nil {
			return healthMsg{status: backendUnreachable, err: err}, err
		}
		return healthMsg{status: resp.Status}, nil
	}
}
