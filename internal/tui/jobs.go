package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type jobKind string

const (
	jobKindQuery  jobKind = "query"
	jobKindHealth jobKind = "health"
)

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs blocking work off the update loop and logs how each job went.
type jobBus struct {
	counter int64
	logger  *zap.Logger
}

func newJobBus(logger *zap.Logger) *jobBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobBus{logger: logger}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	return func() tea.Msg {
		started := time.Now()
		payload, err := runner(context.Background())
		fields := []zap.Field{
			zap.String("job", id),
			zap.Duration("duration", time.Since(started)),
		}
		if err != nil {
			b.logger.Warn("job failed", append(fields, zap.Error(err))...)
		} else {
			b.logger.Debug("job succeeded", fields...)
		}
		return payload
	}
}
