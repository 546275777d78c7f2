// Package bridge mirrors accepted registrations to external systems
// (spreadsheet, Apps Script webhook, confirmation e-mail).
//
// Mirrors are best effort: a failure is logged and never changes the outcome
// of the registration that triggered it.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Mirror delivers an accepted team to one external system
type Mirror interface {
	Name() string
	Send(ctx context.Context, team *domain.Team) error
}

// Dispatcher fans accepted teams out to every configured mirror in the background
type Dispatcher struct {
	mirrors []Mirror
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// DefaultTimeout applies when no delivery timeout is configured
const DefaultTimeout = 15 * time.Second

// NewDispatcher creates a Dispatcher. Each delivery gets its own timeout.
func NewDispatcher(mirrors []Mirror, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		mirrors: mirrors,
		timeout: timeout,
		logger:  logger,
	}
}

// Mirrors returns the names of the configured mirrors
func (d *Dispatcher) Mirrors() []string {
	names := make([]string, len(d.mirrors))
	for i, m := range d.mirrors {
		names[i] = m.Name()
	}
	return names
}

// Publish starts delivery of team to every mirror and returns immediately
func (d *Dispatcher) Publish(team *domain.Team) {
	for _, m := range d.mirrors {
		d.wg.Add(1)
		go func(m Mirror) {
			defer d.wg.Done()
			d.deliver(m, team)
		}(m)
	}
}

func (d *Dispatcher) deliver(m Mirror, team *domain.Team) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := m.Send(ctx, team); err != nil {
		d.logger.Warn("Mirror delivery failed",
			"mirror", m.Name(),
			"team_id", team.TeamID,
			"error", err,
		)
		return
	}
	d.logger.Info("Mirror delivery succeeded",
		"mirror", m.Name(),
		"team_id", team.TeamID,
		"duration", time.Since(start),
	)
}

// Wait blocks until in-flight deliveries finish or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
