package dash

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler owns the auto-refresh loop. It runs in its own goroutine and
// delivers an autoRefreshMsg to the program on each interval, so a scheduled
// refresh flows through exactly the same path as pressing r. Start and Stop
// are meant for the goroutine that owns the program, not for concurrent use.
type Scheduler struct {
	interval time.Duration
	send     func(tea.Msg)
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a stopped scheduler. send is typically
// (*tea.Program).Send.
func NewScheduler(interval time.Duration, send func(tea.Msg), logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		send:     send,
		logger:   logger,
	}
}

// Start launches the refresh loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
	s.logger.Info("auto-refresh started", "interval", s.interval.String())
}

// Stop halts the loop and waits for it to exit. Stopping a stopped scheduler
// is a no-op.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.logger.Info("auto-refresh stopped")
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Debug("auto-refresh tick")
			s.send(autoRefreshMsg{})
		}
	}
}
