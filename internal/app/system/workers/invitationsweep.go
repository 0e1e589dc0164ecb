// internal/app/system/workers/invitationsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Expirer flips overdue pending invitations to expired.
type Expirer interface {
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// InvitationSweep is a background worker that expires stale invitations so
// lists and analytics see their final state without waiting for someone to
// use the link.
type InvitationSweep struct {
	store    Expirer
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewInvitationSweep creates the worker. interval is how often it runs;
// timeout bounds one pass.
func NewInvitationSweep(store Expirer, logger *zap.Logger, interval, timeout time.Duration) *InvitationSweep {
	return &InvitationSweep{
		store:    store,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one pass immediately and then every interval.
func (w *InvitationSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("invitation sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker and waits for the current pass to finish.
func (w *InvitationSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("invitation sweep worker stopped")
}

func (w *InvitationSweep) run() {
	defer w.wg.Done()

	w.sweep()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *InvitationSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	n, err := w.store.ExpirePending(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error("failed to expire invitations", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("expired invitations", zap.Int64("count", n))
	}
}
