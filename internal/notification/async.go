package notification

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Async hands every notification to a goroutine so Notify never blocks the caller.
// Deliveries run on a context detached from the caller's cancellation, bounded by timeout.
type Async struct {
	next    Notifier
	timeout time.Duration
	logger  logrus.FieldLogger
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration, logger logrus.FieldLogger) *Async {
	return &Async{next: next, timeout: timeout, logger: logger}
}

// Notify always returns nil; delivery errors are logged.
func (a *Async) Notify(ctx context.Context, phone, message string) error {
	detached := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sendCtx, cancel := context.WithTimeout(detached, a.timeout)
		defer cancel()
		if err := a.next.Notify(sendCtx, phone, message); err != nil {
			a.logger.WithError(err).WithField("phone", phone).Warn("notification delivery failed")
		}
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
