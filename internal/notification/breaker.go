package notification

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerNotifier stops calling a failing notifier until the breaker half-opens.
type BreakerNotifier struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerNotifier trips after three consecutive delivery failures and retries after timeout.
// ErrNoRecipient does not count as a failure.
func NewBreakerNotifier(next Notifier, timeout time.Duration, logger logrus.FieldLogger) *BreakerNotifier {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notification",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoRecipient)
		},
	})
	return &BreakerNotifier{next: next, cb: cb}
}

func (n *BreakerNotifier) Notify(ctx context.Context, phone, message string) error {
	_, err := n.cb.Execute(func() (interface{}, error) {
		return nil, n.next.Notify(ctx, phone, message)
	})
	return err
}

// State reports the breaker state.
func (n *BreakerNotifier) State() gobreaker.State {
	return n.cb.State()
}
