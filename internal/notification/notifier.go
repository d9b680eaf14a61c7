// Package notification delivers short text messages to a phone number.
// Delivery is always best effort: callers log failures and move on.
package notification

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrNoRecipient is returned when the phone number is empty.
var ErrNoRecipient = errors.New("notification has no recipient")

// Notifier sends message to phone.
type Notifier interface {
	Notify(ctx context.Context, phone, message string) error
}

// LogNotifier writes notifications to the log. Used when no broker is configured.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, phone, message string) error {
	if phone == "" {
		return ErrNoRecipient
	}
	n.logger.WithFields(logrus.Fields{
		"phone":   phone,
		"message": message,
	}).Info("sms delivery not configured, notification logged")
	return nil
}
