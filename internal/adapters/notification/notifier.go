// Package notification provides desktop notification utilities.
package notification

import (
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/taskpulse/internal/ports"
)

// SendFunc delivers one desktop notification.
type SendFunc func(title, message string) error

// Notifier shows desktop notifications through beeep.
type Notifier struct {
	enabled bool
	send    SendFunc
	logger  *slog.Logger
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a notifier. When enabled is false every call is dropped.
func New(enabled bool, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		enabled: enabled,
		send:    func(title, message string) error { return beeep.Notify(title, message, "") },
		logger:  logger.With("component", "notifier"),
	}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	n.send = send
	return n
}

// Notify displays a desktop notification if enabled. Delivery failures
// are logged and otherwise ignored.
func (n *Notifier) Notify(title, message string) {
	if !n.enabled {
		return
	}
	if err := n.send(title, message); err != nil {
		n.logger.Warn("desktop notification failed", "title", title, "error", err)
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}
