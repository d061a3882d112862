// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"github.com/soniachalia9-maker/bulkmail/internal/email"
)

// Transport is the interface delivery backends must implement. A
// backend serves one batch at a time: Connect opens the session and
// authenticates, Send delivers one rendered message over it, and Close
// releases the session. Connect errors mean the batch never starts;
// Send errors affect only that message.
type Transport interface {
	// Connect opens and authenticates the delivery session.
	Connect(ctx context.Context) error

	// Send delivers one message over the open session.
	Send(ctx context.Context, msg *email.Message) error

	// Close releases the session. Safe to call after a failed Connect.
	Close() error

	// Name returns the human-readable name of this backend.
	Name() string
}
