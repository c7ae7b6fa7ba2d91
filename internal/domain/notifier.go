package domain

import "context"

// Notifier delivers a single alert text to a fixed recipient.
type Notifier interface {
	// Send delivers body. Implementations return a *TransportError on failure
	// and never retry.
	Send(ctx context.Context, body string) error
	// Name identifies the backend in logs and metrics, e.g. "twilio".
	Name() string
}
