package alert

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
)

// Status summarises a dispatch.
type Status string

const (
	StatusSent    Status = "sent"
	StatusNoAlert Status = "no_alert"
	StatusFailed  Status = "failed"
)

// Outcome reports what happened to every message of a decision.
type Outcome struct {
	Status Status
	Sent   []string
	Failed []string
	// Err joins every delivery error; nil unless Status is StatusFailed.
	Err error
}

// Summary is the user-facing text for the outcome.
func (o Outcome) Summary() string {
	switch o.Status {
	case StatusSent:
		return "Alerts sent:\n" + strings.Join(o.Sent, "\n")
	case StatusNoAlert:
		return "✅ You are driving safely."
	default:
		return "Error sending SMS: " + o.Err.Error()
	}
}

// Dispatch sends every message in order. A failed message is logged and the
// next one is still attempted; nothing is retried.
func Dispatch(ctx context.Context, n domain.Notifier, messages []string, logger *slog.Logger) Outcome {
	if len(messages) == 0 {
		return Outcome{Status: StatusNoAlert}
	}

	var (
		out  Outcome
		errs []error
	)
	for _, msg := range messages {
		if err := n.Send(ctx, msg); err != nil {
			logger.Warn("alert delivery failed",
				"backend", n.Name(),
				"message", msg,
				"error", err,
			)
			var te *domain.TransportError
			if !errors.As(err, &te) {
				err = &domain.TransportError{Backend: n.Name(), Err: err}
			}
			errs = append(errs, err)
			out.Failed = append(out.Failed, msg)
			continue
		}
		out.Sent = append(out.Sent, msg)
	}

	if len(errs) > 0 {
		out.Status = StatusFailed
		out.Err = errors.Join(errs...)
		return out
	}
	out.Status = StatusSent
	return out
}
