// Package notify provides the development notifier and the decorators every
// backend is wrapped in: a per-send timeout, a rate limit and metrics.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/couchcryptid/road-accident-dashboard/internal/observability"
	"golang.org/x/time/rate"
)

// LogNotifier writes alerts to the log instead of delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, body string) error {
	n.logger.Info("driver alert", "body", body)
	return nil
}

func (n *LogNotifier) Name() string { return "log" }

// RateLimited throttles sends with a token bucket. A send waits for a token
// and fails only if the context ends first.
type RateLimited struct {
	inner   domain.Notifier
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond sends on average with bursts of burst.
func NewRateLimited(inner domain.Notifier, perSecond float64, burst int) *RateLimited {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (n *RateLimited) Send(ctx context.Context, body string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return &domain.TransportError{Backend: n.inner.Name(), Err: err}
	}
	return n.inner.Send(ctx, body)
}

func (n *RateLimited) Name() string { return n.inner.Name() }

// Timeout bounds each send.
type Timeout struct {
	inner   domain.Notifier
	timeout time.Duration
}

// NewTimeout wraps inner so every send is cancelled after d.
func NewTimeout(inner domain.Notifier, d time.Duration) *Timeout {
	return &Timeout{inner: inner, timeout: d}
}

func (n *Timeout) Send(ctx context.Context, body string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.inner.Send(ctx, body)
}

func (n *Timeout) Name() string { return n.inner.Name() }

// Instrumented records outcome counts and latency per backend.
type Instrumented struct {
	inner   domain.Notifier
	metrics *observability.Metrics
}

// NewInstrumented wraps inner with metrics.
func NewInstrumented(inner domain.Notifier, metrics *observability.Metrics) *Instrumented {
	return &Instrumented{inner: inner, metrics: metrics}
}

func (n *Instrumented) Send(ctx context.Context, body string) error {
	backend := n.inner.Name()
	start := time.Now()
	err := n.inner.Send(ctx, body)
	n.metrics.NotifierDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	n.metrics.Notifications.WithLabelValues(backend, outcome).Inc()
	return err
}

func (n *Instrumented) Name() string { return n.inner.Name() }

// Wrap applies the standard decorator stack: metrics outermost, then the
// rate limit, then the per-send timeout around the backend call.
func Wrap(backend domain.Notifier, perSecond float64, burst int, timeout time.Duration, metrics *observability.Metrics) domain.Notifier {
	var n domain.Notifier = NewTimeout(backend, timeout)
	n = NewRateLimited(n, perSecond, burst)
	return NewInstrumented(n, metrics)
}
