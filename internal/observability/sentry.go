// Package observability wires error reporting. Handlers report unexpected
// failures through Reporter; production uses Sentry.
package observability

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
)

type Reporter interface {
	CaptureException(ctx context.Context, err error)
}

// SentryReporter sends errors to the hub attached to the request context by
// sentryhttp, falling back to the global hub.
type SentryReporter struct{}

func (SentryReporter) CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// NopReporter drops every error.
type NopReporter struct{}

func (NopReporter) CaptureException(context.Context, error) {}

// InitSentry configures the global Sentry client. An empty dsn disables
// reporting and returns false.
func InitSentry(dsn, environment string, tracesSampleRate float64) (bool, error) {
	if dsn == "" {
		logger.Log.Info("sentry disabled: SENTRY_DSN not set")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    tracesSampleRate > 0,
		TracesSampleRate: tracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}
	logger.Log.Infow("sentry enabled", "environment", environment)
	return true, nil
}

// Flush waits up to timeout for buffered events to be sent.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
