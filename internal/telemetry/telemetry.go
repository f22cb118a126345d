// Package telemetry reports host-callback and scheduler failures that
// would otherwise only surface as a log line, so a hapticd deployment can
// track them in Sentry.
package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter is the interface schedulers report failures through. Its
// default, NoopReporter, is a zero-cost no-op so player works without
// any telemetry backend configured.
type Reporter interface {
	CallbackFailure(op string, err error)
}

// NoopReporter discards every report.
type NoopReporter struct{}

func (NoopReporter) CallbackFailure(op string, err error) {}

// SentryReporter reports callback failures as Sentry exceptions, tagged
// with the failing operation.
type SentryReporter struct{}

// NewSentryReporter initializes the Sentry SDK with the given DSN and
// returns a reporter that uses it. If dsn is empty, sentry.Init is
// skipped and the returned reporter behaves as a no-op.
func NewSentryReporter(dsn, environment, release string) (*SentryReporter, error) {
	if dsn == "" {
		return &SentryReporter{}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	}); err != nil {
		return nil, err
	}
	return &SentryReporter{}, nil
}

func (SentryReporter) CallbackFailure(op string, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("player.op", op)
		sentry.CaptureException(err)
	})
}

// Flush blocks until pending events are sent or the timeout elapses, see
// sentry.Flush.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
