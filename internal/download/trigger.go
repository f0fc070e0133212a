// Package download delivers a finished export to the caller: a primary sink,
// a fallback sink when the primary refuses, and a staged copy that is revoked
// after a delay whichever way delivery went.
package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advisory-backend/internal/shared/metrics"
	"advisory-backend/internal/shared/telemetry"
)

// FailureMessage is shown to the user when neither delivery path worked.
const FailureMessage = "Download failed. Please try again or check your browser settings."

// DefaultRevokeDelay applies when a Trigger has no RevokeDelay.
const DefaultRevokeDelay = time.Minute

// ErrDownloadFailed is returned when both the primary and fallback sinks fail.
var ErrDownloadFailed = errors.New("download failed")

// Delivery paths reported in Result.Via.
const (
	ViaPrimary  = "primary"
	ViaFallback = "fallback"
)

// File is a finished export artifact.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	// Owner is the user whose records were exported.
	Owner string
}

// Staged is a temporary copy of a File. The zero value means nothing was staged.
type Staged struct {
	Key string
	URL string
}

// Sink hands a file to its destination.
type Sink interface {
	Deliver(ctx context.Context, f File, staged Staged) error
}

// Stager keeps a short-lived copy of a file reachable by URL.
type Stager interface {
	Stage(ctx context.Context, f File) (Staged, error)
	Revoke(ctx context.Context, staged Staged) error
}

// Result reports how a file was delivered.
type Result struct {
	Via    string
	Staged Staged
}

// Trigger runs one delivery. A Trigger may be reused but holds no per-file state.
type Trigger struct {
	Primary  Sink
	Fallback Sink
	Stager   Stager

	RevokeDelay time.Duration
	// Schedule runs fn after delay. Defaults to time.AfterFunc.
	Schedule func(delay time.Duration, fn func())
}

// Deliver tries the primary sink, then the fallback sink. It is never retried
// in a loop: both failing yields ErrDownloadFailed.
func (t *Trigger) Deliver(ctx context.Context, f File) (Result, error) {
	if t.Primary == nil {
		return Result{}, fmt.Errorf("%w: no primary sink", ErrDownloadFailed)
	}

	var staged Staged
	if t.Stager != nil {
		s, err := t.Stager.Stage(ctx, f)
		if err != nil {
			telemetry.Warn("download.stage.failed", map[string]any{
				"file":  f.Name,
				"error": err,
			})
		} else {
			staged = s
			defer t.scheduleRevoke(ctx, staged)
		}
	}

	primaryErr := t.Primary.Deliver(ctx, f, staged)
	if primaryErr == nil {
		return Result{Via: ViaPrimary, Staged: staged}, nil
	}
	telemetry.Warn("download.primary.failed", map[string]any{
		"file":  f.Name,
		"error": primaryErr,
	})

	if t.Fallback == nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDownloadFailed, primaryErr)
	}
	fallbackErr := t.Fallback.Deliver(ctx, f, staged)
	if fallbackErr != nil {
		telemetry.Error("download.fallback.failed", map[string]any{
			"file":  f.Name,
			"error": fallbackErr,
		})
		return Result{}, fmt.Errorf("%w: %w", ErrDownloadFailed, errors.Join(primaryErr, fallbackErr))
	}

	metrics.IncDownloadFallback()
	return Result{Via: ViaFallback, Staged: staged}, nil
}

func (t *Trigger) scheduleRevoke(ctx context.Context, staged Staged) {
	delay := t.RevokeDelay
	if delay <= 0 {
		delay = DefaultRevokeDelay
	}
	schedule := t.Schedule
	if schedule == nil {
		schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	// The request context is usually gone by the time the delay elapses.
	base := context.WithoutCancel(ctx)
	schedule(delay, func() {
		rctx, cancel := context.WithTimeout(base, 30*time.Second)
		defer cancel()
		if err := t.Stager.Revoke(rctx, staged); err != nil {
			telemetry.Warn("download.revoke.failed", map[string]any{
				"key":   staged.Key,
				"error": err,
			})
		}
	})
}
