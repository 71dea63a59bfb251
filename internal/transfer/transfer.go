package transfer

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/italolelis/ena_downloader/internal/ena"
	"github.com/italolelis/ena_downloader/internal/logctx"
)

// PartSuffix marks an in-progress download. Fetchers that stream into the
// destination themselves write to <dest>.part and rename on success, so a
// failed attempt never leaves something that looks like a finished file.
const PartSuffix = ".part"

const (
	defaultAttemptTimeout = 5 * time.Minute
	defaultMaxAttempts    = 3
	defaultRetryInterval  = 2 * time.Second
)

// Fetcher retrieves one remote file into the given destination path.
// Implementations must honor context cancellation and must not leave a
// complete-looking partial file behind on failure.
type Fetcher interface {
	Fetch(ctx context.Context, entry ena.Entry, destPath string) error
}

// Engine wraps a Fetcher in a bounded retry loop with a hard deadline per
// attempt. Remote transfer services stall transiently; the deadline plus the
// small fixed retry ceiling bounds worst-case latency per file to
// maxAttempts * attemptTimeout.
type Engine struct {
	fetcher        Fetcher
	attemptTimeout time.Duration
	maxAttempts    int
	retryInterval  time.Duration
}

func NewEngine(fetcher Fetcher, attemptTimeout time.Duration, maxAttempts int, retryInterval time.Duration) *Engine {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}

	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	return &Engine{
		fetcher:        fetcher,
		attemptTimeout: attemptTimeout,
		maxAttempts:    maxAttempts,
		retryInterval:  retryInterval,
	}
}

// Fetch downloads one manifest entry into destPath, retrying failed attempts
// up to the engine's ceiling. On exhaustion it removes any leftovers and
// returns a TransferError.
func (e *Engine) Fetch(ctx context.Context, entry ena.Entry, destPath string) error {
	logger := logctx.LoggerFromContext(ctx)

	attempt := 0

	operation := func() (struct{}, error) {
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		defer cancel()

		started := time.Now()

		if err := e.fetcher.Fetch(attemptCtx, entry, destPath); err != nil {
			outcome := "transfer-error"
			if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
				outcome = "timeout"
			}

			logger.Warn("transfer attempt failed",
				"location", entry.Location,
				"attempt", attempt,
				"outcome", outcome,
				"elapsed", time.Since(started).String(),
				"err", err,
			)

			if ctx.Err() != nil {
				// External cancellation, not a transient failure.
				return struct{}{}, backoff.Permanent(err)
			}

			return struct{}{}, err
		}

		logger.Debug("transfer attempt succeeded", "location", entry.Location, "attempt", attempt)

		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(e.retryInterval)),
		backoff.WithMaxTries(uint(e.maxAttempts)),
	)
	if err != nil {
		removeLeftovers(destPath)

		return &TransferError{Location: entry.Location, Attempts: attempt, Err: err}
	}

	return nil
}

func removeLeftovers(destPath string) {
	_ = os.Remove(destPath)
	_ = os.Remove(destPath + PartSuffix)
}
