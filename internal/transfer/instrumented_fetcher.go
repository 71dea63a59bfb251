package transfer

import (
	"context"
	"os"
	"time"

	"github.com/italolelis/ena_downloader/internal/ena"
	"github.com/italolelis/ena_downloader/internal/telemetry"
)

// InstrumentedFetcher wraps a Fetcher with telemetry.
type InstrumentedFetcher struct {
	fetcher Fetcher
	tel     *telemetry.Telemetry
	mode    string
}

// NewInstrumentedFetcher creates a new instrumented fetcher. mode identifies
// the transfer backend ("ftp", "ascp").
func NewInstrumentedFetcher(fetcher Fetcher, tel *telemetry.Telemetry, mode string) *InstrumentedFetcher {
	return &InstrumentedFetcher{
		fetcher: fetcher,
		tel:     tel,
		mode:    mode,
	}
}

// Fetch delegates to the wrapped fetcher, recording attempt outcome,
// duration and bytes fetched.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, entry ena.Entry, destPath string) error {
	started := time.Now()

	err := f.fetcher.Fetch(ctx, entry, destPath)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.tel.RecordAttempt(ctx, f.mode, status, time.Since(started))

	if err == nil {
		if info, statErr := os.Stat(destPath); statErr == nil {
			f.tel.RecordBytes(ctx, f.mode, info.Size())
		}
	}

	return err
}
