// Package pipeline sequences accession resolution, verified transfer,
// merging and staging into one run. Control flow is strictly sequential:
// the first failure at any stage aborts the whole run, and the output
// directory is left untouched.
package pipeline

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/italolelis/ena_downloader/internal/checksum"
	"github.com/italolelis/ena_downloader/internal/ena"
	"github.com/italolelis/ena_downloader/internal/logctx"
	"github.com/italolelis/ena_downloader/internal/scratch"
	"github.com/italolelis/ena_downloader/internal/stage"
	"github.com/italolelis/ena_downloader/internal/storage"
	"github.com/italolelis/ena_downloader/internal/telemetry"
	"github.com/italolelis/ena_downloader/internal/transfer"
)

// Stage identifies the pipeline step a failure occurred in.
type Stage string

const (
	StageResolving    Stage = "resolving"
	StageTransferring Stage = "transferring"
	StageMerging      Stage = "merging"
	StageStaging      Stage = "staging"
)

// StageError tags a pipeline failure with the stage and accession it
// occurred at.
type StageError struct {
	Stage     Stage
	Accession string
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s for %s: %v", e.Stage, e.Accession, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Resolver turns an accession into a manifest of remote read files.
type Resolver interface {
	Resolve(ctx context.Context, accession string) (ena.Manifest, error)
}

type stagedFile struct {
	name string
	md5  string
}

// Pipeline downloads one accession end to end.
type Pipeline struct {
	resolver Resolver
	engine   *transfer.Engine
	ledger   storage.Ledger       // optional, nil disables the ledger
	tel      *telemetry.Telemetry // optional, nil disables metrics
}

func New(resolver Resolver, engine *transfer.Engine, ledger storage.Ledger, tel *telemetry.Telemetry) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		engine:   engine,
		ledger:   ledger,
		tel:      tel,
	}
}

// Run executes resolve, transfer-each-with-verify, merge-if-sample and stage
// for the accession. On any failure the scratch space is discarded and the
// output directory keeps its previous contents.
func (p *Pipeline) Run(ctx context.Context, accession, outDir string) (err error) {
	logger := logctx.LoggerFromContext(ctx)

	started := time.Now()

	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}

		p.tel.RecordRun(ctx, status, time.Since(started))
	}()

	manifest, err := p.resolver.Resolve(ctx, accession)
	if err != nil {
		return &StageError{Stage: StageResolving, Accession: accession, Err: err}
	}

	logger.Info("manifest resolved", "accession", accession, "file_count", len(manifest))

	dir, err := scratch.New(accession)
	if err != nil {
		return &StageError{Stage: StageTransferring, Accession: accession, Err: err}
	}

	defer func() {
		if cerr := dir.Close(); cerr != nil {
			logger.Warn("failed to clean up scratch space", "err", cerr)
		}
	}()

	final := make([]stagedFile, 0, len(manifest))

	for _, entry := range manifest {
		name := path.Base(entry.Location)

		if err := p.transferAndVerify(ctx, entry, dir.Join(name)); err != nil {
			return &StageError{Stage: StageTransferring, Accession: accession, Err: err}
		}

		final = append(final, stagedFile{name: name, md5: entry.MD5})
	}

	if ena.IsSample(accession) {
		if err := stage.MergeReads(ctx, accession, dir.Path()); err != nil {
			return &StageError{Stage: StageMerging, Accession: accession, Err: err}
		}

		final = []stagedFile{
			{name: accession + stage.ForwardSuffix},
			{name: accession + stage.ReverseSuffix},
		}
	}

	if err := stage.Move(ctx, dir.Path(), outDir); err != nil {
		return &StageError{Stage: StageStaging, Accession: accession, Err: err}
	}

	p.recordLedger(ctx, accession, final, outDir)

	logger.Info("accession staged", "accession", accession, "out_dir", outDir, "file_count", len(final))

	return nil
}

func (p *Pipeline) transferAndVerify(ctx context.Context, entry ena.Entry, destPath string) error {
	logger := logctx.LoggerFromContext(ctx)

	if err := p.engine.Fetch(ctx, entry, destPath); err != nil {
		return err
	}

	match, err := checksum.Verify(destPath, entry.MD5)
	if err != nil {
		return fmt.Errorf("failed to verify download: %w", err)
	}

	if !match {
		p.tel.RecordChecksumFailure(ctx)

		return &transfer.ChecksumMismatchError{File: filepath.Base(destPath), Expected: entry.MD5}
	}

	logger.Debug("checksum verified", "file", filepath.Base(destPath))

	return nil
}

// recordLedger writes the staged files to the download ledger. Best effort:
// a ledger failure never fails a completed run.
func (p *Pipeline) recordLedger(ctx context.Context, accession string, files []stagedFile, outDir string) {
	if p.ledger == nil {
		return
	}

	logger := logctx.LoggerFromContext(ctx)

	for _, f := range files {
		full := filepath.Join(outDir, f.name)

		sum := f.md5
		if sum == "" {
			// Merged files have no portal checksum; compute one for the record.
			if computed, err := checksum.FileMD5(full); err == nil {
				sum = computed
			}
		}

		if err := p.ledger.RecordDownload(accession, full, sum); err != nil {
			logger.Warn("failed to record download in ledger", "file", full, "err", err)
		}
	}
}
