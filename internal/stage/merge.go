// Package stage turns verified downloads in scratch space into the final
// output files: merging per-run reads for sample accessions and relocating
// finished files into the caller's output directory.
package stage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/italolelis/ena_downloader/internal/logctx"
)

const (
	// ForwardSuffix and ReverseSuffix are the paired-end read file name
	// conventions used by the archive.
	ForwardSuffix = "_1.fastq.gz"
	ReverseSuffix = "_2.fastq.gz"

	mergeSuffix = ".merging"
)

// MergeReads concatenates the per-run read files in dir into one combined
// forward and one combined reverse file named after the accession, then
// removes the constituents. Concatenation order is lexical by file name, so
// the result is deterministic for a given set of runs.
func MergeReads(ctx context.Context, accession, dir string) error {
	logger := logctx.LoggerFromContext(ctx)

	forward, err := listBySuffix(dir, ForwardSuffix)
	if err != nil {
		return err
	}

	reverse, err := listBySuffix(dir, ReverseSuffix)
	if err != nil {
		return err
	}

	if len(forward) == 0 || len(reverse) == 0 {
		return &IncompleteMergeInputError{Accession: accession, Forward: len(forward), Reverse: len(reverse)}
	}

	logger.Debug("merging run files",
		"accession", accession,
		"forward_count", len(forward),
		"reverse_count", len(reverse),
	)

	if err := concat(forward, filepath.Join(dir, accession+ForwardSuffix)); err != nil {
		return fmt.Errorf("failed to merge forward reads: %w", err)
	}

	if err := concat(reverse, filepath.Join(dir, accession+ReverseSuffix)); err != nil {
		return fmt.Errorf("failed to merge reverse reads: %w", err)
	}

	// The merged files supersede the per-run constituents; they must not
	// also show up in the output directory.
	for _, path := range append(forward, reverse...) {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove merged constituent: %w", err)
		}
	}

	return nil
}

func listBySuffix(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scratch files: %w", err)
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}

		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(paths)

	return paths, nil
}

// concat writes the byte-concatenation of sources to a temporary name and
// renames it into place once complete.
func concat(sources []string, dest string) error {
	tmp := dest + mergeSuffix

	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	for _, src := range sources {
		if err := appendFile(out, src); err != nil {
			out.Close()
			_ = os.Remove(tmp)

			return err
		}
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)

		return err
	}

	return os.Rename(tmp, dest)
}

func appendFile(out io.Writer, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}

	defer in.Close()

	_, err = io.Copy(out, in)

	return err
}
