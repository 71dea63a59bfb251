// Package scratch provides the temporary working directory downloads are
// assembled in before staging. The directory is a scoped resource: Close
// removes it and everything in it on every exit path, so partial downloads
// and intermediate merge output never outlive the pipeline run.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Dir is a scratch directory owned by a single pipeline invocation.
type Dir struct {
	path string
}

// New creates a fresh scratch directory for the given accession.
func New(accession string) (*Dir, error) {
	path, err := os.MkdirTemp("", "ena_"+accession+"_")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &Dir{path: path}, nil
}

func (d *Dir) Path() string {
	return d.path
}

// Join returns the path of a file inside the scratch directory.
func (d *Dir) Join(name string) string {
	return filepath.Join(d.path, name)
}

// Files lists the names of the regular files currently in the directory,
// sorted lexically.
func (d *Dir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list scratch directory: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

// Close removes the scratch directory and all of its contents.
func (d *Dir) Close() error {
	return os.RemoveAll(d.path)
}
