package stage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/italolelis/ena_downloader/internal/logctx"
)

const (
	dirPerm = 0755

	stagingSuffix = ".staging"
)

// Move relocates every regular file in scratchDir into outDir, creating
// outDir if absent. Each file becomes visible at its destination atomically:
// the destination only ever shows the old absence or the new presence.
func Move(ctx context.Context, scratchDir, outDir string) error {
	logger := logctx.LoggerFromContext(ctx)

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return &StagingError{File: outDir, Err: err}
	}

	entries, err := os.ReadDir(scratchDir)
	if err != nil {
		return &StagingError{File: scratchDir, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		src := filepath.Join(scratchDir, entry.Name())
		dest := filepath.Join(outDir, entry.Name())

		logger.Debug("staging file", "src", src, "dest", dest)

		if err := moveFile(src, dest); err != nil {
			return &StagingError{File: entry.Name(), Err: err}
		}
	}

	return nil
}

// moveFile renames src to dest. When scratch lives on a different filesystem
// the rename fails, so the file is copied to a temporary name inside the
// destination directory and renamed from there, keeping the per-file
// all-or-nothing guarantee.
func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	tmp := dest + stagingSuffix

	if err := copyFile(src, tmp); err != nil {
		_ = os.Remove(tmp)

		return err
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)

		return err
	}

	return os.Remove(src)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}

	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return err
	}

	return out.Close()
}
