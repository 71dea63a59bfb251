// Package ftp fetches read files from the ENA FTP mirror.
package ftp

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/italolelis/ena_downloader/internal/ena"
	"github.com/italolelis/ena_downloader/internal/logctx"
	"github.com/italolelis/ena_downloader/internal/transfer"
	"github.com/italolelis/ena_downloader/internal/transfer/progress"
	ftplib "github.com/jlaffaye/ftp"
	"golang.org/x/sync/errgroup"
)

const (
	anonymousUser    = "anonymous"
	progressInterval = int64(100 * 1024 * 1024) // 100MB
)

// Client retrieves files over FTP with an anonymous login.
type Client struct {
	addr string
}

func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Fetch downloads one remote file into destPath. The body streams into a
// part file that is renamed only once fully read, so a failed attempt never
// leaves destPath behind.
func (c *Client) Fetch(ctx context.Context, entry ena.Entry, destPath string) error {
	conn, err := ftplib.Dial(c.addr, ftplib.DialWithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.addr, err)
	}

	if err := conn.Login(anonymousUser, anonymousUser); err != nil {
		_ = conn.Quit()

		return fmt.Errorf("failed to login to %s: %w", c.addr, err)
	}

	partPath := destPath + transfer.PartSuffix

	// The RETR data read is not context aware. Run it as a cancellable unit
	// of work: a watchdog force-closes the connection at the deadline, which
	// unblocks the read with an error.
	wg, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	wg.Go(func() error {
		defer close(done)

		return c.retrieve(gctx, conn, entry, partPath)
	})

	wg.Go(func() error {
		select {
		case <-done:
		case <-gctx.Done():
			_ = conn.Quit()
		}

		return nil
	})

	if err := wg.Wait(); err != nil {
		_ = conn.Quit()
		_ = os.Remove(partPath)

		return err
	}

	_ = conn.Quit()

	if err := os.Rename(partPath, destPath); err != nil {
		_ = os.Remove(partPath)

		return fmt.Errorf("failed to finalize download: %w", err)
	}

	return nil
}

func (c *Client) retrieve(ctx context.Context, conn *ftplib.ServerConn, entry ena.Entry, partPath string) error {
	logger := logctx.LoggerFromContext(ctx)

	remote := remotePath(entry.Location)

	logger.Info("downloading file",
		"remote_path", remote,
		"file_size", humanize.Bytes(uint64(entry.Bytes)),
	)

	resp, err := conn.Retr(remote)
	if err != nil {
		return fmt.Errorf("failed to retrieve %s: %w", remote, err)
	}

	defer resp.Close()

	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("failed to create part file: %w", err)
	}

	defer out.Close()

	progressCb := func(written int64, total int64) {
		if total > 0 {
			logger.Debug("download progress",
				"remote_path", remote,
				"downloaded", humanize.Bytes(uint64(written)),
				"total", humanize.Bytes(uint64(total)),
				"percent", humanize.FtoaWithDigits(float64(written)*100/float64(total), 2))
		} else {
			logger.Debug("download progress", "remote_path", remote, "downloaded", humanize.Bytes(uint64(written)))
		}
	}
	pr := progress.NewReader(resp, entry.Bytes, progressInterval, progressCb)

	if _, err := io.Copy(out, pr); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

// remotePath strips the host portion from a manifest location, leaving the
// path used for retrieval. Portal locations look like
// "ftp.sra.ebi.ac.uk/vol1/fastq/.../ERR11466368_1.fastq.gz".
func remotePath(location string) string {
	location = strings.TrimPrefix(location, "ftp://")

	if i := strings.Index(location, "/"); i >= 0 {
		return location[i:]
	}

	return location
}
