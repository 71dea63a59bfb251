// Package ascp fetches read files with the aspera ascp accelerated-transfer
// binary. ascp manages its own connection parallelism, so the pipeline stays
// single-file sequential around it.
package ascp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/italolelis/ena_downloader/internal/ena"
	"github.com/italolelis/ena_downloader/internal/logctx"
)

const (
	ftpHost  = "ftp.sra.ebi.ac.uk/"
	faspHost = "era-fasp@fasp.sra.ebi.ac.uk:"
)

// Client shells out to the ascp binary for each file.
type Client struct {
	binary  string
	keyFile string
	rate    string
	port    int
}

func NewClient(binary, keyFile, rate string, port int) *Client {
	return &Client{
		binary:  expandHome(binary),
		keyFile: expandHome(keyFile),
		rate:    rate,
		port:    port,
	}
}

// Fetch runs ascp for one remote file. ascp writes the final file name
// directly into the destination directory, so any output is removed when an
// attempt fails or is killed at its deadline.
func (c *Client) Fetch(ctx context.Context, entry ena.Entry, destPath string) error {
	logger := logctx.LoggerFromContext(ctx)

	src := rewriteSource(entry.Location)
	destDir := filepath.Dir(destPath)

	logger.Debug("running ascp", "source", src, "dest_dir", destDir)

	cmd := exec.CommandContext(ctx, c.binary,
		"-T",
		"-l", c.rate,
		"-P", strconv.Itoa(c.port),
		"-i", c.keyFile,
		src, destDir+string(os.PathSeparator),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(destPath)

		return fmt.Errorf("ascp failed for %s: %w: %s", entry.Location, err, strings.TrimSpace(string(output)))
	}

	return nil
}

// rewriteSource converts an FTP mirror location into the aspera addressing
// scheme.
func rewriteSource(location string) string {
	location = strings.TrimPrefix(location, "ftp://")

	return strings.Replace(location, ftpHost, faspHost, 1)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	return path
}
