// Package checksum verifies downloaded files against the MD5 digests the
// portal reports for them.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const chunkSize = 64 * 1024

// FileMD5 computes the hex-encoded MD5 digest of a file, streaming it in
// fixed-size chunks so large read files never have to fit in memory.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}

	defer f.Close()

	h := md5.New()

	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the file's MD5 digest equals the expected
// hex-encoded checksum. The returned error covers I/O failures only; a
// mismatch is a false match, not an error.
func Verify(path, expected string) (bool, error) {
	actual, err := FileMD5(path)
	if err != nil {
		return false, err
	}

	return actual == expected, nil
}
