package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reads.fastq.gz")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func TestFileMD5_KnownDigest(t *testing.T) {
	path := writeTemp(t, []byte("hello world"))

	sum, err := FileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)
}

func TestFileMD5_MissingFile(t *testing.T) {
	_, err := FileMD5(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestVerify_IsDeterministic(t *testing.T) {
	content := []byte("GATTACA\nGATTACA\n")
	path := writeTemp(t, content)

	digest := md5.Sum(content)
	expected := hex.EncodeToString(digest[:])

	// Re-verifying an already verified file always matches.
	for i := 0; i < 3; i++ {
		match, err := Verify(path, expected)
		require.NoError(t, err)
		assert.True(t, match)
	}
}

func TestVerify_DetectsSingleByteFlip(t *testing.T) {
	content := []byte("GATTACA\nGATTACA\n")
	path := writeTemp(t, content)

	digest := md5.Sum(content)
	expected := hex.EncodeToString(digest[:])

	flipped := append([]byte(nil), content...)
	flipped[3] ^= 0x01
	require.NoError(t, os.WriteFile(path, flipped, 0o644))

	match, err := Verify(path, expected)
	require.NoError(t, err)
	assert.False(t, match)
}
