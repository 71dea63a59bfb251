package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
	}
}

func TestMergeReads_ConcatenatesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()

	writeFiles(t, dir, map[string][]byte{
		"run2_1.fastq.gz": []byte("F2"),
		"run1_1.fastq.gz": []byte("F1"),
		"run2_2.fastq.gz": []byte("R2"),
		"run1_2.fastq.gz": []byte("R1"),
	})

	require.NoError(t, MergeReads(context.Background(), "SAMEA7997453", dir))

	forward, err := os.ReadFile(filepath.Join(dir, "SAMEA7997453_1.fastq.gz"))
	require.NoError(t, err)
	assert.Equal(t, []byte("F1F2"), forward)

	reverse, err := os.ReadFile(filepath.Join(dir, "SAMEA7997453_2.fastq.gz"))
	require.NoError(t, err)
	assert.Equal(t, []byte("R1R2"), reverse)

	// The constituents are superseded and must be gone.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	assert.ElementsMatch(t, []string{"SAMEA7997453_1.fastq.gz", "SAMEA7997453_2.fastq.gz"}, names)
}

func TestMergeReads_FailsWithoutReverseReads(t *testing.T) {
	dir := t.TempDir()

	writeFiles(t, dir, map[string][]byte{
		"run1_1.fastq.gz": []byte("F1"),
		"run2_1.fastq.gz": []byte("F2"),
	})

	err := MergeReads(context.Background(), "SAMEA7997453", dir)
	require.Error(t, err)

	var incompleteErr *IncompleteMergeInputError
	require.ErrorAs(t, err, &incompleteErr)
	assert.Equal(t, 2, incompleteErr.Forward)
	assert.Equal(t, 0, incompleteErr.Reverse)

	// No merged file may have been produced.
	_, statErr := os.Stat(filepath.Join(dir, "SAMEA7997453_1.fastq.gz"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMergeReads_FailsWithoutForwardReads(t *testing.T) {
	dir := t.TempDir()

	writeFiles(t, dir, map[string][]byte{
		"run1_2.fastq.gz": []byte("R1"),
	})

	err := MergeReads(context.Background(), "SAMEA7997453", dir)

	var incompleteErr *IncompleteMergeInputError
	require.ErrorAs(t, err, &incompleteErr)
	assert.Equal(t, 0, incompleteErr.Forward)
	assert.Equal(t, 1, incompleteErr.Reverse)
}

func TestMergeReads_SingleRunPerDirection(t *testing.T) {
	dir := t.TempDir()

	writeFiles(t, dir, map[string][]byte{
		"run1_1.fastq.gz": []byte("F1"),
		"run1_2.fastq.gz": []byte("R1"),
	})

	require.NoError(t, MergeReads(context.Background(), "SAMEA001", dir))

	forward, err := os.ReadFile(filepath.Join(dir, "SAMEA001_1.fastq.gz"))
	require.NoError(t, err)
	assert.Equal(t, []byte("F1"), forward)
}
