package transfer

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransferError_Error(t *testing.T) {
	err := &TransferError{
		Location: "ftp.sra.ebi.ac.uk/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_1.fastq.gz",
		Attempts: 3,
	}

	expected := "transfer failed for ftp.sra.ebi.ac.uk/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_1.fastq.gz after 3 attempts"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestTransferError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransferError{
		Location: "host/x_1.fastq.gz",
		Attempts: 3,
		Err:      cause,
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	wrapped := fmt.Errorf("context: %w", err)
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() should find cause in wrapped chain")
	}
}

func TestTransferError_As(t *testing.T) {
	originalErr := &TransferError{Location: "host/x_1.fastq.gz", Attempts: 3}
	wrapped := fmt.Errorf("context: %w", originalErr)

	var target *TransferError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As() should extract TransferError from wrapped chain")
	}

	if target.Attempts != 3 {
		t.Errorf("Attempts = %d, want %d", target.Attempts, 3)
	}
}

func TestChecksumMismatchError_Error(t *testing.T) {
	err := &ChecksumMismatchError{
		File:     "ERR11466368_1.fastq.gz",
		Expected: "0a1b2c3d4e5f60718293a4b5c6d7e8f9",
	}

	expected := "md5 checksum failed for ERR11466368_1.fastq.gz: expected 0a1b2c3d4e5f60718293a4b5c6d7e8f9"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestChecksumMismatchError_As(t *testing.T) {
	originalErr := &ChecksumMismatchError{File: "x_1.fastq.gz", Expected: "aa"}
	wrapped := fmt.Errorf("context: %w", originalErr)

	var target *ChecksumMismatchError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As() should extract ChecksumMismatchError from wrapped chain")
	}

	if target.File != "x_1.fastq.gz" {
		t.Errorf("File = %q, want %q", target.File, "x_1.fastq.gz")
	}
}
