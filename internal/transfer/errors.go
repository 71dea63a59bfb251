package transfer

import "fmt"

// TransferError represents a file transfer that failed after exhausting its
// retry budget. It is fatal for the whole pipeline run.
type TransferError struct {
	Location string // remote location of the file that could not be fetched
	Attempts int    // number of attempts made before giving up
	Err      error  // last attempt's error, if any
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %s after %d attempts", e.Location, e.Attempts)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// ChecksumMismatchError represents a downloaded file whose MD5 digest does
// not match the checksum the portal reported. The orchestrator treats it the
// same way as a failed transfer.
type ChecksumMismatchError struct {
	File     string // file name in scratch space
	Expected string // hex-encoded checksum from the manifest
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("md5 checksum failed for %s: expected %s", e.File, e.Expected)
}
