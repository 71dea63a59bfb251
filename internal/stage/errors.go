package stage

import "fmt"

// IncompleteMergeInputError represents a sample accession whose downloaded
// runs are missing an entire read direction. Merging would produce a
// misleading "complete" file, so the pipeline fails instead.
type IncompleteMergeInputError struct {
	Accession string
	Forward   int // forward read files found in scratch
	Reverse   int // reverse read files found in scratch
}

func (e *IncompleteMergeInputError) Error() string {
	return fmt.Sprintf("incomplete merge input for %s: %d forward and %d reverse read files", e.Accession, e.Forward, e.Reverse)
}

// StagingError represents a failed relocation of a finished file into the
// output directory.
type StagingError struct {
	File string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("failed to stage %s: %v", e.File, e.Err)
}

func (e *StagingError) Unwrap() error {
	return e.Err
}
