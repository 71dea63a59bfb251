package ena

import "fmt"

// InvalidAccessionError is returned when the portal reports no records for an
// accession. The portal is the sole source of truth: a malformed identifier
// and an unknown one are indistinguishable here.
type InvalidAccessionError struct {
	Accession string
}

func (e *InvalidAccessionError) Error() string {
	return fmt.Sprintf("invalid accession number: %s", e.Accession)
}

// ManifestUnavailableError is returned when the portal cannot be reached or
// answers with a non-success status while resolving an accession.
type ManifestUnavailableError struct {
	Accession  string
	StatusCode int // HTTP status code, 0 for transport errors
	Err        error
}

func (e *ManifestUnavailableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("manifest unavailable for %s (HTTP %d)", e.Accession, e.StatusCode)
	}

	return fmt.Sprintf("manifest unavailable for %s: %v", e.Accession, e.Err)
}

func (e *ManifestUnavailableError) Unwrap() error {
	return e.Err
}

// EmptyManifestError is returned when the accession exists but its filereport
// carries no read-file locations.
type EmptyManifestError struct {
	Accession string
}

func (e *EmptyManifestError) Error() string {
	return fmt.Sprintf("no read files found for %s", e.Accession)
}
