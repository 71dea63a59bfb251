package ena

import "strings"

// Entry pairs a remote read-file location with its expected MD5 checksum as
// reported by the portal filereport service.
type Entry struct {
	Location string
	MD5      string
	Bytes    int64
}

// Manifest is the ordered set of read files resolved for an accession,
// unique by remote location. The order is the one the portal returned.
type Manifest []Entry

// IsSample reports whether an accession identifies a BioSample, which may
// aggregate several sequencing runs that need merging after download.
func IsSample(accession string) bool {
	return strings.HasPrefix(accession, "SAM")
}
