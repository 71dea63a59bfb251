package storage

// DownloadRecord represents one staged file of a completed accession
// download.
type DownloadRecord struct {
	Accession    string
	FilePath     string
	Checksum     string
	DownloadedAt string
}

// Ledger records completed downloads so repeated invocations can be audited.
type Ledger interface {
	RecordDownload(accession, filePath, checksum string) error
	GetDownloads(accession string) ([]DownloadRecord, error)
}
