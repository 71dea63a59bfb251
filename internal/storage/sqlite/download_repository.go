package sqlite

import (
	"database/sql"
	"time"

	"github.com/italolelis/ena_downloader/internal/storage"
)

// DownloadRepository implements storage.Ledger on SQLite.
type DownloadRepository struct {
	db *sql.DB
}

func NewDownloadRepository(dbConn *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: dbConn}
}

func (r *DownloadRepository) RecordDownload(accession, filePath, checksum string) error {
	_, err := r.db.Exec(
		`INSERT INTO downloads (accession, file_path, checksum, downloaded_at) VALUES (?, ?, ?, ?)`,
		accession, filePath, checksum, time.Now().Format(time.RFC3339),
	)

	return err
}

func (r *DownloadRepository) GetDownloads(accession string) ([]storage.DownloadRecord, error) {
	rows, err := r.db.Query(
		`SELECT accession, file_path, checksum, downloaded_at FROM downloads WHERE accession = ? ORDER BY downloaded_at, file_path`,
		accession,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var downloads []storage.DownloadRecord

	for rows.Next() {
		var record storage.DownloadRecord

		var checksum sql.NullString

		if err := rows.Scan(&record.Accession, &record.FilePath, &checksum, &record.DownloadedAt); err != nil {
			return nil, err
		}

		if checksum.Valid {
			record.Checksum = checksum.String
		}

		downloads = append(downloads, record)
	}

	return downloads, rows.Err()
}
