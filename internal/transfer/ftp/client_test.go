package ftp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemotePath(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{
			name:     "portal location",
			location: "ftp.sra.ebi.ac.uk/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_1.fastq.gz",
			want:     "/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_1.fastq.gz",
		},
		{
			name:     "with ftp scheme",
			location: "ftp://ftp.sra.ebi.ac.uk/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_2.fastq.gz",
			want:     "/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_2.fastq.gz",
		},
		{
			name:     "no path component",
			location: "ftp.sra.ebi.ac.uk",
			want:     "ftp.sra.ebi.ac.uk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remotePath(tt.location))
		})
	}
}
