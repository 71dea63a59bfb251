package ascp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteSource(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{
			name:     "portal location",
			location: "ftp.sra.ebi.ac.uk/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_1.fastq.gz",
			want:     "era-fasp@fasp.sra.ebi.ac.uk:vol1/fastq/ERR114/068/ERR11466368/ERR11466368_1.fastq.gz",
		},
		{
			name:     "with ftp scheme",
			location: "ftp://ftp.sra.ebi.ac.uk/vol1/fastq/ERR114/068/ERR11466368/ERR11466368_2.fastq.gz",
			want:     "era-fasp@fasp.sra.ebi.ac.uk:vol1/fastq/ERR114/068/ERR11466368/ERR11466368_2.fastq.gz",
		},
		{
			name:     "foreign host left untouched",
			location: "example.org/vol1/reads_1.fastq.gz",
			want:     "example.org/vol1/reads_1.fastq.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteSource(tt.location))
		})
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/ena")

	assert.Equal(t, "/home/ena/.aspera/cli/bin/ascp", expandHome("~/.aspera/cli/bin/ascp"))
	assert.Equal(t, "/usr/local/bin/ascp", expandHome("/usr/local/bin/ascp"))
}
