package ena

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/italolelis/ena_downloader/internal/logctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client queries the ENA portal API for accession metadata and filereports.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type searchRecord struct {
	RunAccession string `json:"run_accession"`
}

type fileReport struct {
	RunAccession string `json:"run_accession"`
	FastqFTP     string `json:"fastq_ftp"`
	FastqMD5     string `json:"fastq_md5"`
	FastqBytes   string `json:"fastq_bytes"`
}

// Resolve validates the accession against the portal and flattens its
// filereport into a manifest. Read-only; no retry beyond the HTTP client's
// request timeout.
func (c *Client) Resolve(ctx context.Context, accession string) (Manifest, error) {
	logger := logctx.LoggerFromContext(ctx)

	logger.Debug("checking accession against the portal", "accession", accession)

	records, err := c.search(ctx, accession)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &InvalidAccessionError{Accession: accession}
	}

	reports, err := c.filereport(ctx, accession)
	if err != nil {
		return nil, err
	}

	manifest := flatten(reports)
	if len(manifest) == 0 {
		return nil, &EmptyManifestError{Accession: accession}
	}

	logger.Debug("manifest resolved", "accession", accession, "file_count", len(manifest))

	return manifest, nil
}

func (c *Client) search(ctx context.Context, accession string) ([]searchRecord, error) {
	params := url.Values{
		"result":            {"read_run"},
		"includeAccessions": {accession},
		"limit":             {"10"},
		"format":            {"json"},
	}

	var records []searchRecord
	if err := c.getJSON(ctx, accession, "/search", params, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (c *Client) filereport(ctx context.Context, accession string) ([]fileReport, error) {
	params := url.Values{
		"accession": {accession},
		"result":    {"read_run"},
		"fields":    {"run_accession,fastq_ftp,fastq_md5,fastq_bytes"},
		"format":    {"json"},
	}

	var reports []fileReport
	if err := c.getJSON(ctx, accession, "/filereport", params, &reports); err != nil {
		return nil, err
	}

	return reports, nil
}

func (c *Client) getJSON(ctx context.Context, accession, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build portal request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ManifestUnavailableError{Accession: accession, Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ManifestUnavailableError{Accession: accession, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ManifestUnavailableError{Accession: accession, Err: fmt.Errorf("failed to decode portal response: %w", err)}
	}

	return nil
}

// flatten splits each report's semicolon-delimited location, checksum and
// size lists and zips them into manifest entries, preserving the portal's
// order and dropping duplicate locations.
func flatten(reports []fileReport) Manifest {
	var manifest Manifest

	seen := make(map[string]struct{})

	for _, report := range reports {
		if report.FastqFTP == "" {
			continue
		}

		locations := strings.Split(report.FastqFTP, ";")
		checksums := strings.Split(report.FastqMD5, ";")
		sizes := strings.Split(report.FastqBytes, ";")

		for i, location := range locations {
			if location == "" {
				continue
			}

			if _, dup := seen[location]; dup {
				continue
			}

			seen[location] = struct{}{}

			entry := Entry{Location: location}
			if i < len(checksums) {
				entry.MD5 = checksums[i]
			}

			if i < len(sizes) {
				entry.Bytes, _ = strconv.ParseInt(sizes[i], 10, 64)
			}

			manifest = append(manifest, entry)
		}
	}

	return manifest
}
