package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config struct for environment variables.
type Config struct {
	PortalBaseURL  string        `envconfig:"ENA_PORTAL_BASE_URL" default:"https://www.ebi.ac.uk/ena/portal/api"`
	RequestTimeout time.Duration `envconfig:"ENA_REQUEST_TIMEOUT" default:"30s"`

	TransferMode   string        `envconfig:"ENA_TRANSFER_MODE" default:"ftp"`
	FTPAddr        string        `envconfig:"ENA_FTP_ADDR" default:"ftp.sra.ebi.ac.uk:21"`
	AttemptTimeout time.Duration `envconfig:"ENA_ATTEMPT_TIMEOUT" default:"5m"`
	MaxAttempts    int           `envconfig:"ENA_MAX_ATTEMPTS" default:"3"`
	RetryInterval  time.Duration `envconfig:"ENA_RETRY_INTERVAL" default:"2s"`

	Ascp struct {
		Binary  string `envconfig:"ENA_ASCP_BINARY" default:"~/.aspera/cli/bin/ascp"`
		KeyFile string `envconfig:"ENA_ASCP_KEY_FILE" default:"~/.aspera/cli/etc/asperaweb_id_dsa.openssh"`
		Rate    string `envconfig:"ENA_ASCP_RATE" default:"300m"`
		Port    int    `envconfig:"ENA_ASCP_PORT" default:"33001"`
	}

	LedgerPath string `envconfig:"ENA_LEDGER_PATH"`
	LogLevel   string `envconfig:"ENA_LOG_LEVEL" default:"INFO"`

	Telemetry struct {
		Enabled bool `envconfig:"ENA_TELEMETRY_ENABLED" default:"false"`
	}
}

// LoadConfig reads environment variables and populates the Config struct.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
