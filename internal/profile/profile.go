package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is configuration to start the bot process.
type Profile struct {
	// Mode can be "prod" or "dev".
	Mode string
	// Transport selects how Telegram updates are received: "polling" or "webhook".
	Transport string
	// BotToken is the Telegram Bot API token.
	BotToken string
	// WebhookURL is the public HTTPS URL Telegram delivers updates to (webhook mode only).
	WebhookURL string
	// Addr is the listen address of the webhook/metrics server.
	Addr string
	// Port is the listen port of the webhook/metrics server.
	Port int
	// Data is the directory holding local state (sqlite database file).
	Data string
	// Driver is the storage backend, "sqlite" or "postgres".
	Driver string
	// DSN is the driver-specific data source name.
	DSN string
	// SessionIdleTimeout bounds how long an abandoned upload/selection flow
	// keeps its session before eviction.
	SessionIdleTimeout time.Duration
	// Version is the current version of the server.
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// Flag values already set on the profile win over the environment.
func (p *Profile) FromEnv() {
	if p.BotToken == "" {
		p.BotToken = getEnvOrDefault("DOCSHELF_BOT_TOKEN", "")
	}
	if p.Transport == "" {
		p.Transport = getEnvOrDefault("DOCSHELF_TRANSPORT", "polling")
	}
	if p.WebhookURL == "" {
		p.WebhookURL = getEnvOrDefault("DOCSHELF_WEBHOOK_URL", "")
	}
	if p.SessionIdleTimeout == 0 {
		minutes := getEnvOrDefaultInt("DOCSHELF_SESSION_IDLE_MINUTES", 30)
		p.SessionIdleTimeout = time.Duration(minutes) * time.Minute
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate checks the profile and fills in derivable defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Transport != "polling" && p.Transport != "webhook" {
		return errors.Errorf("unsupported transport %q", p.Transport)
	}
	if p.BotToken == "" {
		return errors.New("bot token required, set DOCSHELF_BOT_TOKEN")
	}
	if p.Transport == "webhook" && p.WebhookURL == "" {
		return errors.New("webhook transport requires DOCSHELF_WEBHOOK_URL")
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		if p.Mode == "prod" {
			dataDir, err := checkDataDir(p.Data)
			if err != nil {
				return err
			}
			p.Data = dataDir
			p.DSN = filepath.Join(dataDir, "docshelf_prod.db")
		} else {
			// Dev keeps the database in memory, one throwaway database per
			// run. The single-connection pool makes shared cache unnecessary.
			p.DSN = "file::memory:"
		}
	}
	if p.DSN == "" {
		return errors.Errorf("dsn required for driver %q", p.Driver)
	}
	return nil
}
