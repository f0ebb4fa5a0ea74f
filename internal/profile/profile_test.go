package profile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDevDefaults(t *testing.T) {
	p := &Profile{Mode: "dev", Transport: "polling", BotToken: "token"}
	require.NoError(t, p.Validate())

	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, "file::memory:", p.DSN)
}

func TestValidateModeFallback(t *testing.T) {
	p := &Profile{Mode: "staging", Transport: "polling", BotToken: "token"}
	require.NoError(t, p.Validate())
	assert.Equal(t, "dev", p.Mode)
	assert.True(t, p.IsDev())
}

func TestValidateMissingToken(t *testing.T) {
	p := &Profile{Mode: "dev", Transport: "polling"}
	assert.Error(t, p.Validate())
}

func TestValidateBadTransport(t *testing.T) {
	p := &Profile{Mode: "dev", Transport: "carrier-pigeon", BotToken: "token"}
	assert.Error(t, p.Validate())
}

func TestValidateWebhookRequiresURL(t *testing.T) {
	p := &Profile{Mode: "dev", Transport: "webhook", BotToken: "token"}
	assert.Error(t, p.Validate())

	p.WebhookURL = "https://example.com/telegram/webhook"
	assert.NoError(t, p.Validate())
}

func TestValidateProdSQLitePath(t *testing.T) {
	dataDir := t.TempDir()
	p := &Profile{Mode: "prod", Transport: "polling", BotToken: "token", Data: dataDir}
	require.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join(dataDir, "docshelf_prod.db"), p.DSN)
}

func TestValidateProdMissingDataDir(t *testing.T) {
	p := &Profile{
		Mode:      "prod",
		Transport: "polling",
		BotToken:  "token",
		Data:      filepath.Join(t.TempDir(), "does-not-exist"),
	}
	assert.Error(t, p.Validate())
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Transport: "polling", BotToken: "token", Driver: "postgres"}
	assert.Error(t, p.Validate())

	p.DSN = "postgresql://docshelf@localhost/docshelf"
	assert.NoError(t, p.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DOCSHELF_BOT_TOKEN", "env-token")
	t.Setenv("DOCSHELF_TRANSPORT", "webhook")
	t.Setenv("DOCSHELF_WEBHOOK_URL", "https://example.com/hook")
	t.Setenv("DOCSHELF_SESSION_IDLE_MINUTES", "5")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "env-token", p.BotToken)
	assert.Equal(t, "webhook", p.Transport)
	assert.Equal(t, "https://example.com/hook", p.WebhookURL)
	assert.Equal(t, 5*time.Minute, p.SessionIdleTimeout)
}

func TestFromEnvFlagWins(t *testing.T) {
	t.Setenv("DOCSHELF_BOT_TOKEN", "env-token")

	p := &Profile{BotToken: "flag-token"}
	p.FromEnv()
	assert.Equal(t, "flag-token", p.BotToken)
}
