package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClean(t *testing.T) *Config {
	t.Helper()
	// Point at an empty directory so a host forms.yml cannot leak in.
	t.Setenv("FORMS_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadClean(t)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 610, cfg.TokenTTL)
	assert.Equal(t, "default", cfg.Source("port"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "port: 9000\nlog_dir: /var/log/forms\nsmtp_host: relay.uemf.org\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
	t.Setenv("FORMS_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/var/log/forms", cfg.LogDir)
	assert.Equal(t, "relay.uemf.org", cfg.SMTPHost)
	assert.Equal(t, "file", cfg.Source("port"))
	assert.Equal(t, "default", cfg.Source("bind_address"))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: 9000\n"), 0o644))
	t.Setenv("FORMS_CONFIG_PATH", dir)
	t.Setenv("FORMS_PORT", "9001")
	t.Setenv("FORMS_TOKEN_TTL", "120")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, 120, cfg.TokenTTL)
}

func TestAddr(t *testing.T) {
	cfg := loadClean(t)
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = 8080
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
}

func TestValidate(t *testing.T) {
	cfg := loadClean(t)
	assert.NoError(t, cfg.Validate())

	cfg.Port = 0
	assert.Error(t, cfg.Validate(), "zero port should be rejected")

	cfg = loadClean(t)
	cfg.TokenTTL = -1
	assert.Error(t, cfg.Validate(), "negative token ttl should be rejected")
}

func TestFormatTextListsEverySetting(t *testing.T) {
	cfg := loadClean(t)
	text := cfg.FormatText()
	for _, attr := range cfg.Attributes() {
		assert.Contains(t, text, attr.Name)
	}
}
