package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_PASSWORD", "secret")
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SourceWorkbook, cfg.Data.Source)
	assert.Equal(t, "DB ABJ", cfg.Data.SheetPortA)
	assert.Equal(t, "SAN PEDRO", cfg.Data.PortBName)
	assert.Equal(t, time.Hour, cfg.Data.CacheTTL)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.DigestSchedule)
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "CACAO_TEST_MARKER=1\nCACHE_TTL=15m\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("DASHBOARD_PASSWORD", "secret")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACAO_TEST_MARKER", "")
	// godotenv never overrides variables that are already set, so unset them.
	require.NoError(t, os.Unsetenv("CACHE_TTL"))
	require.NoError(t, os.Unsetenv("CACAO_TEST_MARKER"))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Data.CacheTTL)
	assert.Equal(t, "1", os.Getenv("CACAO_TEST_MARKER"))
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	t.Setenv("DASHBOARD_PASSWORD", "secret")
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			Data: DataConfig{
				Source:       SourceWorkbook,
				WorkbookPath: "shipments.xlsx",
				SheetPortA:   "DB ABJ",
				PortAName:    "ABIDJAN",
				SheetPortB:   "DB SP",
				PortBName:    "SAN PEDRO",
				CacheTTL:     time.Hour,
			},
			Auth:      AuthConfig{Password: "secret"},
			Reporting: ReportingConfig{Timezone: "Africa/Abidjan"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing password", mutate: func(c *Config) { c.Auth.Password = "" }, wantErr: "DASHBOARD_PASSWORD"},
		{name: "unknown source", mutate: func(c *Config) { c.Data.Source = "ftp" }, wantErr: "DATA_SOURCE"},
		{name: "gsheets without credentials", mutate: func(c *Config) { c.Data.Source = SourceGoogleSheets }, wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{name: "empty sheet name", mutate: func(c *Config) { c.Data.SheetPortB = "" }, wantErr: "SHEET_PORT_B"},
		{name: "zero ttl", mutate: func(c *Config) { c.Data.CacheTTL = 0 }, wantErr: "CACHE_TTL"},
		{name: "mongo without db", mutate: func(c *Config) { c.MongoDB.URI = "mongodb://localhost" }, wantErr: "MONGODB_DB_NAME"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
