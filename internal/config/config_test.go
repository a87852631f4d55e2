package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "APP_ALLOWED_ORIGINS", "MONGODB_URI", "MONGODB_DB_NAME",
	"AUTH_JWT_SECRET", "AUTH_ISSUER", "STORAGE_URL", "STORAGE_API_KEY", "STORAGE_BUCKET",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_RANGE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION",
	"WHATSAPP_DIGEST_TEMPLATE", "WHATSAPP_TEMPLATE_LANGUAGE",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "REDIS_URL", "CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "birdo", cfg.MongoDB.DBName)
	assert.Equal(t, "plantel-images", cfg.Storage.Bucket)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Equal(t, "pt_BR", cfg.WhatsApp.TemplateLanguage)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "MONGODB_URI=mongodb://db:27017\n" +
		"AUTH_JWT_SECRET=s3cr3t\n" +
		"APP_ALLOWED_ORIGINS=https://a.example, https://b.example\n" +
		"STORAGE_URL=https://files.example/\n" +
		"STORAGE_API_KEY=key\n" +
		"REDIS_URL=redis://localhost:6379/0\n" +
		"CACHE_TTL=90m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://files.example", cfg.Storage.BaseURL)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Minute, cfg.Redis.TTL)
}

func TestLoadRejectsBadCacheTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "forever")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		MongoDB:   MongoDBConfig{URI: "mongodb://localhost", DBName: "birdo"},
		Auth:      AuthConfig{JWTSecret: "secret"},
		Reporting: ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "APP_PORT"},
		{name: "mongo uri", mutate: func(c *Config) { c.MongoDB.URI = "" }, wantErr: "MONGODB_URI"},
		{name: "jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "AUTH_JWT_SECRET"},
		{name: "storage key", mutate: func(c *Config) { c.Storage.BaseURL = "https://x" }, wantErr: "STORAGE_API_KEY"},
		{name: "sheets credentials", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }, wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{name: "whatsapp phone", mutate: func(c *Config) { c.WhatsApp.AccessToken = "tok" }, wantErr: "WHATSAPP_PHONE_NUMBER_ID"},
		{name: "timezone", mutate: func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
