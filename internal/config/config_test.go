package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, defaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, defaultAPITimeout, cfg.API.Timeout)
	assert.Equal(t, 1, cfg.API.MaxAttempts)
	assert.Equal(t, defaultRequestGap, cfg.API.Gap())
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://127.0.0.1:9000/"
  timeout: 3s
  max_attempts: 2
smtp:
  server: smtp.example.com
  port: 465
  user: bot@example.com
  to: "a@example.com, b@example.com"
output:
  xlsx_path: out.xlsx
`)
	t.Setenv("API_MAX_ATTEMPTS", "3")
	t.Setenv("SMTP_AUTH_CODE", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.MaxAttempts)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "secret", cfg.SMTP.Password)
	assert.Equal(t, "bot@example.com", cfg.SMTP.From)
	assert.Equal(t, "out.xlsx", cfg.Output.XLSXPath)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.SMTP.Recipients())
}

func TestLoad_RequestGap(t *testing.T) {
	cfg, err := Load(writeConfig(t, "api:\n  request_gap: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.API.Gap())

	cfg, err = Load(writeConfig(t, "api:\n  request_gap: 1s\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.API.Gap())

	cfg, err = Load(writeConfig(t, "api:\n  timeout: 5s\n"))
	require.NoError(t, err)
	assert.Equal(t, defaultRequestGap, cfg.API.Gap())
}

func TestLoad_NonEmailLoginKeepsOtherSections(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
api:
  max_attempts: 2
smtp:
  server: smtp.example.com
  user: robot
  to: a@example.com
output:
  xlsx_path: keep.xlsx
`))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.API.MaxAttempts)
	assert.Equal(t, "keep.xlsx", cfg.Output.XLSXPath)
	assert.Empty(t, cfg.SMTP.From)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "output:\n  xlsx_path: from-env.xlsx\n")
	t.Setenv(envConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env.xlsx", cfg.Output.XLSXPath)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad url", body: "api:\n  base_url: not-a-url\n", want: "BaseURL"},
		{name: "too many attempts", body: "api:\n  max_attempts: 9\n", want: "MaxAttempts"},
		{name: "bad sender", body: "smtp:\n  from: nobody\n", want: "From"},
		{name: "bad yaml", body: "api: [", want: "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultRunTimeout, cfg.API.RunTimeout)
}
