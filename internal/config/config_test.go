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
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9092", cfg.Addr())
	assert.Equal(t, 8*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "http://localhost:5000/session?token=", cfg.EQURL)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
case_service:
  url: http://cases.internal:8171
  username: admin
  password: secret
eq_url: https://eq.example.org/session?token=
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://cases.internal:8171", cfg.CaseService.URL)
	assert.Equal(t, "admin", cfg.CaseService.Username)
	assert.Equal(t, "https://eq.example.org/session?token=", cfg.EQURL)
	// untouched values keep defaults
	assert.Equal(t, "http://localhost:8162", cfg.AddressIndex.URL)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"8080\"\n"), 0o600))

	t.Setenv("RH_PORT", "9999")
	t.Setenv("RHSVC_URL", "http://cases.env:8171")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "http://cases.env:8171", cfg.CaseService.URL)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "9092", cfg.Port)
}
