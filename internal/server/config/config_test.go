package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "./data", c.DataDir)
	assert.Equal(t, 20*time.Second, c.SweepInterval)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.NotEmpty(t, c.DatabaseDSN)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	payload := map[string]any{
		"endpoint_addr":  ":9090",
		"database_dsn":   "postgres://x",
		"data_dir":       "/var/blobs",
		"sweep_interval": "45s",
		"session_ttl":    "12h",
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o660))

	origArgs := os.Args
	os.Args = []string{"test", "-c", path}
	t.Cleanup(func() { os.Args = origArgs })

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, ":9090", c.EndpointAddr)
	assert.Equal(t, "postgres://x", c.DatabaseDSN)
	assert.Equal(t, "/var/blobs", c.DataDir)
	assert.Equal(t, 45*time.Second, c.SweepInterval)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"test", "-a", ":7070", "-f", "/tmp/blobs", "-i", "5", "-t", "48"}
	t.Cleanup(func() { os.Args = origArgs })

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, "/tmp/blobs", c.DataDir)
	assert.Equal(t, 5*time.Second, c.SweepInterval)
	assert.Equal(t, 48*time.Hour, c.SessionTTL)
}
