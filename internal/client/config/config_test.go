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
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestParseJson_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_base_url": "https://vault.example.com",
		"request_timeout": "30s"
	}`), 0o600))

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "https://vault.example.com", c.ServerBaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
}

func TestParseFlags_OverridesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-a", "http://vault.local:9000", "-t", "5"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, "http://vault.local:9000", c.ServerBaseURL)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
}
