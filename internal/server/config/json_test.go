package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseJson_OverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `{
		"endpoint_addr_http": ":9090",
		"database_dsn": "postgres://u:p@db:5432/lk",
		"secret_key": "json-secret",
		"access_token_validity_duration": "30m",
		"sweep_secret": "json-sweep",
		"base_url": "https://vault.example.com",
		"reminder_cadence": "12h",
		"smtp_host": "mail.example.com",
		"smtp_port": 465,
		"smtp_user": "mailer",
		"smtp_password": "mailpass",
		"email_from": "Vault <noreply@example.com>",
		"s3_root_user": "s3u",
		"s3_root_password": "s3p",
		"s3_bucket": "blobs",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://minio:9000/"
	}`)

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":9090", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/lk", c.DatabaseDSN)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "json-sweep", c.SweepSecret)
	assert.Equal(t, "https://vault.example.com", c.BaseURL)
	assert.Equal(t, 12*time.Hour, c.ReminderCadence)
	assert.Equal(t, "mail.example.com", c.SMTPHost)
	assert.Equal(t, 465, c.SMTPPort)
	assert.Equal(t, "mailer", c.SMTPUser)
	assert.Equal(t, "eu-west-1", c.S3Region)
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := writeTempConfig(t, `{not json`)

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-c", path}

	var c Config
	c.LoadDefaults()
	assert.Panics(t, func() { parseJson(&c) })
}
