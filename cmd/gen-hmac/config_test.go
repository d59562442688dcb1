package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_loadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("OPENPAY_HMAC_SECRET", "")
		cfg, err := loadConfig("", pflag.NewFlagSet("test", pflag.ContinueOnError), nil)
		require.NoError(t, err)
		assert.Equal(t, "", cfg.HMAC.Secret)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 10, cfg.Server.RateLimitPerMinute)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	})

	t.Run("precedence is flag, then env, then file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "openpay.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
hmac:
  secret: from-file
server:
  port: 9000
database:
  host: db.internal
`), 0o600))
		t.Setenv("OPENPAY_SERVER_PORT", "9100")
		t.Setenv("OPENPAY_HMAC_SECRET", "from-env")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("port", 8080, "")
		flags.String("secret", "", "")
		require.NoError(t, flags.Parse([]string{"--secret", "from-flag"}))

		cfg, err := loadConfig(path, flags, map[string]string{"hmac.secret": "secret", "server.port": "port"})
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.HMAC.Secret)
		assert.Equal(t, 9100, cfg.Server.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), pflag.NewFlagSet("test", pflag.ContinueOnError), nil)
		assert.Error(t, err)
	})
}
