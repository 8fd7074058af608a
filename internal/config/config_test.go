package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, DriverMemory, c.Storage.Driver)
	assert.Equal(t, 10*time.Minute, c.Idempotency.TTL)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, "/metrics", c.Metrics.Path)
	assert.False(t, c.IsProd())
}

func TestLoad_YAML(t *testing.T) {
	p := writeYAML(t, `
app:
  name: pets-test
  env: prod
server:
  addr: ":9090"
  read_timeout: 2s
log:
  level: debug
  format: json
storage:
  driver: memory
  seed_demo: true
idempotency:
  ttl: 30s
docs:
  enabled: false
`)

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "pets-test", c.App.Name)
	assert.True(t, c.IsProd())
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, 2*time.Second, c.Server.ReadTimeout)
	// no definido en el YAML => default
	assert.Equal(t, 10*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Storage.SeedDemo)
	assert.Equal(t, 30*time.Second, c.Idempotency.TTL)
	assert.False(t, c.Docs.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("STORAGE_SEED_DEMO", "true")
	t.Setenv("IDEMPOTENCY_TTL", "1m")
	t.Setenv("METRICS_ENABLED", "false")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "json", c.Log.Format)
	assert.True(t, c.Storage.SeedDemo)
	assert.Equal(t, time.Minute, c.Idempotency.TTL)
	assert.False(t, c.Metrics.Enabled)
}

func TestLoad_DBDSNImpliesPostgres(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/pets")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, c.Storage.Driver)
	assert.Equal(t, "postgres://localhost/pets", c.Storage.DSN)
}

func TestLoad_ExplicitDriverWins(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/pets")
	t.Setenv("STORAGE_DRIVER", "memory")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, c.Storage.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown driver":    "storage:\n  driver: mongo\n",
		"postgres no dsn":   "storage:\n  driver: postgres\n",
		"zero timeout":      "server:\n  read_timeout: 0s\n",
		"bad metrics path":  "metrics:\n  path: metrics\n",
		"malformed yaml":    "server: [\n",
		"negative idem ttl": "idempotency:\n  ttl: -1s\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
