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
	path := filepath.Join(t.TempDir(), "spawnpool.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "PoolManager", cfg.Pool.RootName)
	assert.Equal(t, 50*time.Millisecond, cfg.Runtime.TickRate)
	assert.False(t, cfg.Database.Enabled)
	assert.NotZero(t, cfg.Runtime.StartTime)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[runtime]
tick_rate = "20ms"

[pool]
root_name = "Pools"

[metrics]
enabled = true

[stats]
snapshot_interval = "1m"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Runtime.TickRate)
	assert.Equal(t, "Pools", cfg.Pool.RootName)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9108", cfg.Metrics.BindAddress)
	assert.Equal(t, time.Minute, cfg.Stats.SnapshotInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"zero tick":    "[runtime]\ntick_rate = \"0s\"\n",
		"empty root":   "[pool]\nroot_name = \"\"\n",
		"db sans dsn":  "[database]\nenabled = true\ndsn = \"\"\n",
		"bad toml":     "[runtime\n",
		"neg interval": "[stats]\nsnapshot_interval = \"-1s\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/spawnpool.toml")
	assert.Equal(t, "custom.toml", Path("custom.toml"))
	assert.Equal(t, "/etc/spawnpool.toml", Path(""))
}
