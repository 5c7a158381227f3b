package chatrelay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	yamlConfig, err := LoadConfig("./cmd/config.yaml")
	require.NoError(t, err)
	tomlConfig, err := LoadConfig("./cmd/config.toml")
	require.NoError(t, err)
	assert.Equal(t, yamlConfig, tomlConfig)

	assert.Equal(t, "debug", tomlConfig.Global.LogLevel)
	assert.Equal(t, "127.0.0.1", tomlConfig.Relay.Address)
	assert.Equal(t, 2030, tomlConfig.Relay.Port)
	assert.Equal(t, 5, tomlConfig.Relay.Capacity)
	assert.Equal(t, 64, tomlConfig.Relay.BufferSize)
	assert.True(t, tomlConfig.Relay.LockOsThread)
	assert.Equal(t, "127.0.0.1:9090", tomlConfig.Metrics.Address)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relay:\n  port: 4000\n"), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, config.Relay.Port)
	assert.Equal(t, DefaultCapacity, config.Relay.Capacity)
	assert.Equal(t, DefaultBufferSize, config.Relay.BufferSize)
	assert.Equal(t, DefaultBacklog, config.Relay.Backlog)
	assert.Equal(t, DefaultSocketBufferSize, config.Relay.SocketBufferSize)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]struct {
		name    string
		content string
		err     error
	}{
		"capacity": {"capacity.toml", "[relay]\ncapacity = -1\n", errInvalidCapacity},
		"buffer":   {"buffer.toml", "[relay]\nbuffer_size = 1\n", errInvalidBufferSize},
		"port":     {"port.yaml", "relay:\n  port: 70000\n", errInvalidPort},
		"suffix":   {"relay.json", "{}", errUnknownConfigFormat},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			_, err := LoadConfig(path)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, validateConfig(config))
	assert.Equal(t, "0.0.0.0", config.Relay.Address)
	assert.Equal(t, DefaultCapacity, config.Relay.Capacity)
	assert.True(t, config.Relay.LockOsThread)
}
