package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./index.bsf", config.IndexPath)
	assert.Equal(t, "search", config.Variant)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestListenAddr(t *testing.T) {
	config := &Config{Bind: "0.0.0.0", Port: 9000}
	assert.Equal(t, "0.0.0.0:9000", config.ListenAddr())
}

func TestValidate(t *testing.T) {
	t.Run("empty index path", func(t *testing.T) {
		config := DefaultConfig()
		config.IndexPath = ""
		assert.Error(t, config.Validate())
	})

	t.Run("unknown variant", func(t *testing.T) {
		config := DefaultConfig()
		config.Variant = "btree"
		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown variant")
	})

	t.Run("port out of range", func(t *testing.T) {
		config := DefaultConfig()
		config.Port = 0
		assert.Error(t, config.Validate())
		config.Port = 70000
		assert.Error(t, config.Validate())
	})

	t.Run("sequential variant accepted", func(t *testing.T) {
		config := DefaultConfig()
		config.Variant = "sequential"
		assert.NoError(t, config.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			IndexPath: "/data/places.bsf",
			Variant:   "sequential",
			Bind:      "0.0.0.0",
			Port:      9000,
			Logging: Logging{
				Level: "debug",
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(configPath, []byte("index_path: /tmp/other.bsf\n"), 0644)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/other.bsf", loadedConfig.IndexPath)
		assert.Equal(t, "search", loadedConfig.Variant)
		assert.Equal(t, 8080, loadedConfig.Port)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// Try to save to a directory that can't be created
	invalidPath := "/invalid/path/that/cannot/be/created/config.yaml"

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
