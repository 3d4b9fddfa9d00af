package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "count", cfg.Sequence.Strategy)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.True(t, cfg.Auth.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"8080\"\n  env: production\nmongo:\n  uri: mongodb://db:27017\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("MONGO_DBNAME", "ops_test")
	t.Setenv("SEQUENCE_STRATEGY", "redis")
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "ops_test", cfg.Mongo.DBName)
	assert.Equal(t, "redis", cfg.Sequence.Strategy)
	assert.False(t, cfg.Auth.Enabled)
	assert.True(t, cfg.IsProduction())
}
