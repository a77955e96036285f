package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://example.org/dataset", cfg.DatasetURI)
	assert.Equal(t, 2_000_000, cfg.CacheSize)
	assert.Equal(t, 1, cfg.Workers)
	assert.EqualValues(t, 10_000_000, cfg.ProgressInterval)
	assert.Equal(t, "turtle", cfg.Format)
	assert.False(t, cfg.UseBlankNodes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "c.yaml", []byte("workers: 8\nuse_blank_nodes: true\n"), 0644))

	cfg, err := LoadConfig(fs, "c.yaml")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.UseBlankNodes)
	assert.Equal(t, DefaultConfig().CacheSize, cfg.CacheSize)
	assert.Equal(t, DefaultConfig().DatasetURI, cfg.DatasetURI)

	opts := cfg.analyzerOptions()
	assert.Equal(t, 8, opts.Workers)
	assert.True(t, cfg.voidOptions().UseBlankNodes)
}

func TestLoadConfigErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"syntax.yaml":   "workers: [\n",
		"cache.yaml":    "cache_size: -3\n",
		"format.yaml":   "format: rdfxml\n",
		"progress.yaml": "progress_interval: -1\n",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
		_, err := LoadConfig(fs, name)
		assert.Error(t, err, name)
	}
	_, err := LoadConfig(fs, "missing.yaml")
	assert.Error(t, err)
}
