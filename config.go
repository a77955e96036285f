package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/rdfio/rdf2void/partition"
	"github.com/rdfio/rdf2void/void"
)

// Config holds the analysis settings. Values come from DefaultConfig, then
// an optional YAML file, then explicitly set command-line flags.
type Config struct {
	DatasetURI       string `yaml:"dataset_uri"`
	UseBlankNodes    bool   `yaml:"use_blank_nodes"`
	CacheSize        int    `yaml:"cache_size"`
	Workers          int    `yaml:"workers"`
	ProgressInterval int64  `yaml:"progress_interval"`
	Format           string `yaml:"format"`
	MetricsFile      string `yaml:"metrics_file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DatasetURI:       void.DefaultDatasetURI,
		CacheSize:        partition.DefaultCacheSize,
		Workers:          1,
		ProgressInterval: partition.DefaultProgressInterval,
		Format:           void.Turtle.String(),
	}
}

// LoadConfig reads a YAML config file over the defaults. Keys missing from
// the file keep their default values.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.ProgressInterval < 0 {
		return errors.New("progress_interval must not be negative")
	}
	if _, err := void.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

func (c *Config) analyzerOptions() partition.Options {
	return partition.Options{
		CacheSize:        c.CacheSize,
		Workers:          c.Workers,
		ProgressInterval: c.ProgressInterval,
	}
}

func (c *Config) voidOptions() void.Options {
	return void.Options{DatasetURI: c.DatasetURI, UseBlankNodes: c.UseBlankNodes}
}
