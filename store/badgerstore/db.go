// Package badgerstore persists encoded datasets in BadgerDB and serves them
// as a store.Store.
//
// Key layout, all IDs as 8 byte big-endian integers:
//
//	m                     stats record
//	t <s> <p> <o>         SPO index, subject-major
//	x <p> <s> <o>         PSO index, used for predicate-bound patterns
//	c <p>                 number of triples with predicate p
//	d <role> <term key>   term key -> ID
//	e <role> <id>         ID -> encoded term
package badgerstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/flowbase/flowbase"
)

// Config holds configuration for a store database.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in memory. Useful for testing.
	InMemory bool

	// SyncWrites makes every write durable before it returns.
	SyncWrites bool

	// ReadOnly opens an existing store without write access.
	ReadOnly bool

	// Quiet disables BadgerDB's own logging.
	Quiet bool
}

// DefaultConfig returns the configuration used for stores on disk.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: false,
	}
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
		Quiet:    true,
	}
}

// flowbaseLogger adapts the flowbase loggers to badger.Logger. Badger is
// chatty at info level, so info goes to debug.
type flowbaseLogger struct{}

func (flowbaseLogger) Errorf(format string, args ...interface{}) {
	flowbase.Warning.Printf("badger: "+format, args...)
}

func (flowbaseLogger) Warningf(format string, args ...interface{}) {
	flowbase.Warning.Printf("badger: "+format, args...)
}

func (flowbaseLogger) Infof(format string, args ...interface{}) {
	flowbase.Debug.Printf("badger: "+format, args...)
}

func (flowbaseLogger) Debugf(format string, args ...interface{}) {
	flowbase.Debug.Printf("badger: "+format, args...)
}

// OpenDB opens the BadgerDB backing a store.
func OpenDB(cfg Config) (*badger.DB, error) {
	if !flowbase.LogExists {
		flowbase.InitLogWarning()
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if !cfg.ReadOnly {
			if err := os.MkdirAll(cfg.Path, 0750); err != nil {
				return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
			}
		}
		opts = badger.DefaultOptions(cfg.Path).WithReadOnly(cfg.ReadOnly)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Quiet {
		opts = opts.WithLogger(nil)
	} else {
		opts = opts.WithLogger(flowbaseLogger{})
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}
