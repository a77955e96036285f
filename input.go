package main

import (
	"fmt"

	"github.com/flowbase/flowbase"
	"github.com/spf13/afero"

	"github.com/rdfio/rdf2void/components"
	"github.com/rdfio/rdf2void/store"
	"github.com/rdfio/rdf2void/store/badgerstore"
	"github.com/rdfio/rdf2void/store/memstore"
)

// openInput opens a store directory written by the index command, or reads
// an RDF file into an in-memory store. The returned function releases the
// store.
func openInput(fs afero.Fs, path string) (store.Store, func() error, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	if fi.IsDir() {
		if err := storeOnOsFs(fs, path); err != nil {
			return nil, nil, err
		}
		cfg := badgerstore.DefaultConfig(path)
		cfg.ReadOnly = true
		st, err := badgerstore.Open(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open store %s: %w", path, err)
		}
		return st, st.Close, nil
	}

	flowbase.Debug.Printf("Loading %s into memory\n", path)
	ds, err := components.LoadDataset(fs, path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return memstore.New(ds), func() error { return nil }, nil
}

// storeOnOsFs fails unless fs is the OS file system. Store directories are
// opened by badger, which only reads and writes OS paths.
func storeOnOsFs(fs afero.Fs, path string) error {
	if _, ok := fs.(*afero.OsFs); !ok {
		return fmt.Errorf("store %s: store directories are only supported on the OS file system", path)
	}
	return nil
}
