package components

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/flowbase/flowbase"
	"github.com/spf13/afero"

	"github.com/rdfio/rdf2void/store/dictionary"
)

// LoadDataset reads and encodes the RDF files in memory.
func LoadDataset(fs afero.Fs, files ...string) (*dictionary.Dataset, error) {
	reader := NewTripleFileReader(fs)
	encoder := NewDatasetEncoder()
	encoder.In = reader.OutTriple

	go func() {
		defer close(reader.InFileName)
		for _, f := range files {
			reader.InFileName <- f
		}
	}()
	go reader.Run()
	go encoder.Run()

	ds := <-encoder.Out
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

// IndexFiles reads the RDF files and writes them as one dataset into db.
func IndexFiles(ctx context.Context, fs afero.Fs, db *badger.DB, files ...string) error {
	if len(files) == 0 {
		return errors.New("no input files")
	}
	pipeline := flowbase.NewNet()

	reader := NewTripleFileReader(fs)
	pipeline.AddProcess(reader)

	encoder := NewDatasetEncoder()
	pipeline.AddProcess(encoder)

	writer := NewStoreWriter(ctx, db)
	pipeline.AddProcess(writer)

	encoder.In = reader.OutTriple
	writer.In = encoder.Out

	go func() {
		defer close(reader.InFileName)
		for _, f := range files {
			reader.InFileName <- f
		}
	}()

	pipeline.Run()

	if err := reader.Err(); err != nil {
		return err
	}
	return writer.Err()
}
