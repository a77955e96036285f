package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rdfio/rdf2void/components"
	"github.com/rdfio/rdf2void/store/badgerstore"
)

func newIndexCmd(fs afero.Fs) *cobra.Command {
	var storeDir string
	cmd := &cobra.Command{
		Use:   "index --store DIR FILE...",
		Short: "Build a store from RDF files",
		Long: `Read Turtle (.ttl) and N-Triples (.nt) files and write them, dictionary
encoded, into a store directory that "rdf2void analyze" can read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, fs, storeDir, args)
		},
	}
	cmd.Flags().StringVar(&storeDir, "store", "", "Store directory to create")
	cmd.MarkFlagRequired("store")
	return cmd
}

func runIndex(cmd *cobra.Command, fs afero.Fs, storeDir string, files []string) (err error) {
	out := cmd.OutOrStdout()
	if err := storeOnOsFs(fs, storeDir); err != nil {
		return err
	}
	if fi, statErr := fs.Stat(storeDir); statErr == nil {
		if !fi.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", storeDir)
		}
		entries, err := afero.ReadDir(fs, storeDir)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return fmt.Errorf("store directory %s is not empty", storeDir)
		}
	}

	db, err := badgerstore.OpenDB(badgerstore.DefaultConfig(storeDir))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	start := time.Now()
	fmt.Fprintf(out, "Indexing %d files into %s\n", len(files), storeDir)
	if err := components.IndexFiles(cmd.Context(), fs, db, files...); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	st, err := badgerstore.New(db)
	if err != nil {
		return err
	}
	stats := st.Stats()
	fmt.Fprintf(out, "Indexed %s triples (%s subjects, %s predicates, %s objects) in %s  [RSS: %s]\n",
		humanize.Comma(stats.Triples), humanize.Comma(stats.Subjects),
		humanize.Comma(stats.Predicates), humanize.Comma(stats.Objects),
		time.Since(start).Round(time.Millisecond), rss())
	return nil
}
