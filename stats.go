package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newStatsCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "stats INPUT",
		Short: "Print dataset statistics",
		Long:  `Print the triple and distinct term counts of a store directory or RDF file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openInput(fs, args[0])
			if err != nil {
				return err
			}
			defer closeStore()

			stats := st.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Triples:             %s\n", humanize.Comma(stats.Triples))
			fmt.Fprintf(out, "Distinct subjects:   %s\n", humanize.Comma(stats.Subjects))
			fmt.Fprintf(out, "Distinct predicates: %s\n", humanize.Comma(stats.Predicates))
			fmt.Fprintf(out, "Distinct objects:    %s\n", humanize.Comma(stats.Objects))
			fmt.Fprintf(out, "Shared terms:        %s\n", humanize.Comma(stats.Shared))
			return nil
		},
	}
}
