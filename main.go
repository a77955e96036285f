// rdf2void describes RDF datasets with the VOID vocabulary: dataset
// statistics, class partitions, property partitions and object class
// partitions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowbase/flowbase"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "rdf2void",
		Short: "Generate VOID descriptions of RDF datasets",
		Long: `rdf2void describes an RDF dataset with the VOID vocabulary: dataset
statistics, one partition per class with its property partitions, and the
classes of the objects of each property.

Large datasets are indexed once into a store directory with "index" and then
analyzed from the store. Small RDF files can be analyzed directly.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				flowbase.InitLogDebug()
			} else {
				flowbase.InitLogInfo()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output")

	rootCmd.AddCommand(
		newAnalyzeCmd(fs),
		newIndexCmd(fs),
		newStatsCmd(fs),
	)
	return rootCmd
}
