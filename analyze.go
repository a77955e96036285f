package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rdfio/rdf2void/partition"
	"github.com/rdfio/rdf2void/void"
)

type analyzeFlags struct {
	output      string
	configFile  string
	datasetURI  string
	blankNodes  bool
	cacheSize   int
	workers     int
	format      string
	metricsFile string
}

func newAnalyzeCmd(fs afero.Fs) *cobra.Command {
	var f analyzeFlags
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "analyze INPUT",
		Short: "Generate a VOID description",
		Long: `Analyze a dataset and write its VOID description.

INPUT is a store directory written by "rdf2void index", or a Turtle (.ttl) or
N-Triples (.nt) file, which is loaded into memory first.

Examples:
  rdf2void analyze data.store -o void.ttl
  rdf2void analyze data.nt -o void.nt --format ntriples --dataset-uri http://example.com/ds`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd, fs)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, fs, cfg, args[0], f.output)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output file for the VOID description")
	flags.StringVar(&f.configFile, "config", "", "YAML config file")
	flags.StringVar(&f.datasetURI, "dataset-uri", defaults.DatasetURI, "URI of the described dataset")
	flags.BoolVar(&f.blankNodes, "use-blank-nodes", defaults.UseBlankNodes, "Use blank nodes for partition nodes instead of URIs")
	flags.IntVar(&f.cacheSize, "cache-size", defaults.CacheSize, "Max entries in the object type cache (trades memory for speed)")
	flags.IntVar(&f.workers, "workers", defaults.Workers, "Workers for the second pass")
	flags.StringVar(&f.format, "format", defaults.Format, "Output format: turtle or ntriples")
	flags.StringVar(&f.metricsFile, "metrics-file", defaults.MetricsFile, "Write prometheus metrics of the run to this file")
	cmd.MarkFlagRequired("output")
	return cmd
}

// config merges the config file, if any, with the flags set on the command
// line.
func (f *analyzeFlags) config(cmd *cobra.Command, fs afero.Fs) (*Config, error) {
	cfg := DefaultConfig()
	if f.configFile != "" {
		var err error
		if cfg, err = LoadConfig(fs, f.configFile); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("dataset-uri") {
		cfg.DatasetURI = f.datasetURI
	}
	if flags.Changed("use-blank-nodes") {
		cfg.UseBlankNodes = f.blankNodes
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = f.cacheSize
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func rss() string { return humanize.IBytes(peakRSS()) }

func runAnalyze(cmd *cobra.Command, fs afero.Fs, cfg *Config, input, output string) error {
	out := cmd.OutOrStdout()
	format, err := void.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	gen, err := void.NewGenerator(cfg.voidOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Processing %s\n", input)
	st, closeStore, err := openInput(fs, input)
	if err != nil {
		return err
	}
	defer closeStore()

	stats := st.Stats()
	fmt.Fprintln(out, "Dataset statistics:")
	fmt.Fprintf(out, "  Triples: %s\n", humanize.Comma(stats.Triples))
	fmt.Fprintf(out, "  Distinct subjects: %s\n", humanize.Comma(stats.Subjects))
	fmt.Fprintf(out, "  Distinct predicates: %s\n", humanize.Comma(stats.Predicates))
	fmt.Fprintf(out, "  Distinct objects: %s\n", humanize.Comma(stats.Objects))
	fmt.Fprintf(out, "Peak RSS before analysis: %s\n", rss())

	reg := prometheus.NewRegistry()
	opts := cfg.analyzerOptions()
	opts.Metrics = partition.NewMetrics(reg)
	var mu sync.Mutex
	opts.Progress = func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "%s  [RSS: %s]\n", msg, rss())
	}

	start := time.Now()
	analyzer := partition.NewAnalyzer(st, opts)
	parts, err := analyzer.Analyze(cmd.Context())
	if err != nil {
		return fmt.Errorf("analyze %s: %w", input, err)
	}
	report := analyzer.Report()
	fmt.Fprintf(out, "Found %d classes in %s (%s type searches, %s cache hits, %s lookups skipped)\n",
		parts.NumClasses(), time.Since(start).Round(time.Millisecond),
		humanize.Comma(report.TypeSearches), humanize.Comma(report.CacheHits),
		humanize.Comma(report.LookupsSkipped))

	fmt.Fprintln(out, "Generating VOID description...")
	gen.AddDatasetStatistics(stats)
	if err := gen.AddDatasetPropertyPartitions(parts); err != nil {
		return err
	}
	if err := gen.AddClassPartitions(parts); err != nil {
		return err
	}

	fmt.Fprintf(out, "Writing %s triples to %s\n", humanize.Comma(int64(len(gen.Triples()))), output)
	if err := writeDescription(fs, output, gen, format); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := writeMetrics(fs, cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	fmt.Fprintln(out, "Done!")
	return nil
}

func writeDescription(fs afero.Fs, path string, gen *void.Generator, format void.Format) (err error) {
	fh, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()
	if err := gen.Encode(fh, format); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// writeMetrics writes the gathered metrics in the text exposition format.
func writeMetrics(fs afero.Fs, path string, g prometheus.Gatherer) (err error) {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	fh, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(fh, mf); err != nil {
			return err
		}
	}
	return nil
}
