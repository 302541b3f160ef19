package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aluiziolira/go-extract-books/config"
	"github.com/aluiziolira/go-extract-books/pipeline"
	"github.com/aluiziolira/go-extract-books/scraper"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type options struct {
	input       string
	output      string
	format      string
	metricsFile string
	verbose     bool
}

// NewRootCommand builds the extractbooks command. Flags override EXTRACT_*
// environment variables, which override the built-in defaults.
func NewRootCommand() *cobra.Command {
	defaults := config.DefaultConfig()
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "extractbooks",
		Short:         "Extract book listings from a saved HTML page into a TypeScript data array.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			return Run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", defaults.InputFile, "HTML document to read")
	flags.StringVar(&opts.output, "output", defaults.OutputFile, "Output file path")
	flags.StringVar(&opts.format, "format", defaults.OutputFormat, "Output format: ts, json, csv, or dual")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}

func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputFile = o.input
	}
	if flags.Changed("output") {
		cfg.OutputFile = o.output
	}
	if flags.Changed("format") {
		cfg.OutputFormat = o.format
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
}

// ExecuteContext runs the root command and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

// Run validates cfg, extracts the input document and writes the output.
func Run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	slog.SetDefault(newLogger(cfg.Verbose, stderr))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Debug("starting extraction",
		slog.String("input", cfg.InputFile),
		slog.String("output", cfg.OutputFile),
		slog.String("format", cfg.OutputFormat),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}

	report, err := pipeline.NewPipeline(cfg, s, s.Metrics).Run(ctx)
	if err != nil {
		return err
	}

	printSummary(stdout, report)
	if cfg.OutputFormat == config.FormatTS {
		fmt.Fprintf(stdout, "TypeScript code written to %s\n", cfg.OutputFile)
	} else {
		fmt.Fprintf(stdout, "Output written to %s\n", strings.Join(report.OutputFiles, ", "))
	}
	return nil
}

func printSummary(w io.Writer, report *pipeline.Report) {
	result := report.Result

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Extraction complete")
	t.AppendRow(table.Row{"Listings", result.ListingCount})
	t.AppendRow(table.Row{"Records", len(result.Books)})
	t.AppendRow(table.Row{"Skipped", len(result.Failures)})
	for _, reason := range slices.Sorted(maps.Keys(result.ErrorsByType)) {
		t.AppendRow(table.Row{"  " + reason, result.ErrorsByType[reason]})
	}
	t.AppendRow(table.Row{"Duration", report.Duration.Round(time.Microsecond)})
	for _, f := range report.OutputFiles {
		t.AppendRow(table.Row{"Output", f})
	}
	if report.MetricsFile != "" {
		t.AppendRow(table.Row{"Metrics", report.MetricsFile})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
