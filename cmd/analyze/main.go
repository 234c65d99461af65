package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"profitpilot/internal/app"
	"profitpilot/internal/config"
	"profitpilot/internal/dataprocessing"
	"profitpilot/internal/exporter"
	"profitpilot/internal/files"
	"profitpilot/internal/infrastructure"
	"profitpilot/internal/report"
	handlers "profitpilot/internal/transport/http"
)

// options holds the parsed command line.
type options struct {
	ordersPath  string
	costsPath   string
	dir         string
	sheetID     string
	ordersRange string
	costsRange  string
	credentials string
	strategy    string
	configFile  string
	exportDir   string
	prefix      string
	bom         bool
	xlsxPath    string
	jsonOut     bool
	logLevel    string
}

var errNoSources = errors.New("no input given: pass -orders/-costs files, -dir or -sheet with -orders-range/-costs-range")

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.ordersPath, "orders", "", "orders export (.csv or .xlsx)")
	fs.StringVar(&opts.costsPath, "costs", "", "costs export (.csv or .xlsx)")
	fs.StringVar(&opts.dir, "dir", "", "pick the newest orders and costs exports from this directory")
	fs.StringVar(&opts.sheetID, "sheet", "", "Google Sheets spreadsheet ID")
	fs.StringVar(&opts.ordersRange, "orders-range", "", "A1 range holding orders, e.g. Orders!A:Z")
	fs.StringVar(&opts.costsRange, "costs-range", "", "A1 range holding costs")
	fs.StringVar(&opts.credentials, "credentials", "", "service account file for Sheets (defaults to config)")
	fs.StringVar(&opts.strategy, "strategy", "", "category strategy: materials, keyword or remote")
	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to config.yaml lookup)")
	fs.StringVar(&opts.exportDir, "export", "", "write one CSV per table into this directory")
	fs.StringVar(&opts.prefix, "prefix", "profitpilot", "file name prefix for -export")
	fs.BoolVar(&opts.bom, "bom", true, "start exported CSV files with a UTF-8 BOM")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the workbook to this path")
	fs.BoolVar(&opts.jsonOut, "json", false, "print the analysis as JSON instead of text")
	fs.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.ordersPath != "" && opts.ordersRange != "" {
		return opts, errors.New("orders: use either -orders or -orders-range")
	}
	if opts.costsPath != "" && opts.costsRange != "" {
		return opts, errors.New("costs: use either -costs or -costs-range")
	}
	if (opts.ordersRange != "" || opts.costsRange != "") && opts.sheetID == "" {
		return opts, errors.New("-orders-range and -costs-range need -sheet")
	}
	if opts.ordersPath == "" && opts.costsPath == "" && opts.dir == "" && opts.ordersRange == "" && opts.costsRange == "" {
		return opts, errNoSources
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// run executes one analysis. Results go to stdout, logs to stderr.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := infrastructure.NewLogger(stderr, level)

	otelCfg := infrastructure.OTelConfigFromTelemetry(cfg.Telemetry)
	otelCfg.MetricExporter = "none"
	if opts.jsonOut {
		// stdout carries the JSON document
		otelCfg.TraceExporter = "none"
	}
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pipeline, err := app.NewPipeline(ctx, cfg, providers, nil, logger)
	if err != nil {
		return err
	}

	if err := resolveLocalFiles(&opts, cfg, logger); err != nil {
		return err
	}

	orders, costs, err := buildSources(ctx, opts, cfg, logger)
	if err != nil {
		return err
	}

	rep, err := pipeline.Analysis.Analyze(ctx, orders, costs, opts.strategy)
	if err != nil {
		return err
	}

	if opts.exportDir != "" {
		paths, err := exporter.NewReportExporter(opts.exportDir, opts.bom, logger).ExportCSV(*rep, opts.prefix)
		if err != nil {
			return err
		}
		logger.Info("CSV export complete", slog.Int("files", len(paths)), slog.String("dir", opts.exportDir))
	}

	if opts.xlsxPath != "" {
		if err := writeWorkbookFile(opts.xlsxPath, *rep); err != nil {
			return err
		}
		logger.Info("Workbook written", slog.String("path", opts.xlsxPath))
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(handlers.NewAnalysisResponse(rep))
	}
	return printReport(stdout, *rep)
}

// resolveLocalFiles fills missing paths from -dir and checks every local
// input and the export directory before any reading starts.
func resolveLocalFiles(opts *options, cfg *config.Config, logger *slog.Logger) error {
	if opts.dir != "" {
		found, err := files.NewDiscovery("", logger).DiscoverSources(opts.dir)
		if err != nil {
			return err
		}
		if opts.ordersPath == "" && opts.ordersRange == "" {
			opts.ordersPath = found.Orders
		}
		if opts.costsPath == "" && opts.costsRange == "" {
			opts.costsPath = found.Costs
		}
	}

	v := files.NewValidator(logger, cfg.Server.MaxUploadBytes)
	for _, path := range []string{opts.ordersPath, opts.costsPath} {
		if path == "" {
			continue
		}
		if err := v.ValidateInputFile(path); err != nil {
			return err
		}
	}
	if opts.exportDir != "" {
		if err := v.ValidateOutputDirectory(opts.exportDir); err != nil {
			return err
		}
	}
	return nil
}

// buildSources turns the flags into source readers. Sources not asked for
// stay nil.
func buildSources(ctx context.Context, opts options, cfg *config.Config, logger *slog.Logger) (orders, costs dataprocessing.SourceReader, err error) {
	if opts.ordersPath != "" {
		orders = dataprocessing.PathInput{Path: opts.ordersPath}
	}
	if opts.costsPath != "" {
		costs = dataprocessing.PathInput{Path: opts.costsPath}
	}
	if opts.ordersRange == "" && opts.costsRange == "" {
		return orders, costs, nil
	}

	credentials := opts.credentials
	if credentials == "" {
		credentials = cfg.Sources.SheetsCredentialsFile
	}
	client, err := dataprocessing.NewSheetsClient(ctx, credentials, logger)
	if err != nil {
		return nil, nil, err
	}
	if opts.ordersRange != "" {
		orders = dataprocessing.SheetInput{Client: client, SpreadsheetID: opts.sheetID, Range: opts.ordersRange}
	}
	if opts.costsRange != "" {
		costs = dataprocessing.SheetInput{Client: client, SpreadsheetID: opts.sheetID, Range: opts.costsRange}
	}
	return orders, costs, nil
}

func writeWorkbookFile(path string, rep report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := exporter.WriteWorkbook(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printReport writes the human readable summary.
func printReport(w io.Writer, rep report.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ProfitPilot analysis %s (strategy: %s)\n", rep.RunID, rep.Strategy)
	for _, src := range rep.Sources {
		fmt.Fprintf(tw, "  %s\t%s\t%d rows\t%d dropped\n", src.Source, src.Name, src.Rows, src.Dropped)
	}

	for _, t := range []exporter.Table{
		exporter.SummaryTable(rep),
		exporter.MonthlyTable(rep),
		exporter.CategoriesTable(rep),
	} {
		if len(t.Rows) == 0 {
			continue
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
		for _, row := range t.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b := rep.Insights
	fmt.Fprintf(w, "\nInsights (%s)\n", b.Origin)
	if b.Warning != "" {
		fmt.Fprintf(w, "  ! %s\n", b.Warning)
	}
	for _, sec := range []struct {
		title string
		lines []string
	}{
		{"Performance", b.Performance},
		{"Optimization", b.Optimization},
		{"Categories", b.Categories},
		{"Projections", b.Projections},
	} {
		if len(sec.lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", sec.title)
		for _, line := range sec.lines {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	for _, warning := range rep.Warnings {
		fmt.Fprintf(w, "\nwarning: %s\n", warning)
	}
	sources := make([]string, 0, len(rep.SourceErrors))
	for source := range rep.SourceErrors {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		fmt.Fprintf(w, "error reading %s: %s\n", source, rep.SourceErrors[source])
	}
	return nil
}
