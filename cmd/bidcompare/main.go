// Command bidcompare compares construction bids from the command line.
//
//	bidcompare [-o report.xlsx] [-v] [--csv DIR] [--pdf FILE] files...
//
// Files may be CSV, Excel or NS 3459 XML price documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bidcompare/internal/comparison"
	"bidcompare/internal/config"
	"bidcompare/internal/exporter"
	"bidcompare/internal/infrastructure"
	"bidcompare/internal/validation"
	"bidcompare/pkg/contracts/domain"
)

const ruleWidth = 80

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	output  string
	verbose bool
	csvDir  string
	pdfPath string
	files   []string
}

// parseArgs accepts flags before, between and after the file arguments
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	flags := flag.NewFlagSet("bidcompare", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.output, "o", "sammenligning.xlsx", "Excel report")
	flags.StringVar(&opts.output, "output", "sammenligning.xlsx", "Excel report")
	flags.BoolVar(&opts.verbose, "v", false, "show chapter breakdown")
	flags.BoolVar(&opts.verbose, "verbose", false, "show chapter breakdown")
	flags.StringVar(&opts.csvDir, "csv", "", "write CSV tables to this directory")
	flags.StringVar(&opts.pdfPath, "pdf", "", "write a PDF summary to this file")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Sammenlign anbudstilbud fra kommandolinjen")
		fmt.Fprintln(stderr, "\nBruk: bidcompare [-o rapport.xlsx] [-v] [--csv DIR] [--pdf FIL] tilbud...")
		flags.PrintDefaults()
	}

	for {
		if err := flags.Parse(args); err != nil {
			return nil, err
		}
		args = flags.Args()
		if len(args) == 0 {
			break
		}
		opts.files = append(opts.files, args[0])
		args = args[1:]
	}

	if len(opts.files) == 0 {
		flags.Usage()
		return nil, errors.New("no bid files given")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	cfg.Logging.Level = "warn"
	cfg.Logging.Output = "console"
	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		logger = slog.New(slog.NewJSONHandler(stderr, nil))
	}

	fmt.Fprintln(stdout, "Laster tilbud...")

	validator := validation.NewFileValidator(logger)
	var loadErrors []string
	docs := make([]comparison.Document, 0, len(opts.files))
	for _, path := range opts.files {
		if err := validator.ValidateBidFile(path); err != nil {
			if errors.Is(err, validation.ErrFileNotFound) {
				loadErrors = append(loadErrors, fmt.Sprintf("Filen finnes ikke: %s", path))
			} else {
				loadErrors = append(loadErrors, fmt.Sprintf("Kunne ikke lese %s: %v", filepath.Base(path), err))
			}
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("Kunne ikke lese %s: %v", filepath.Base(path), err))
			continue
		}
		base := filepath.Base(path)
		docs = append(docs, comparison.Document{
			Name:     path,
			NameHint: strings.TrimSuffix(base, filepath.Ext(base)),
			Data:     data,
		})
	}

	engine := comparison.NewEngine(logger, comparison.WithConcurrency(cfg.Compare.MaxConcurrency))

	var result *domain.ComparisonResult
	var batchErrs []string
	if len(docs) > 0 {
		result, err = engine.Compare(context.Background(), docs)
		var batchErr *comparison.BatchError
		switch {
		case errors.As(err, &batchErr):
			batchErrs = batchErr.Errors
		case err != nil:
			fmt.Fprintf(stderr, "bidcompare: %v\n", err)
			return 1
		default:
			batchErrs = result.Errors
		}
	}
	loadErrors = append(loadErrors, reportLoaded(stdout, docs, result, batchErrs)...)

	if result == nil || len(result.Bids) == 0 {
		fmt.Fprintln(stdout, "\n❌ Ingen gyldige tilbud ble lastet!")
		if len(loadErrors) > 0 {
			fmt.Fprintln(stdout, "\nFeil:")
			for _, e := range loadErrors {
				fmt.Fprintf(stdout, "  - %s\n", e)
			}
		}
		return 1
	}

	printSummary(stdout, result)
	if opts.verbose && len(result.Chapters.Rows) > 0 {
		printChapterSummary(stdout, result.Chapters)
	}

	if err := writeOutputs(stdout, opts, result, validator, logger); err != nil {
		fmt.Fprintf(stderr, "bidcompare: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout)
	return 0
}

// reportLoaded prints one line per parsed document. The engine keeps input
// order for both bids and errors, so the two lists are walked in step.
func reportLoaded(w io.Writer, docs []comparison.Document, result *domain.ComparisonResult, errs []string) []string {
	var bids []domain.BidDocument
	if result != nil {
		bids = result.Bids
	}

	var failures []string
	b, e := 0, 0
	for _, doc := range docs {
		base := filepath.Base(doc.Name)
		if b < len(bids) && bids[b].Filename == doc.Name {
			fmt.Fprintf(w, "  ✓ %s -> %s\n", base, bids[b].Provider)
			b++
			continue
		}
		msg := "unknown error"
		if e < len(errs) {
			msg = strings.ReplaceAll(errs[e], doc.Name, base)
			e++
		}
		fmt.Fprintf(w, "  ✗ %s: %s\n", base, msg)
		failures = append(failures, fmt.Sprintf("Kunne ikke lese %s: %s", base, msg))
	}
	return failures
}

func printSummary(w io.Writer, result *domain.ComparisonResult) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n%s\nOPPSUMMERING\n%s\n", rule, rule)

	summary := result.Summary
	fmt.Fprintf(w, "\nAntall tilbydere: %d\n", len(result.Bids))
	fmt.Fprintf(w, "Antall poster: %d\n", summary.PostCount)

	fmt.Fprintln(w, "\nTILBUD (eksklusive opsjoner):")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, t := range comparison.Ranked(summary.Totals) {
		option := ""
		if v, _ := summary.OptionTotals.Get(t.Provider); v > 0 {
			option = fmt.Sprintf(" (+ kr %s i opsjoner)", exporter.Amount(v))
		}
		fmt.Fprintf(w, "  %-40s  kr %15s%s\n", t.Provider, exporter.Amount(t.Amount), option)
	}

	if summary.Winner.Name != "" {
		fmt.Fprintf(w, "\n%-40s  kr %15s\n", "🏆 VINNER: "+summary.Winner.Name, exporter.Amount(summary.Winner.Total))
	} else {
		fmt.Fprintln(w, "\nIngen vinner: alle tilbud er like")
	}

	if len(result.Bids) >= comparison.ZScoreMinProviders {
		fmt.Fprintln(w, "\nZ-SCORE TOTALER (lavere = bedre):")
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		for _, z := range comparison.Ranked(comparison.ZScoreTotals(result.Matrix)) {
			fmt.Fprintf(w, "  %s %-38s  %8.2f\n", zIndicator(z.Amount), z.Provider, z.Amount)
		}
	}
}

func zIndicator(z float64) string {
	switch {
	case z < -1:
		return "✅"
	case z > 1:
		return "⚠️"
	default:
		return "  "
	}
}

func printChapterSummary(w io.Writer, rollup domain.ChapterRollup) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n%s\nKAPITTELOPPSUMMERING\n%s\n", rule, rule)

	for _, row := range rollup.Rows {
		fmt.Fprintf(w, "\nKapittel %s: %s\n", row.ChapterCode, row.ChapterTitle)
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))

		order := make([]int, len(row.Totals))
		winner, highest := 0, 0.0
		for p, v := range row.Totals {
			order[p] = p
			if v < row.Totals[winner] {
				winner = p
			}
			if v > highest {
				highest = v
			}
		}
		if highest <= 0 {
			continue
		}
		sort.SliceStable(order, func(i, j int) bool {
			return row.Totals[order[i]] < row.Totals[order[j]]
		})
		for _, p := range order {
			marker := "   "
			if p == winner {
				marker = "🏆 "
			}
			fmt.Fprintf(w, "  %s%-38s  kr %15s\n", marker, rollup.Providers[p], exporter.Amount(row.Totals[p]))
		}
	}
}

func writeOutputs(w io.Writer, opts *options, result *domain.ComparisonResult, validator *validation.FileValidator, logger *slog.Logger) error {
	if err := validator.ValidateOutputFile(opts.output); err != nil {
		return err
	}
	report, err := exporter.ReportWorkbook(result)
	if err != nil {
		return fmt.Errorf("failed to build Excel report: %w", err)
	}
	if err := os.WriteFile(opts.output, report, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	fmt.Fprintf(w, "\n✅ Excel-rapport lagret: %s\n", opts.output)

	if opts.csvDir != "" {
		if err := validator.ValidateOutputDirectory(opts.csvDir); err != nil {
			return err
		}
		paths, err := exporter.NewCSVWriter(opts.csvDir, logger).ExportResult(result)
		if err != nil {
			return fmt.Errorf("failed to write CSV tables: %w", err)
		}
		fmt.Fprintf(w, "✅ CSV-filer lagret i %s (%d filer)\n", opts.csvDir, len(paths))
	}

	if opts.pdfPath != "" {
		if err := validator.ValidateOutputFile(opts.pdfPath); err != nil {
			return err
		}
		f, err := os.Create(opts.pdfPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.pdfPath, err)
		}
		if err := exporter.WriteSummaryPDF(f, result); err != nil {
			f.Close()
			return fmt.Errorf("failed to write PDF summary: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ PDF-sammendrag lagret: %s\n", opts.pdfPath)
	}
	return nil
}
