// Package cli implements the one-shot audit command: scan a single target,
// print a colored summary and optionally export the report.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/report"
	"github.com/raysh454/siteaudit/internal/scanner"
)

// CLIArgs are the command-line arguments for a single audit run.
type CLIArgs struct {
	// Target is the URL (or bare host) to audit.
	Target string

	// Format selects the export format when Output is set: json or pdf.
	Format string

	// Output is the export file path; empty means summary-only.
	Output string

	// Timeout bounds the main page fetch.
	Timeout time.Duration

	// NoActive disables form submission and parameter fuzzing.
	NoActive bool

	// Debug enables verbose logging.
	Debug bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("auditcli", flag.ContinueOnError)
	var (
		target   = fs.String("target", "", "URL or host to audit (required)")
		format   = fs.String("format", "json", "Export format: json|pdf")
		output   = fs.String("o", "", "Write the full report to this file")
		timeout  = fs.Duration("timeout", 10*time.Second, "Main fetch timeout")
		noActive = fs.Bool("no-active", false, "Disable active probing (form and parameter fuzzing)")
		debug    = fs.Bool("debug", false, "Verbose logging")
	)

	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*target) == "" {
		return nil, fmt.Errorf("missing required -target argument")
	}
	if *format != "json" && *format != "pdf" {
		return nil, fmt.Errorf("unknown format %q (want json or pdf)", *format)
	}

	return &CLIArgs{
		Target:   *target,
		Format:   *format,
		Output:   *output,
		Timeout:  *timeout,
		NoActive: *noActive,
		Debug:    *debug,
		RawArgs:  args,
	}, nil
}

// Run executes one audit per the parsed args, printing to stdout.
func Run(ctx context.Context, args *CLIArgs) error {
	logger, err := logging.NewProduction("auditcli", args.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	cfg := scanner.DefaultConfig()
	cfg.FetchTimeout = args.Timeout
	cfg.AllowActiveProbing = !args.NoActive

	sc, err := scanner.New(cfg, logger)
	if err != nil {
		return err
	}
	defer sc.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("auditing "+args.Target),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	result, err := sc.Scan(ctx, args.Target)
	close(done)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, result)

	if args.Output != "" {
		if err := export(args.Output, args.Format, result); err != nil {
			return err
		}
		fmt.Printf("\nReport written to %s\n", args.Output)
	}
	return nil
}

func export(path, format string, result model.ScanResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case "pdf":
		return report.WritePDF(f, result)
	default:
		return report.WriteJSON(f, result)
	}
}

func printSummary(w io.Writer, result model.ScanResult) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Audit of %s (%s)\n\n", result.URL, result.Date.Format(time.RFC3339))

	printScore(w, "Security", result.Security.Score)
	printScore(w, "Performance", result.Performance.Score)
	printScore(w, "SEO", result.SEO.Score)
	printScore(w, "Accessibility", result.Accessibility.Score)

	issues := 0
	for _, cat := range []model.CategoryReport{result.Security, result.SEO, result.Accessibility} {
		issues += len(cat.Issues)
	}
	issues += len(result.Performance.Issues)

	fmt.Fprintln(w)
	if issues == 0 {
		color.New(color.FgGreen).Fprintln(w, "No issues found.")
	} else {
		color.New(color.FgRed).Fprintf(w, "%d issue(s) found:\n", issues)
		for _, cat := range []struct {
			name   string
			issues []string
		}{
			{"security", result.Security.Issues},
			{"performance", result.Performance.Issues},
			{"seo", result.SEO.Issues},
			{"accessibility", result.Accessibility.Issues},
		} {
			for _, issue := range cat.issues {
				fmt.Fprintf(w, "  [%s] %s\n", cat.name, issue)
			}
		}
	}

	if len(result.Recommendations) > 0 {
		bold.Fprintf(w, "\nRecommendations:\n")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, rec)
		}
	}
}

func printScore(w io.Writer, name string, score int) {
	c := color.New(color.FgGreen)
	switch {
	case score < 50:
		c = color.New(color.FgRed)
	case score < 80:
		c = color.New(color.FgYellow)
	}
	fmt.Fprintf(w, "  %-14s ", name)
	c.Fprintf(w, "%3d/100\n", score)
}
