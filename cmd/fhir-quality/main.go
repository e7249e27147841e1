// Package main implements the fhir-quality CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/engine"
	"github.com/gofhir/quality/loader"
	"github.com/gofhir/quality/pkg/logger"
	"github.com/gofhir/quality/report"
)

const usage = `fhir-quality - Kerndatensatz bundle quality checker

Usage:
  fhir-quality [options] <file>...
  fhir-quality [options] -           (read from stdin)
  cat bundle.json | fhir-quality -   (pipe input)

Examples:
  fhir-quality bundle.json
  fhir-quality -output json bundles/*.json
  fhir-quality -no-references -no-terminology bundle.json
  fhir-quality -report out/ bundles/*.json
  cat bundle.json | fhir-quality -

Options:
`

// Config holds CLI configuration.
type Config struct {
	Output        string
	ReportDir     string
	NoProfiles    bool
	NoReferences  bool
	NoTerminology bool
	Workers       int
	Quiet         bool
	Verbose       bool
	ShowVersion   bool
	Help          bool
	Files         []string
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("fhir-quality v%s\n", fq.Version)
		os.Exit(0)
	}

	if config.Help || len(config.Files) == 0 {
		flag.Usage()
		os.Exit(0)
	}

	os.Exit(run(config))
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.Output, "output", "text", "Output format: text, json")
	flag.StringVar(&config.ReportDir, "report", "", "Directory to write a timestamped JSON report into")
	flag.BoolVar(&config.NoProfiles, "no-profiles", false, "Disable MII profile checks")
	flag.BoolVar(&config.NoReferences, "no-references", false, "Disable reference resolution checks")
	flag.BoolVar(&config.NoTerminology, "no-terminology", false, "Disable ICD-10-GM terminology checks")
	flag.IntVar(&config.Workers, "workers", 0, "Worker count for batch evaluation (0 = default)")
	flag.BoolVar(&config.Quiet, "quiet", false, "Suppress progress output")
	flag.BoolVar(&config.Verbose, "verbose", false, "Show debug output")
	flag.BoolVar(&config.ShowVersion, "v", false, "Show version")
	flag.BoolVar(&config.Help, "help", false, "Show help")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	config.Files = flag.Args()

	if config.Verbose {
		logger.SetLevel(logger.LevelDebug)
	} else if config.Quiet {
		logger.SetLevel(logger.LevelError)
	}

	return config
}

func run(config *Config) int {
	opts := []fq.Option{
		fq.WithProfileChecks(!config.NoProfiles),
		fq.WithReferenceChecks(!config.NoReferences),
		fq.WithTerminologyChecks(!config.NoTerminology),
	}
	if config.Workers > 0 {
		opts = append(opts, fq.WithWorkerCount(config.Workers))
	}

	eng := engine.New(opts...)
	ctx := context.Background()

	bundles := make([]report.BundleReport, 0, len(config.Files))
	readFailed := false

	for _, file := range config.Files {
		if file == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				readFailed = true
				continue
			}
			parsed := loader.Load(data)
			parsed.FileName = "stdin"
			bundles = append(bundles, evaluate(ctx, eng, parsed))
			continue
		}

		matches, globErr := filepath.Glob(file)
		if globErr != nil {
			fmt.Fprintf(os.Stderr, "Error with pattern '%s': %v\n", file, globErr)
			readFailed = true
			continue
		}
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "No files match pattern: %s\n", file)
			readFailed = true
			continue
		}

		for _, match := range matches {
			bundles = append(bundles, evaluate(ctx, eng, loader.LoadFile(match)))
		}
	}

	rep := report.New(bundles)

	switch strings.ToLower(config.Output) {
	case "json":
		if err := rep.WriteJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return 1
		}
	default:
		rep.RenderText(os.Stdout)
	}

	if config.ReportDir != "" {
		path, err := rep.SaveJSON(config.ReportDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving report: %v\n", err)
			return 1
		}
		if !config.Quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
		}
	}

	if readFailed || rep.Summary.Passed < rep.Summary.ValidBundles || rep.Summary.ValidBundles < rep.Summary.TotalBundles {
		return 1
	}
	return 0
}

// evaluate runs a parsed bundle through the engine. Documents that
// failed to parse carry their error into the report unevaluated.
func evaluate(ctx context.Context, eng *engine.Engine, parsed *loader.ParseResult) report.BundleReport {
	if !parsed.Valid {
		return report.NewBundleReport(parsed, nil)
	}

	for _, structural := range parsed.StructureIssues() {
		logger.Debug("%s: %s", parsed.FileName, structural)
	}

	result, err := eng.EvaluateRecords(ctx, parsed.Records)
	if err != nil {
		parsed.Valid = false
		parsed.Error = fmt.Sprintf("Evaluation aborted: %v", err)
		return report.NewBundleReport(parsed, nil)
	}

	return report.NewBundleReport(parsed, result)
}
