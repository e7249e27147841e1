// Package report aggregates evaluation results across bundles into a
// machine-readable report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/loader"
)

// BundleReport holds the outcome for one bundle document.
type BundleReport struct {
	FileName      string         `json:"file_name"`
	Valid         bool           `json:"valid"`
	BundleType    string         `json:"bundle_type,omitempty"`
	EntryCount    int            `json:"entry_count"`
	ResourceTypes map[string]int `json:"resource_types"`
	Modules       []string       `json:"mii_modules"`
	Quality       *fq.Result     `json:"quality,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// NewBundleReport combines a parse result with its evaluation outcome.
// quality may be nil when the document never reached the engine.
func NewBundleReport(parse *loader.ParseResult, quality *fq.Result) BundleReport {
	return BundleReport{
		FileName:      parse.FileName,
		Valid:         parse.Valid,
		BundleType:    parse.BundleType,
		EntryCount:    parse.EntryCount,
		ResourceTypes: parse.ResourceCounts,
		Modules:       parse.Modules,
		Quality:       quality,
		Error:         parse.Error,
	}
}

// Summary holds aggregate statistics over all bundles in a report.
type Summary struct {
	TotalBundles    int     `json:"total_bundles"`
	ValidBundles    int     `json:"valid_bundles"`
	Passed          int     `json:"passed"`
	PassRate        float64 `json:"pass_rate"`
	AvgQualityScore float64 `json:"avg_quality_score"`
	TotalIssues     int     `json:"total_issues"`
	TotalErrors     int     `json:"total_errors"`
	TotalWarnings   int     `json:"total_warnings"`
}

// Report is the aggregate over a batch of evaluated bundles.
type Report struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	TotalBundles int            `json:"total_bundles"`
	Summary      Summary        `json:"summary"`
	Bundles      []BundleReport `json:"bundles"`
}

// New builds a report over the given bundle outcomes and computes the
// summary statistics.
func New(bundles []BundleReport) *Report {
	return &Report{
		GeneratedAt:  time.Now(),
		TotalBundles: len(bundles),
		Summary:      summarize(bundles),
		Bundles:      bundles,
	}
}

// summarize computes the aggregate statistics. The pass rate is taken
// over valid bundles only; invalid documents never reach the engine and
// would otherwise drag the rate for reasons the score already reports.
func summarize(bundles []BundleReport) Summary {
	s := Summary{TotalBundles: len(bundles)}

	var scoreSum float64
	var scored int
	for _, b := range bundles {
		if b.Valid {
			s.ValidBundles++
		}
		if b.Quality == nil {
			continue
		}
		scored++
		scoreSum += b.Quality.Score()
		if b.Quality.Passed() {
			s.Passed++
		}
		s.TotalIssues += b.Quality.TotalIssues()
		s.TotalErrors += b.Quality.ErrorCount()
		s.TotalWarnings += b.Quality.WarningCount()
	}

	if s.ValidBundles > 0 {
		s.PassRate = float64(s.Passed) / float64(s.ValidBundles) * 100
	}
	if scored > 0 {
		s.AvgQualityScore = scoreSum / float64(scored)
	}

	return s
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// SaveJSON writes the report into dir as a timestamped file and returns
// its path.
func (r *Report) SaveJSON(dir string) (string, error) {
	name := fmt.Sprintf("fhir_quality_report_%s.json", r.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := r.WriteJSON(f); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// RenderText writes a human-readable rendering of the report.
func (r *Report) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Bundles: %d (%d valid)\n", r.Summary.TotalBundles, r.Summary.ValidBundles)
	fmt.Fprintf(w, "Passed: %d (%.1f%%)\n", r.Summary.Passed, r.Summary.PassRate)
	fmt.Fprintf(w, "Average quality score: %.1f\n", r.Summary.AvgQualityScore)
	fmt.Fprintf(w, "Issues: %d (%d errors, %d warnings)\n",
		r.Summary.TotalIssues, r.Summary.TotalErrors, r.Summary.TotalWarnings)

	for _, b := range r.Bundles {
		fmt.Fprintf(w, "\n%s\n", b.FileName)
		if !b.Valid {
			fmt.Fprintf(w, "  invalid: %s\n", b.Error)
			continue
		}
		if b.Quality == nil {
			fmt.Fprintln(w, "  not evaluated")
			continue
		}
		for _, line := range b.Quality.Render() {
			fmt.Fprintf(w, "  %s\n", line)
		}
		if len(b.Modules) > 0 {
			fmt.Fprintf(w, "  Modules: %s\n", strings.Join(b.Modules, ", "))
		}
	}
}
