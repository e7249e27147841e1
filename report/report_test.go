package report

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"strings"
	"testing"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/loader"
)

func passingResult() *fq.Result {
	r := fq.NewResult()
	r.Pass()
	r.Pass()
	return r
}

func failingResult() *fq.Result {
	r := fq.NewResult()
	r.Pass()
	r.Fail(fq.Error(fq.CategoryReference).Describe("dangling").For("Encounter", "e1").Build())
	r.Fail(fq.Warning(fq.CategoryInvalidFormat).Describe("bad plz").For("Patient", "p1").Build())
	return r
}

func sampleBundles() []BundleReport {
	return []BundleReport{
		{FileName: "good.json", Valid: true, BundleType: "transaction", EntryCount: 2, Quality: passingResult()},
		{FileName: "bad.json", Valid: true, BundleType: "transaction", EntryCount: 3, Quality: failingResult()},
		{FileName: "broken.json", Valid: false, Error: "Invalid JSON: unexpected end"},
	}
}

func TestSummarize(t *testing.T) {
	r := New(sampleBundles())
	s := r.Summary

	if s.TotalBundles != 3 {
		t.Errorf("TotalBundles = %d; want 3", s.TotalBundles)
	}
	if s.ValidBundles != 2 {
		t.Errorf("ValidBundles = %d; want 2", s.ValidBundles)
	}
	if s.Passed != 1 {
		t.Errorf("Passed = %d; want 1", s.Passed)
	}
	if s.PassRate != 50 {
		t.Errorf("PassRate = %v; want 50", s.PassRate)
	}
	// (100 + 33.33) / 2
	if math.Abs(s.AvgQualityScore-66.665) > 1e-9 {
		t.Errorf("AvgQualityScore = %v; want 66.665", s.AvgQualityScore)
	}
	if s.TotalIssues != 2 || s.TotalErrors != 1 || s.TotalWarnings != 1 {
		t.Errorf("issues = %d/%d/%d; want 2/1/1", s.TotalIssues, s.TotalErrors, s.TotalWarnings)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := New(nil).Summary
	if s.PassRate != 0 || s.AvgQualityScore != 0 {
		t.Errorf("empty summary: rate=%v avg=%v; want zeros", s.PassRate, s.AvgQualityScore)
	}
}

func TestWriteJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	if err := New(sampleBundles()).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"generated_at", "total_bundles", "summary", "bundles"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}

	bundles := doc["bundles"].([]any)
	if len(bundles) != 3 {
		t.Fatalf("bundles = %d; want 3", len(bundles))
	}

	first := bundles[0].(map[string]any)
	quality, ok := first["quality"].(map[string]any)
	if !ok {
		t.Fatal("bundle quality not serialized")
	}
	if quality["quality_score"] != 100.0 {
		t.Errorf("quality_score = %v; want 100", quality["quality_score"])
	}

	last := bundles[2].(map[string]any)
	if _, ok := last["quality"]; ok {
		t.Error("invalid bundle should have no quality block")
	}
	if last["error"] != "Invalid JSON: unexpected end" {
		t.Errorf("error = %v", last["error"])
	}
}

func TestNewBundleReport(t *testing.T) {
	parse := &loader.ParseResult{
		FileName:       "b.json",
		Valid:          true,
		BundleType:     "collection",
		EntryCount:     1,
		ResourceCounts: map[string]int{"Patient": 1},
		Modules:        []string{"modul-person"},
	}

	br := NewBundleReport(parse, passingResult())
	if br.FileName != "b.json" || br.BundleType != "collection" {
		t.Errorf("BundleReport = %+v", br)
	}
	if br.Quality == nil || !br.Quality.Passed() {
		t.Error("quality not attached")
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	New(sampleBundles()).RenderText(&buf)
	out := buf.String()

	for _, want := range []string{
		"Bundles: 3 (2 valid)",
		"Passed: 1 (50.0%)",
		"good.json",
		"invalid: Invalid JSON: unexpected end",
		"error: dangling (Encounter/e1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText missing %q:\n%s", want, out)
		}
	}
}

func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := New(sampleBundles()).SaveJSON(dir)
	if err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !json.Valid(data) {
		t.Error("saved report is not valid JSON")
	}
	if !strings.HasPrefix(strings.TrimPrefix(path, dir+"/"), "fhir_quality_report_") {
		t.Errorf("unexpected report name: %s", path)
	}
}
