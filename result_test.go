package fhirquality

import (
	"encoding/json"
	"testing"
)

func TestResult_Accumulator(t *testing.T) {
	r := NewResult()
	r.Pass()
	r.Pass()
	r.Fail(Error(CategoryMissingData).Describe("missing").For("Patient", "p1").Build())

	if got := r.ChecksPerformed(); got != 3 {
		t.Errorf("ChecksPerformed() = %d; want 3", got)
	}
	if got := r.ChecksPassed(); got != 2 {
		t.Errorf("ChecksPassed() = %d; want 2", got)
	}
	if got := r.TotalIssues(); got != 1 {
		t.Errorf("TotalIssues() = %d; want 1", got)
	}
	if got := r.Score(); got != 66.67 {
		t.Errorf("Score() = %v; want 66.67", got)
	}
}

func TestResult_PassedVerdict(t *testing.T) {
	r := NewResult()
	if !r.Passed() {
		t.Error("empty result should pass vacuously")
	}

	r.Fail(Warning(CategoryTerminology).Describe("odd code").Build())
	r.Fail(Info(CategoryTerminology).Describe("no version").Build())
	if !r.Passed() {
		t.Error("warnings and infos must not fail the verdict")
	}

	r.Fail(Error(CategoryReference).Describe("broken ref").Build())
	if r.Passed() {
		t.Error("an error issue must fail the verdict")
	}
}

func TestResult_SeverityCounts(t *testing.T) {
	r := NewResult()
	r.Fail(Error(CategoryMissingData).Build())
	r.Fail(Error(CategoryReference).Build())
	r.Fail(Warning(CategoryInvalidFormat).Build())
	r.Fail(Info(CategoryTerminology).Build())

	if got := r.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount() = %d; want 2", got)
	}
	if got := r.WarningCount(); got != 1 {
		t.Errorf("WarningCount() = %d; want 1", got)
	}
	if got := r.InfoCount(); got != 1 {
		t.Errorf("InfoCount() = %d; want 1", got)
	}
}

func TestResult_IssueOrderPreserved(t *testing.T) {
	r := NewResult()
	r.Fail(Error(CategoryMissingData).Describe("first").Build())
	r.Fail(Warning(CategoryInvalidFormat).Describe("second").Build())
	r.Fail(Info(CategoryTerminology).Describe("third").Build())

	issues := r.Issues()
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if issues[i].Description != w {
			t.Errorf("issues[%d].Description = %q; want %q", i, issues[i].Description, w)
		}
	}
}

func TestResult_ResetClearsState(t *testing.T) {
	r := NewResult()
	r.Pass()
	r.Fail(Error(CategoryMissingData).Build())

	r.Reset()
	if r.ChecksPerformed() != 0 || r.ChecksPassed() != 0 || r.TotalIssues() != 0 {
		t.Errorf("after Reset: performed=%d passed=%d issues=%d; want all zero",
			r.ChecksPerformed(), r.ChecksPassed(), r.TotalIssues())
	}
	if r.Score() != 0.0 {
		t.Errorf("after Reset: Score() = %v; want 0.0", r.Score())
	}
}

func TestAcquireResult_StartsClean(t *testing.T) {
	r := AcquireResult()
	r.Pass()
	r.Fail(Error(CategoryMissingData).Build())
	r.Release()

	r2 := AcquireResult()
	defer r2.Release()
	if r2.ChecksPerformed() != 0 || r2.TotalIssues() != 0 {
		t.Errorf("pooled result not reset: performed=%d issues=%d",
			r2.ChecksPerformed(), r2.TotalIssues())
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	r := NewResult()
	r.Pass()
	r.Fail(Error(CategoryReference).
		Describe("Encounter references non-existent Patient: Patient/ghost").
		For("Encounter", "enc-1").
		Build())

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	wantKeys := []string{
		"quality_score", "checks_performed", "checks_passed", "total_issues",
		"errors", "warnings", "infos", "issues", "passed",
	}
	for _, key := range wantKeys {
		if _, ok := doc[key]; !ok {
			t.Errorf("serialized result missing key %q", key)
		}
	}

	if doc["quality_score"] != 50.0 {
		t.Errorf("quality_score = %v; want 50", doc["quality_score"])
	}
	if doc["passed"] != false {
		t.Errorf("passed = %v; want false", doc["passed"])
	}

	issues, ok := doc["issues"].([]any)
	if !ok || len(issues) != 1 {
		t.Fatalf("issues = %v; want one entry", doc["issues"])
	}
	issue := issues[0].(map[string]any)
	for _, key := range []string{"severity", "category", "description", "resource_type", "resource_id"} {
		if _, ok := issue[key]; !ok {
			t.Errorf("serialized issue missing key %q", key)
		}
	}
	if issue["resource_id"] != "enc-1" {
		t.Errorf("issue resource_id = %v; want enc-1", issue["resource_id"])
	}
}

func TestResult_MarshalJSON_EmptyIssues(t *testing.T) {
	data, err := json.Marshal(NewResult())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if issues, ok := doc["issues"].([]any); !ok || len(issues) != 0 {
		t.Errorf("issues = %v; want empty array, not null", doc["issues"])
	}
}

func TestResult_Map(t *testing.T) {
	r := NewResult()
	r.Fail(Warning(CategoryInvalidFormat).Describe("bad plz").For("Patient", "p").Build())

	m := r.Map()
	if m["total_issues"] != 1 {
		t.Errorf("total_issues = %v; want 1", m["total_issues"])
	}
	if m["passed"] != true {
		t.Errorf("passed = %v; want true", m["passed"])
	}
	issues := m["issues"].([]map[string]any)
	if issues[0]["severity"] != "warning" {
		t.Errorf("issue severity = %v; want warning", issues[0]["severity"])
	}
}

func TestResult_Render(t *testing.T) {
	r := NewResult()
	r.Pass()
	r.Fail(Error(CategoryMissingData).
		Describe("Required field 'status' is missing or empty").
		For("Encounter", "e1").
		Build())

	lines := r.Render()
	if len(lines) != 5 {
		t.Fatalf("Render() returned %d lines; want 5", len(lines))
	}
	if lines[0] != "Quality score: 50.00" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[3] != "Verdict: failed" {
		t.Errorf("lines[3] = %q; want verdict line", lines[3])
	}
	if lines[4] != "error: Required field 'status' is missing or empty (Encounter/e1)" {
		t.Errorf("lines[4] = %q", lines[4])
	}
}

func TestResult_Clone(t *testing.T) {
	r := NewResult()
	r.Pass()
	r.Fail(Error(CategoryMissingData).Describe("x").Build())

	clone := r.Clone()
	r.Fail(Error(CategoryMissingData).Describe("y").Build())

	if clone.TotalIssues() != 1 {
		t.Errorf("clone.TotalIssues() = %d; want 1 (mutation leaked)", clone.TotalIssues())
	}
	if clone.ChecksPerformed() != 2 {
		t.Errorf("clone.ChecksPerformed() = %d; want 2", clone.ChecksPerformed())
	}
}
