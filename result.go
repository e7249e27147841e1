package fhirquality

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Result accumulates the outcome of one bundle evaluation: how many checks
// ran, how many were satisfied, and every issue in discovery order.
// Use Release() to return it to the pool when done.
type Result struct {
	checksPerformed int
	checksPassed    int
	issues          []Issue

	// mu protects the accumulator during engine-internal use
	mu sync.Mutex
}

// resultPool holds reusable Result instances.
var resultPool = sync.Pool{
	New: func() any {
		return &Result{
			issues: make([]Issue, 0, 16),
		}
	},
}

// AcquireResult gets a fresh Result from the pool.
func AcquireResult() *Result {
	r := resultPool.Get().(*Result)
	r.Reset()
	return r
}

// NewResult creates a new (non-pooled) Result.
// Prefer AcquireResult() for better performance.
func NewResult() *Result {
	return &Result{issues: make([]Issue, 0, 8)}
}

// Release returns the Result to the pool.
// After calling Release, the Result must not be used.
func (r *Result) Release() {
	if r == nil {
		return
	}
	if cap(r.issues) <= 1024 {
		resultPool.Put(r)
	}
}

// Reset clears the accumulator for reuse. Evaluating two bundles through
// the same Result without a Reset in between would mix their counts.
func (r *Result) Reset() {
	r.checksPerformed = 0
	r.checksPassed = 0
	r.issues = r.issues[:0]
}

// Pass records a satisfied check.
func (r *Result) Pass() {
	r.mu.Lock()
	r.checksPerformed++
	r.checksPassed++
	r.mu.Unlock()
}

// Fail records an unsatisfied check together with the issue it produced.
func (r *Result) Fail(issue Issue) {
	r.mu.Lock()
	r.checksPerformed++
	r.issues = append(r.issues, issue)
	r.mu.Unlock()
}

// AddIssue appends an issue without counting a check. Used for findings
// that are not part of the scored battery.
func (r *Result) AddIssue(issue Issue) {
	r.mu.Lock()
	r.issues = append(r.issues, issue)
	r.mu.Unlock()
}

// ChecksPerformed returns the number of checks that ran.
func (r *Result) ChecksPerformed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checksPerformed
}

// ChecksPassed returns the number of checks that were satisfied.
func (r *Result) ChecksPassed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checksPassed
}

// Issues returns the issues in discovery order. The returned slice is a
// copy; mutating it does not affect the Result.
func (r *Result) Issues() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// TotalIssues returns the number of issues found.
func (r *Result) TotalIssues() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.issues)
}

// ErrorCount returns the number of error-severity issues.
func (r *Result) ErrorCount() int {
	return r.countSeverity(SeverityError)
}

// WarningCount returns the number of warning-severity issues.
func (r *Result) WarningCount() int {
	return r.countSeverity(SeverityWarning)
}

// InfoCount returns the number of info-severity issues.
func (r *Result) InfoCount() int {
	return r.countSeverity(SeverityInfo)
}

func (r *Result) countSeverity(s Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, issue := range r.issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

// Score returns the derived quality score for this result.
func (r *Result) Score() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Score(r.checksPerformed, r.checksPassed)
}

// Passed reports the overall verdict: true iff no error-severity issue
// exists. A result with zero checks passes vacuously.
func (r *Result) Passed() bool {
	return r.ErrorCount() == 0
}

// Clone creates an independent (non-pooled) copy of the result.
func (r *Result) Clone() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := &Result{
		checksPerformed: r.checksPerformed,
		checksPassed:    r.checksPassed,
		issues:          make([]Issue, len(r.issues)),
	}
	copy(clone.issues, r.issues)
	return clone
}

// resultDocument is the wire form of a Result.
type resultDocument struct {
	QualityScore    float64 `json:"quality_score"`
	ChecksPerformed int     `json:"checks_performed"`
	ChecksPassed    int     `json:"checks_passed"`
	TotalIssues     int     `json:"total_issues"`
	Errors          int     `json:"errors"`
	Warnings        int     `json:"warnings"`
	Infos           int     `json:"infos"`
	Issues          []Issue `json:"issues"`
	Passed          bool    `json:"passed"`
}

func (r *Result) document() resultDocument {
	issues := r.Issues()
	errors, warnings, infos := 0, 0, 0
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}
	return resultDocument{
		QualityScore:    r.Score(),
		ChecksPerformed: r.ChecksPerformed(),
		ChecksPassed:    r.ChecksPassed(),
		TotalIssues:     len(issues),
		Errors:          errors,
		Warnings:        warnings,
		Infos:           infos,
		Issues:          issues,
		Passed:          errors == 0,
	}
}

// MarshalJSON emits the result as a flat document with the keys
// quality_score, checks_performed, checks_passed, total_issues, errors,
// warnings, infos, issues and passed.
func (r *Result) MarshalJSON() ([]byte, error) {
	doc := r.document()
	if doc.Issues == nil {
		doc.Issues = []Issue{}
	}
	return json.Marshal(doc)
}

// Map returns the result as a plain key/value document. Issues are
// rendered as nested maps so the value round-trips through any generic
// JSON emitter.
func (r *Result) Map() map[string]any {
	doc := r.document()
	issues := make([]map[string]any, 0, len(doc.Issues))
	for _, issue := range doc.Issues {
		issues = append(issues, map[string]any{
			"severity":      string(issue.Severity),
			"category":      string(issue.Category),
			"description":   issue.Description,
			"resource_type": issue.ResourceType,
			"resource_id":   issue.ResourceID,
		})
	}
	return map[string]any{
		"quality_score":    doc.QualityScore,
		"checks_performed": doc.ChecksPerformed,
		"checks_passed":    doc.ChecksPassed,
		"total_issues":     doc.TotalIssues,
		"errors":           doc.Errors,
		"warnings":         doc.Warnings,
		"infos":            doc.Infos,
		"issues":           issues,
		"passed":           doc.Passed,
	}
}

// Render returns a flat list-of-strings rendering for human display:
// a summary block followed by one line per issue.
func (r *Result) Render() []string {
	doc := r.document()
	lines := make([]string, 0, len(doc.Issues)+4)
	lines = append(lines,
		fmt.Sprintf("Quality score: %.2f", doc.QualityScore),
		fmt.Sprintf("Checks: %d/%d passed", doc.ChecksPassed, doc.ChecksPerformed),
		fmt.Sprintf("Issues: %d (%d errors, %d warnings, %d infos)",
			doc.TotalIssues, doc.Errors, doc.Warnings, doc.Infos),
		fmt.Sprintf("Verdict: %s", verdictString(doc.Passed)),
	)
	for _, issue := range doc.Issues {
		lines = append(lines, issue.String())
	}
	return lines
}

func verdictString(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
