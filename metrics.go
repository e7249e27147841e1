package fhirquality

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks evaluation performance using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Evaluation counts
	evaluationsTotal  atomic.Uint64
	evaluationsPassed atomic.Uint64

	// Timing (stored as nanoseconds)
	evaluationTimeTotal atomic.Uint64
	evaluationTimeMin   atomic.Uint64
	evaluationTimeMax   atomic.Uint64

	// Check counts
	checksPerformed atomic.Uint64
	checksPassed    atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Per-rule timing
	ruleTiming sync.Map // map[string]*ruleMetrics
}

// ruleMetrics tracks metrics for a single quality rule.
type ruleMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	issuesFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first value becomes the minimum
	m.evaluationTimeMin.Store(^uint64(0))
	return m
}

// RecordEvaluation records a completed bundle evaluation.
func (m *Metrics) RecordEvaluation(duration time.Duration, result *Result) {
	m.evaluationsTotal.Add(1)
	if result != nil {
		if result.Passed() {
			m.evaluationsPassed.Add(1)
		}
		m.checksPerformed.Add(uint64(result.ChecksPerformed()))
		m.checksPassed.Add(uint64(result.ChecksPassed()))
		for _, issue := range result.Issues() {
			m.RecordIssue(issue.Severity)
		}
	}

	ns := uint64(duration.Nanoseconds())
	m.evaluationTimeTotal.Add(ns)

	for {
		old := m.evaluationTimeMin.Load()
		if ns >= old {
			break
		}
		if m.evaluationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	for {
		old := m.evaluationTimeMax.Load()
		if ns <= old {
			break
		}
		if m.evaluationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordIssue records an issue by severity.
func (m *Metrics) RecordIssue(severity Severity) {
	switch severity {
	case SeverityError:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInfo:
		m.infosTotal.Add(1)
	}
}

// RecordRule records timing for a quality rule invocation.
func (m *Metrics) RecordRule(ruleName string, duration time.Duration, issuesFound int) {
	rm := m.getOrCreateRuleMetrics(ruleName)
	rm.invocations.Add(1)
	rm.totalTime.Add(uint64(duration.Nanoseconds()))
	rm.issuesFound.Add(uint64(issuesFound))
}

func (m *Metrics) getOrCreateRuleMetrics(name string) *ruleMetrics {
	if v, ok := m.ruleTiming.Load(name); ok {
		return v.(*ruleMetrics)
	}
	rm := &ruleMetrics{}
	actual, _ := m.ruleTiming.LoadOrStore(name, rm)
	return actual.(*ruleMetrics)
}

// EvaluationsTotal returns the total number of bundle evaluations.
func (m *Metrics) EvaluationsTotal() uint64 {
	return m.evaluationsTotal.Load()
}

// EvaluationsPassed returns the number of evaluations with a pass verdict.
func (m *Metrics) EvaluationsPassed() uint64 {
	return m.evaluationsPassed.Load()
}

// PassRate returns the fraction of evaluations that passed (0.0 to 1.0).
func (m *Metrics) PassRate() float64 {
	total := m.evaluationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.evaluationsPassed.Load()) / float64(total)
}

// AverageEvaluationTime returns the mean evaluation duration.
func (m *Metrics) AverageEvaluationTime() time.Duration {
	total := m.evaluationsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.evaluationTimeTotal.Load() / total)
}

// MinEvaluationTime returns the shortest evaluation duration.
func (m *Metrics) MinEvaluationTime() time.Duration {
	minVal := m.evaluationTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal)
}

// MaxEvaluationTime returns the longest evaluation duration.
func (m *Metrics) MaxEvaluationTime() time.Duration {
	return time.Duration(m.evaluationTimeMax.Load())
}

// ChecksPerformed returns the total checks run across all evaluations.
func (m *Metrics) ChecksPerformed() uint64 {
	return m.checksPerformed.Load()
}

// ChecksPassed returns the total checks satisfied across all evaluations.
func (m *Metrics) ChecksPassed() uint64 {
	return m.checksPassed.Load()
}

// ErrorsTotal returns the total error issues found.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning issues found.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// InfosTotal returns the total info issues found.
func (m *Metrics) InfosTotal() uint64 {
	return m.infosTotal.Load()
}

// RuleStats holds statistics for a single quality rule.
type RuleStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
	IssuesFound uint64
}

// RuleStats returns statistics for a specific rule.
func (m *Metrics) RuleStats(ruleName string) (RuleStats, bool) {
	v, ok := m.ruleTiming.Load(ruleName)
	if !ok {
		return RuleStats{Name: ruleName}, false
	}
	return buildRuleStats(ruleName, v.(*ruleMetrics)), true
}

// AllRuleStats returns statistics for every rule that has run.
func (m *Metrics) AllRuleStats() []RuleStats {
	var stats []RuleStats
	m.ruleTiming.Range(func(key, value any) bool {
		stats = append(stats, buildRuleStats(key.(string), value.(*ruleMetrics)))
		return true
	})
	return stats
}

func buildRuleStats(name string, rm *ruleMetrics) RuleStats {
	invocations := rm.invocations.Load()
	totalTime := rm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations)
	}

	return RuleStats{
		Name:        name,
		Invocations: invocations,
		TotalTime:   time.Duration(totalTime),
		AvgTime:     avgTime,
		IssuesFound: rm.issuesFound.Load(),
	}
}

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	EvaluationsTotal  uint64  `json:"evaluations_total"`
	EvaluationsPassed uint64  `json:"evaluations_passed"`
	PassRate          float64 `json:"pass_rate"`

	AvgEvaluationTimeNs uint64 `json:"avg_evaluation_time_ns"`
	MinEvaluationTimeNs uint64 `json:"min_evaluation_time_ns"`
	MaxEvaluationTimeNs uint64 `json:"max_evaluation_time_ns"`

	ChecksPerformed uint64 `json:"checks_performed"`
	ChecksPassed    uint64 `json:"checks_passed"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	Rules []RuleStats `json:"rules,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.evaluationsTotal.Load()

	var avgTime uint64
	if total > 0 {
		avgTime = m.evaluationTimeTotal.Load() / total
	}

	minTime := m.evaluationTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:           time.Now(),
		EvaluationsTotal:    total,
		EvaluationsPassed:   m.evaluationsPassed.Load(),
		PassRate:            m.PassRate(),
		AvgEvaluationTimeNs: avgTime,
		MinEvaluationTimeNs: minTime,
		MaxEvaluationTimeNs: m.evaluationTimeMax.Load(),
		ChecksPerformed:     m.checksPerformed.Load(),
		ChecksPassed:        m.checksPassed.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		WarningsTotal:       m.warningsTotal.Load(),
		InfosTotal:          m.infosTotal.Load(),
		Rules:               m.AllRuleStats(),
	}
}

// Export returns metrics as a flat map suitable for external systems.
func (m *Metrics) Export() map[string]interface{} {
	s := m.Snapshot()
	return map[string]interface{}{
		"evaluations_total":      s.EvaluationsTotal,
		"evaluations_passed":     s.EvaluationsPassed,
		"pass_rate":              s.PassRate,
		"avg_evaluation_time_ns": s.AvgEvaluationTimeNs,
		"min_evaluation_time_ns": s.MinEvaluationTimeNs,
		"max_evaluation_time_ns": s.MaxEvaluationTimeNs,
		"checks_performed":       s.ChecksPerformed,
		"checks_passed":          s.ChecksPassed,
		"errors_total":           s.ErrorsTotal,
		"warnings_total":         s.WarningsTotal,
		"infos_total":            s.InfosTotal,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.evaluationsTotal.Store(0)
	m.evaluationsPassed.Store(0)
	m.evaluationTimeTotal.Store(0)
	m.evaluationTimeMin.Store(^uint64(0))
	m.evaluationTimeMax.Store(0)
	m.checksPerformed.Store(0)
	m.checksPassed.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	m.ruleTiming.Range(func(key, _ any) bool {
		m.ruleTiming.Delete(key)
		return true
	})
}
