package fhirquality

import "runtime"

// Option configures the quality engine.
type Option func(*Options)

// Options holds all configuration for the engine.
type Options struct {
	// Rule toggles. The full battery is enabled by default; toggles exist
	// for callers that need a narrower run (e.g. re-scoring after a
	// terminology update).
	CheckProfiles    bool
	CheckReferences  bool
	CheckTerminology bool

	// Constraints are caller-supplied FHIRPath quality constraints that
	// run in addition to the built-in battery.
	Constraints []Constraint

	// WorkerCount bounds parallelism for batch evaluation.
	WorkerCount int

	// EnablePooling reuses Result and evaluation context objects.
	// When enabled, callers must Release() results they are done with.
	EnablePooling bool
}

// Constraint is a caller-supplied FHIRPath expression evaluated against
// every record of the given type. An expression that evaluates to false
// fails the check and produces a warning-severity issue.
type Constraint struct {
	// RecordType selects the records the expression applies to
	// (e.g. "Patient").
	RecordType string

	// Expression is the FHIRPath boolean expression.
	Expression string

	// Description is used verbatim in the issue when the check fails.
	Description string

	// Category of the produced issue. Defaults to missing_data.
	Category Category
}

// DefaultOptions returns the default configuration: the complete rule
// battery, pooling on, one worker per CPU.
func DefaultOptions() *Options {
	return &Options{
		CheckProfiles:    true,
		CheckReferences:  true,
		CheckTerminology: true,
		WorkerCount:      runtime.NumCPU(),
		EnablePooling:    true,
	}
}

// WithProfileChecks toggles the per-type profile module checks.
func WithProfileChecks(enable bool) Option {
	return func(o *Options) {
		o.CheckProfiles = enable
	}
}

// WithReferenceChecks toggles the cross-record reference checks.
func WithReferenceChecks(enable bool) Option {
	return func(o *Options) {
		o.CheckReferences = enable
	}
}

// WithTerminologyChecks toggles the ICD-10-GM coding checks.
func WithTerminologyChecks(enable bool) Option {
	return func(o *Options) {
		o.CheckTerminology = enable
	}
}

// WithConstraint registers an additional FHIRPath quality constraint.
func WithConstraint(c Constraint) Option {
	return func(o *Options) {
		if c.Category == "" {
			c.Category = CategoryMissingData
		}
		o.Constraints = append(o.Constraints, c)
	}
}

// WithWorkerCount sets the number of workers for batch evaluation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithPooling enables or disables object pooling.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}
