package pipeline

import "context"

// Rule represents a single quality rule in the pipeline.
// Each rule is responsible for one group of related checks.
//
// Rules should be:
// - Stateless: All state lives in the Context
// - Deterministic: Given the same records, emit the same checks in the
//   same order
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check performs the rule's checks, recording passes and failures on
	// the pipeline Context.
	Check(ctx context.Context, pctx *Context)
}

// RuleFunc is a function type that implements Rule.
// Useful for simple rules that don't need a full struct.
type RuleFunc struct {
	name string
	fn   func(ctx context.Context, pctx *Context)
}

// NewRuleFunc creates a Rule from a function.
func NewRuleFunc(name string, fn func(ctx context.Context, pctx *Context)) Rule {
	return &RuleFunc{name: name, fn: fn}
}

// Name returns the rule name.
func (r *RuleFunc) Name() string {
	return r.name
}

// Check calls the wrapped function.
func (r *RuleFunc) Check(ctx context.Context, pctx *Context) {
	r.fn(ctx, pctx)
}

// RulePriority defines the order in which rules run.
// Lower values run first.
type RulePriority int

const (
	// PriorityRecords for the per-type record rules.
	PriorityRecords RulePriority = 100

	// PriorityConstraints for caller-supplied constraint rules, after the
	// record rules and before the cross-record checks.
	PriorityConstraints RulePriority = 500

	// PriorityCrossRecord for rules that inspect relationships between
	// records. These must run last.
	PriorityCrossRecord RulePriority = 900
)

// RuleConfig holds configuration for a rule in the pipeline.
type RuleConfig struct {
	// Rule is the rule implementation
	Rule Rule

	// Priority determines execution order (lower runs first)
	Priority RulePriority

	// Enabled indicates if this rule is currently enabled
	Enabled bool
}

// RuleOption configures a rule registration.
type RuleOption func(*RuleConfig)

// WithPriority sets the rule priority.
func WithPriority(priority RulePriority) RuleOption {
	return func(c *RuleConfig) {
		c.Priority = priority
	}
}

// WithEnabled sets whether the rule starts enabled.
func WithEnabled(enabled bool) RuleOption {
	return func(c *RuleConfig) {
		c.Enabled = enabled
	}
}
