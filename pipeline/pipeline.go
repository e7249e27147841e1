package pipeline

import (
	"context"
	"sort"
	"time"

	fq "github.com/gofhir/quality"
)

// Pipeline orchestrates the execution of quality rules.
//
// Execution is strictly sequential: rules run ordered by priority, rules
// of equal priority in registration order. The issue order in the result
// is therefore reproducible across runs, which callers rely on when they
// diff reports. Concurrency belongs one level up, across bundles.
type Pipeline struct {
	configs []*RuleConfig
	metrics *fq.Metrics
}

// New creates a new rule pipeline.
func New() *Pipeline {
	return &Pipeline{
		configs: make([]*RuleConfig, 0, 8),
		metrics: fq.NewMetrics(),
	}
}

// Register adds a rule to the pipeline.
func (p *Pipeline) Register(rule Rule, opts ...RuleOption) {
	config := &RuleConfig{
		Rule:     rule,
		Priority: PriorityRecords,
		Enabled:  true,
	}
	for _, opt := range opts {
		opt(config)
	}
	p.configs = append(p.configs, config)
}

// Enable enables a rule by name.
func (p *Pipeline) Enable(name string) {
	for _, cfg := range p.configs {
		if cfg.Rule.Name() == name {
			cfg.Enabled = true
		}
	}
}

// Disable disables a rule by name.
func (p *Pipeline) Disable(name string) {
	for _, cfg := range p.configs {
		if cfg.Rule.Name() == name {
			cfg.Enabled = false
		}
	}
}

// RuleCount returns the number of enabled rules.
func (p *Pipeline) RuleCount() int {
	n := 0
	for _, cfg := range p.configs {
		if cfg.Enabled {
			n++
		}
	}
	return n
}

// ordered returns the enabled rules in execution order. The sort is
// stable so rules of equal priority keep their registration order.
func (p *Pipeline) ordered() []*RuleConfig {
	out := make([]*RuleConfig, 0, len(p.configs))
	for _, cfg := range p.configs {
		if cfg.Enabled {
			out = append(out, cfg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Execute runs all enabled rules against the pipeline context.
func (p *Pipeline) Execute(ctx context.Context, pctx *Context) *fq.Result {
	if pctx.Result == nil {
		pctx.Result = fq.AcquireResult()
	}

	for _, cfg := range p.ordered() {
		select {
		case <-ctx.Done():
			return pctx.Result
		default:
		}

		before := pctx.Result.TotalIssues()
		start := time.Now()
		cfg.Rule.Check(ctx, pctx)
		duration := time.Since(start)

		if p.metrics != nil {
			p.metrics.RecordRule(cfg.Rule.Name(), duration, pctx.Result.TotalIssues()-before)
		}
	}

	return pctx.Result
}

// Metrics returns the pipeline metrics.
func (p *Pipeline) Metrics() *fq.Metrics {
	return p.metrics
}

// SetMetrics sets the metrics collector.
func (p *Pipeline) SetMetrics(m *fq.Metrics) {
	p.metrics = m
}
