// Package engine provides the main bundle quality evaluation engine.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/loader"
	"github.com/gofhir/quality/model"
	"github.com/gofhir/quality/pipeline"
	"github.com/gofhir/quality/rule"
)

// Engine evaluates clinical bundles against the Kerndatensatz quality
// rules. It is safe for concurrent use; each evaluation works on its own
// pooled context and result.
type Engine struct {
	options *fq.Options
	pipe    *pipeline.Pipeline
	metrics *fq.Metrics

	evaluator rule.Evaluator

	// Semaphore for batch evaluation, sized lazily from WorkerCount.
	batchSem  chan struct{}
	batchOnce sync.Once
}

// New creates a new Engine with the given options.
func New(opts ...fq.Option) *Engine {
	options := fq.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{
		options:   options,
		metrics:   fq.NewMetrics(),
		evaluator: rule.NewFHIRPathEvaluator(),
	}
	e.buildPipeline()
	return e
}

// SetEvaluator replaces the constraint expression evaluator.
// Must be called before the first evaluation.
func (e *Engine) SetEvaluator(evaluator rule.Evaluator) {
	e.evaluator = evaluator
	e.buildPipeline()
}

// buildPipeline constructs the rule pipeline from the options. The
// built-in record rules come first, then caller constraints, then the
// cross-record checks; within each tier registration order is the
// execution order.
func (e *Engine) buildPipeline() {
	e.pipe = pipeline.New()
	e.pipe.SetMetrics(e.metrics)

	e.pipe.Register(rule.NewPatientRule())
	e.pipe.Register(rule.NewEncounterRule())
	e.pipe.Register(rule.NewConditionRule())
	e.pipe.Register(rule.NewMedicationRule())
	e.pipe.Register(rule.NewMedicationAdministrationRule())

	for _, c := range e.options.Constraints {
		e.pipe.Register(rule.NewConstraintRule(c, e.evaluator),
			pipeline.WithPriority(pipeline.PriorityConstraints))
	}

	e.pipe.Register(rule.NewReferencesRule(),
		pipeline.WithPriority(pipeline.PriorityCrossRecord))
}

// Evaluate evaluates a raw JSON bundle document.
func (e *Engine) Evaluate(ctx context.Context, data []byte) (*fq.Result, error) {
	start := time.Now()

	var bundle model.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		result := e.acquireResult()
		result.Fail(fq.Error(fq.CategoryInvalidFormat).
			Describe(fmt.Sprintf("Invalid JSON: %v", err)).
			Build())
		e.metrics.RecordEvaluation(time.Since(start), result)
		return result, nil
	}

	return e.EvaluateBundle(ctx, &bundle)
}

// EvaluateBundle evaluates a decoded bundle.
func (e *Engine) EvaluateBundle(ctx context.Context, bundle *model.Bundle) (*fq.Result, error) {
	if bundle == nil {
		result := e.acquireResult()
		e.metrics.RecordEvaluation(0, result)
		return result, nil
	}
	return e.EvaluateRecords(ctx, loader.GroupEntries(bundle))
}

// EvaluateRecords runs the rule pipeline over an already-grouped record
// set. An empty set yields an empty, vacuously passing result.
func (e *Engine) EvaluateRecords(ctx context.Context, records *model.RecordSet) (*fq.Result, error) {
	start := time.Now()

	pctx := e.acquireContext()
	pctx.Records = records
	pctx.Result = e.acquireResult()
	pctx.Options = e.options

	e.pipe.Execute(ctx, pctx)

	result := pctx.Result
	pctx.Result = nil // the result outlives the pooled context
	e.releaseContext(pctx)

	e.metrics.RecordEvaluation(time.Since(start), result)
	return result, ctx.Err()
}

// EvaluateBatch evaluates multiple bundles in parallel, bounded by the
// configured worker count. The result order matches the input order;
// each individual result is still deterministic.
func (e *Engine) EvaluateBatch(ctx context.Context, bundles [][]byte) []*fq.Result {
	results := make([]*fq.Result, len(bundles))

	e.batchOnce.Do(func() {
		workers := e.options.WorkerCount
		if workers <= 0 {
			workers = 4
		}
		e.batchSem = make(chan struct{}, workers)
	})

	var wg sync.WaitGroup
	for i, data := range bundles {
		wg.Add(1)
		go func(idx int, doc []byte) {
			defer wg.Done()

			e.batchSem <- struct{}{}
			defer func() { <-e.batchSem }()

			result, _ := e.Evaluate(ctx, doc)
			results[idx] = result
		}(i, data)
	}
	wg.Wait()

	return results
}

// Metrics returns the engine metrics.
func (e *Engine) Metrics() *fq.Metrics {
	return e.metrics
}

// Options returns the engine options.
func (e *Engine) Options() *fq.Options {
	return e.options
}

// RuleCount returns the number of enabled rules in the pipeline.
func (e *Engine) RuleCount() int {
	return e.pipe.RuleCount()
}

func (e *Engine) acquireResult() *fq.Result {
	if e.options.EnablePooling {
		return fq.AcquireResult()
	}
	return fq.NewResult()
}

func (e *Engine) acquireContext() *pipeline.Context {
	if e.options.EnablePooling {
		return pipeline.AcquireContext()
	}
	return pipeline.NewContext()
}

func (e *Engine) releaseContext(pctx *pipeline.Context) {
	if e.options.EnablePooling {
		pctx.Release()
	}
}

