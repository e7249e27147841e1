package rule

import (
	"fmt"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/types"

	"github.com/gofhir/quality/pkg/cache"
)

// compiledCacheSize bounds the number of compiled expressions kept
// around. Constraint sets are small in practice; the bound only matters
// when expressions are generated dynamically.
const compiledCacheSize = 256

// FHIRPathEvaluator evaluates constraint expressions using the fhirpath
// engine. Compiled expressions are cached; the evaluator is safe for
// concurrent use across bundles.
type FHIRPathEvaluator struct {
	compiled *cache.LRU[string, *fhirpath.Expression]
}

// NewFHIRPathEvaluator creates a FHIRPath evaluator.
func NewFHIRPathEvaluator() *FHIRPathEvaluator {
	return &FHIRPathEvaluator{
		compiled: cache.New[string, *fhirpath.Expression](compiledCacheSize),
	}
}

// Evaluate evaluates the expression against a record's raw JSON.
// The result follows FHIRPath truthiness rules:
// - Empty collection = false
// - Single boolean = that boolean's value
// - Non-empty non-boolean collection = true
func (e *FHIRPathEvaluator) Evaluate(expression string, record []byte) (bool, error) {
	compiled, err := e.compiled.GetOrCompute(expression, func() (*fhirpath.Expression, error) {
		return fhirpath.Compile(expression)
	})
	if err != nil {
		return false, fmt.Errorf("compile %q: %w", expression, err)
	}

	result, err := compiled.Evaluate(record)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", expression, err)
	}

	return toBool(result), nil
}

// CacheSize returns the number of cached compiled expressions.
func (e *FHIRPathEvaluator) CacheSize() int {
	return e.compiled.Len()
}

// CacheStats returns hit/miss counters for the expression cache.
func (e *FHIRPathEvaluator) CacheStats() cache.Stats {
	return e.compiled.Stats()
}

// toBool converts a FHIRPath result collection to a boolean.
func toBool(result types.Collection) bool {
	if len(result) == 0 {
		return false
	}
	if len(result) == 1 {
		if b, ok := result[0].(types.Boolean); ok {
			return b.Bool()
		}
	}
	return true
}

// Verify interface compliance.
var _ Evaluator = (*FHIRPathEvaluator)(nil)
