package rule

import (
	"context"
	"fmt"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/model"
	"github.com/gofhir/quality/pipeline"
)

// Evaluator evaluates a path expression against a record's raw JSON and
// reports whether it holds.
type Evaluator interface {
	Evaluate(expression string, record []byte) (bool, error)
}

// ConstraintRule applies one caller-supplied constraint to every record
// of its target type. Violations are errors in the constraint's category;
// an expression that cannot be evaluated degrades to a warning so one bad
// constraint does not fail the whole bundle.
//
// Constraint rules run at PriorityConstraints, between the built-in
// record rules and the cross-record checks.
type ConstraintRule struct {
	constraint fq.Constraint
	evaluator  Evaluator
}

// NewConstraintRule creates a rule for one constraint.
func NewConstraintRule(constraint fq.Constraint, evaluator Evaluator) *ConstraintRule {
	return &ConstraintRule{
		constraint: constraint,
		evaluator:  evaluator,
	}
}

// Name returns the rule name, derived from the constraint expression.
func (r *ConstraintRule) Name() string {
	return "constraint:" + r.constraint.Expression
}

// Check evaluates the constraint against each matching record.
func (r *ConstraintRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil || r.evaluator == nil {
		return
	}

	for _, rec := range r.targets(pctx.Records) {
		if len(rec.Raw) == 0 {
			continue
		}

		ok, err := r.evaluator.Evaluate(r.constraint.Expression, rec.Raw)
		if err != nil {
			pctx.Fail(fq.Warning(r.constraint.Category).
				Describe(fmt.Sprintf("Constraint '%s' could not be evaluated: %v", r.constraint.Expression, err)).
				For(r.constraint.RecordType, rec.RecordID()).
				Build())
			continue
		}

		if ok {
			pctx.Pass()
		} else {
			pctx.Fail(fq.Error(r.constraint.Category).
				Describe(r.description()).
				For(r.constraint.RecordType, rec.RecordID()).
				Build())
		}
	}
}

// description returns the violation message, falling back to the
// expression when the constraint carries no description.
func (r *ConstraintRule) description() string {
	if r.constraint.Description != "" {
		return r.constraint.Description
	}
	return fmt.Sprintf("Constraint violated: %s", r.constraint.Expression)
}

// targets returns the common Resource parts of all records matching the
// constraint's record type.
func (r *ConstraintRule) targets(records *model.RecordSet) []*model.Resource {
	var out []*model.Resource
	switch r.constraint.RecordType {
	case "Patient":
		for _, rec := range records.Patients {
			out = append(out, &rec.Resource)
		}
	case "Encounter":
		for _, rec := range records.Encounters {
			out = append(out, &rec.Resource)
		}
	case "Condition":
		for _, rec := range records.Conditions {
			out = append(out, &rec.Resource)
		}
	case "Medication":
		for _, rec := range records.Medications {
			out = append(out, &rec.Resource)
		}
	case "MedicationAdministration":
		for _, rec := range records.MedicationAdministrations {
			out = append(out, &rec.Resource)
		}
	case "Consent":
		for _, rec := range records.Consents {
			out = append(out, &rec.Resource)
		}
	}
	return out
}
