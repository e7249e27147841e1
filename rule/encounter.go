package rule

import (
	"context"
	"fmt"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
	"github.com/gofhir/quality/pkg/format"
)

// EncounterRule checks Encounter records: module profile, required
// fields and period date shapes.
type EncounterRule struct{}

// NewEncounterRule creates the Encounter rule.
func NewEncounterRule() *EncounterRule {
	return &EncounterRule{}
}

// Name returns the rule name.
func (r *EncounterRule) Name() string {
	return "encounter"
}

// Check runs the Encounter checks.
func (r *EncounterRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil {
		return
	}

	for _, e := range pctx.Records.Encounters {
		rid := e.RecordID()

		checkModuleProfiles(pctx, "Encounter", rid, e.ProfileURIs(), fq.ModuleFall)

		checkRequired(pctx, "Encounter", rid, "status", e.Status != "")
		checkRequired(pctx, "Encounter", rid, "class", e.Class != nil)
		checkRequired(pctx, "Encounter", rid, "subject", e.Subject != nil)

		// Period dates are optional; only present values are gated.
		if start := e.Period.StartDate(); start != "" {
			if format.ValidDate(start) {
				pctx.Pass()
			} else {
				pctx.Fail(fq.Error(fq.CategoryInvalidFormat).
					Describe(fmt.Sprintf("Invalid encounter start date: %s", start)).
					For("Encounter", rid).
					Build())
			}
		}
		if end := e.Period.EndDate(); end != "" {
			if format.ValidDate(end) {
				pctx.Pass()
			} else {
				pctx.Fail(fq.Error(fq.CategoryInvalidFormat).
					Describe(fmt.Sprintf("Invalid encounter end date: %s", end)).
					For("Encounter", rid).
					Build())
			}
		}
	}
}
