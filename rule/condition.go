package rule

import (
	"context"
	"fmt"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
	"github.com/gofhir/quality/pkg/format"
)

// ConditionRule checks Condition records: module profile, required
// fields and ICD-10-GM coding quality.
type ConditionRule struct{}

// NewConditionRule creates the Condition rule.
func NewConditionRule() *ConditionRule {
	return &ConditionRule{}
}

// Name returns the rule name.
func (r *ConditionRule) Name() string {
	return "condition"
}

// Check runs the Condition checks.
func (r *ConditionRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil {
		return
	}
	checkTerminology := pctx.Options == nil || pctx.Options.CheckTerminology

	for _, c := range pctx.Records.Conditions {
		rid := c.RecordID()

		checkModuleProfiles(pctx, "Condition", rid, c.ProfileURIs(), fq.ModuleDiagnose)

		checkRequired(pctx, "Condition", rid, "code", c.Code != nil)
		checkRequired(pctx, "Condition", rid, "subject", c.Subject != nil)

		if !checkTerminology {
			continue
		}

		// Only ICD-10-GM codings are gated; codings from other systems
		// pass through unchecked.
		for _, coding := range c.Code.Codings() {
			if !format.IsICD10GMSystem(coding.System) {
				continue
			}

			if format.ValidICD10GM(coding.Code) {
				pctx.Pass()
			} else {
				pctx.Fail(fq.Warning(fq.CategoryTerminology).
					Describe(fmt.Sprintf("Invalid ICD-10-GM code format: %s", coding.Code)).
					For("Condition", rid).
					Build())
			}

			if coding.Version != "" {
				pctx.Pass()
			} else {
				pctx.Fail(fq.Info(fq.CategoryTerminology).
					Describe(fmt.Sprintf("ICD-10-GM version not specified for code %s", coding.Code)).
					For("Condition", rid).
					Build())
			}
		}
	}
}
