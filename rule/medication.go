package rule

import (
	"context"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
)

// MedicationRule checks Medication records: module profile and code
// presence.
type MedicationRule struct{}

// NewMedicationRule creates the Medication rule.
func NewMedicationRule() *MedicationRule {
	return &MedicationRule{}
}

// Name returns the rule name.
func (r *MedicationRule) Name() string {
	return "medication"
}

// Check runs the Medication checks.
func (r *MedicationRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil {
		return
	}

	for _, m := range pctx.Records.Medications {
		rid := m.RecordID()

		checkModuleProfiles(pctx, "Medication", rid, m.ProfileURIs(), fq.ModuleMedikation)

		// A missing code is a warning: the record is usable but hard to
		// interpret downstream.
		if m.Code != nil {
			pctx.Pass()
		} else {
			pctx.Fail(fq.Warning(fq.CategoryMissingData).
				Describe("Medication code is missing").
				For("Medication", rid).
				Build())
		}
	}
}
