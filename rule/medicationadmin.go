package rule

import (
	"context"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
)

// MedicationAdministrationRule checks MedicationAdministration records:
// module profile and required fields.
type MedicationAdministrationRule struct{}

// NewMedicationAdministrationRule creates the MedicationAdministration rule.
func NewMedicationAdministrationRule() *MedicationAdministrationRule {
	return &MedicationAdministrationRule{}
}

// Name returns the rule name.
func (r *MedicationAdministrationRule) Name() string {
	return "medication-administration"
}

// Check runs the MedicationAdministration checks.
func (r *MedicationAdministrationRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil {
		return
	}

	for _, ma := range pctx.Records.MedicationAdministrations {
		rid := ma.RecordID()

		checkModuleProfiles(pctx, "MedicationAdministration", rid, ma.ProfileURIs(), fq.ModuleMedikation)

		checkRequired(pctx, "MedicationAdministration", rid, "status", ma.Status != "")
		checkRequired(pctx, "MedicationAdministration", rid, "subject", ma.Subject != nil)
	}
}
