package rule

import (
	"context"
	"fmt"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
	"github.com/gofhir/quality/pkg/format"
)

// PatientRule checks Patient records: module profile, demographic
// required fields, birth date shape and German postal codes.
type PatientRule struct{}

// NewPatientRule creates the Patient rule.
func NewPatientRule() *PatientRule {
	return &PatientRule{}
}

// Name returns the rule name.
func (r *PatientRule) Name() string {
	return "patient"
}

// Check runs the Patient checks.
func (r *PatientRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil {
		return
	}

	for _, p := range pctx.Records.Patients {
		rid := p.RecordID()

		checkModuleProfiles(pctx, "Patient", rid, p.ProfileURIs(), fq.ModulePerson)

		checkRequired(pctx, "Patient", rid, "identifier", len(p.Identifier) > 0)
		checkRequired(pctx, "Patient", rid, "name", len(p.Name) > 0)
		checkRequired(pctx, "Patient", rid, "gender", p.Gender != "")
		checkRequired(pctx, "Patient", rid, "birthDate", p.BirthDate != "")

		// The format gate only fires when a value is present; absence was
		// already covered by the required-field check.
		if p.BirthDate != "" {
			if format.ValidDate(p.BirthDate) {
				pctx.Pass()
			} else {
				pctx.Fail(fq.Error(fq.CategoryInvalidFormat).
					Describe(fmt.Sprintf("Invalid birthDate format: %s", p.BirthDate)).
					For("Patient", rid).
					Build())
			}
		}

		for _, addr := range p.Address {
			if addr.PostalCode == "" {
				continue
			}
			if format.ValidGermanPostalCode(addr.PostalCode) {
				pctx.Pass()
			} else {
				pctx.Fail(fq.Warning(fq.CategoryInvalidFormat).
					Describe(fmt.Sprintf("Invalid German postal code: %s", addr.PostalCode)).
					For("Patient", rid).
					Build())
			}
		}
	}
}
