package rule

import (
	"context"
	"fmt"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
	"github.com/gofhir/quality/pkg/reference"
)

// ReferencesRule checks cross-record reference integrity: Encounter and
// Condition subjects must point at a Patient present in the bundle.
//
// It must run after the per-type rules, at PriorityCrossRecord.
type ReferencesRule struct{}

// NewReferencesRule creates the references rule.
func NewReferencesRule() *ReferencesRule {
	return &ReferencesRule{}
}

// Name returns the rule name.
func (r *ReferencesRule) Name() string {
	return "references"
}

// Check runs the reference integrity checks.
func (r *ReferencesRule) Check(_ context.Context, pctx *pipeline.Context) {
	if pctx.Records == nil {
		return
	}
	if pctx.Options != nil && !pctx.Options.CheckReferences {
		return
	}

	patientIDs := pctx.IndexPatients()

	for _, e := range pctx.Records.Encounters {
		r.checkSubject(pctx, "Encounter", e.RecordID(), e.Subject.Target(), patientIDs)
	}
	for _, c := range pctx.Records.Conditions {
		r.checkSubject(pctx, "Condition", c.RecordID(), c.Subject.Target(), patientIDs)
	}
}

// checkSubject verifies one subject reference against the Patient index.
// Empty references and references without an id segment (URNs, bare ids)
// are skipped silently; only resolvable shapes are checked.
func (r *ReferencesRule) checkSubject(pctx *pipeline.Context, rtype, rid, ref string, patientIDs map[string]struct{}) {
	if ref == "" {
		return
	}
	targetID, ok := reference.TargetID(ref)
	if !ok {
		return
	}

	if _, found := patientIDs[targetID]; found {
		pctx.Pass()
		return
	}
	pctx.Fail(fq.Error(fq.CategoryReference).
		Describe(fmt.Sprintf("%s references non-existent Patient: %s", rtype, ref)).
		For(rtype, rid).
		Build())
}
