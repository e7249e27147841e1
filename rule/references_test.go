package rule

import (
	"context"
	"testing"

	"github.com/gofhir/quality/model"
)

func TestReferencesRule_ResolvedReference(t *testing.T) {
	records := &model.RecordSet{
		Patients:   []*model.Patient{{Resource: model.Resource{ID: "p1"}}},
		Encounters: []*model.Encounter{{Resource: model.Resource{ID: "e1"}, Subject: &model.Reference{Reference: "Patient/p1"}}},
		Conditions: []*model.Condition{{Resource: model.Resource{ID: "c1"}, Subject: &model.Reference{Reference: "Patient/p1"}}},
	}
	pctx := newTestContext(records)
	NewReferencesRule().Check(context.Background(), pctx)

	if got := pctx.Result.ChecksPerformed(); got != 2 {
		t.Errorf("ChecksPerformed() = %d; want 2", got)
	}
	if got := pctx.Result.TotalIssues(); got != 0 {
		t.Errorf("TotalIssues() = %d; want 0: %v", got, pctx.Result.Issues())
	}
}

func TestReferencesRule_BrokenReference(t *testing.T) {
	records := &model.RecordSet{
		Patients:   []*model.Patient{{Resource: model.Resource{ID: "p1"}}},
		Encounters: []*model.Encounter{{Resource: model.Resource{ID: "e1"}, Subject: &model.Reference{Reference: "Patient/ghost"}}},
	}
	pctx := newTestContext(records)
	NewReferencesRule().Check(context.Background(), pctx)

	if got := pctx.Result.ErrorCount(); got != 1 {
		t.Fatalf("ErrorCount() = %d; want 1", got)
	}
	issue := pctx.Result.Issues()[0]
	if issue.Description != "Encounter references non-existent Patient: Patient/ghost" {
		t.Errorf("Description = %q", issue.Description)
	}
	if issue.ResourceType != "Encounter" || issue.ResourceID != "e1" {
		t.Errorf("issue location = %s/%s; want Encounter/e1", issue.ResourceType, issue.ResourceID)
	}
}

func TestReferencesRule_SkipsUncheckableShapes(t *testing.T) {
	records := &model.RecordSet{
		Encounters: []*model.Encounter{
			{Resource: model.Resource{ID: "e1"}}, // no subject
			{Resource: model.Resource{ID: "e2"}, Subject: &model.Reference{Reference: "urn:uuid:abc"}},
			{Resource: model.Resource{ID: "e3"}, Subject: &model.Reference{Display: "someone"}},
		},
	}
	pctx := newTestContext(records)
	NewReferencesRule().Check(context.Background(), pctx)

	if got := pctx.Result.ChecksPerformed(); got != 0 {
		t.Errorf("ChecksPerformed() = %d; want 0 for uncheckable references", got)
	}
	if got := pctx.Result.TotalIssues(); got != 0 {
		t.Errorf("TotalIssues() = %d; want 0", got)
	}
}

func TestReferencesRule_AbsoluteURLResolvesByLastSegment(t *testing.T) {
	records := &model.RecordSet{
		Patients:   []*model.Patient{{Resource: model.Resource{ID: "p1"}}},
		Conditions: []*model.Condition{{Resource: model.Resource{ID: "c1"}, Subject: &model.Reference{Reference: "https://fhir.example.org/Patient/p1"}}},
	}
	pctx := newTestContext(records)
	NewReferencesRule().Check(context.Background(), pctx)

	if got := pctx.Result.TotalIssues(); got != 0 {
		t.Errorf("TotalIssues() = %d; want 0: %v", got, pctx.Result.Issues())
	}
	if got := pctx.Result.ChecksPassed(); got != 1 {
		t.Errorf("ChecksPassed() = %d; want 1", got)
	}
}

func TestReferencesRule_Disabled(t *testing.T) {
	records := &model.RecordSet{
		Encounters: []*model.Encounter{{Resource: model.Resource{ID: "e1"}, Subject: &model.Reference{Reference: "Patient/ghost"}}},
	}
	pctx := newTestContext(records)
	pctx.Options.CheckReferences = false
	NewReferencesRule().Check(context.Background(), pctx)

	if got := pctx.Result.TotalIssues(); got != 0 {
		t.Errorf("TotalIssues() = %d; want 0 with reference checks disabled", got)
	}
}
