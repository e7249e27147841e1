package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofhir/quality/model"
)

var sampleBundle = []byte(`{
	"resourceType": "Bundle",
	"type": "transaction",
	"entry": [
		{"resource": {
			"resourceType": "Patient", "id": "p1",
			"meta": {"profile": ["https://www.medizininformatik-initiative.de/fhir/core/modul-person/StructureDefinition/Patient"]}
		}},
		{"resource": {
			"resourceType": "Condition", "id": "c1",
			"meta": {"profile": ["https://www.medizininformatik-initiative.de/fhir/core/modul-diagnose/StructureDefinition/Diagnose"]}
		}},
		{"resource": {"resourceType": "Condition", "id": "c2"}},
		{"resource": {"resourceType": "Observation", "id": "o1"}}
	]
}`)

func TestLoad_ValidBundle(t *testing.T) {
	result := Load(sampleBundle)

	if !result.Valid {
		t.Fatalf("Valid = false; error: %s", result.Error)
	}
	if result.BundleType != "transaction" {
		t.Errorf("BundleType = %q; want transaction", result.BundleType)
	}
	if result.EntryCount != 4 {
		t.Errorf("EntryCount = %d; want 4", result.EntryCount)
	}
	if result.ResourceCounts["Condition"] != 2 {
		t.Errorf("ResourceCounts[Condition] = %d; want 2", result.ResourceCounts["Condition"])
	}
	if result.ResourceCounts["Observation"] != 1 {
		t.Errorf("ResourceCounts[Observation] = %d; want 1", result.ResourceCounts["Observation"])
	}

	wantModules := []string{"modul-diagnose", "modul-person"}
	if len(result.Modules) != 2 || result.Modules[0] != wantModules[0] || result.Modules[1] != wantModules[1] {
		t.Errorf("Modules = %v; want %v", result.Modules, wantModules)
	}

	if result.Records == nil || len(result.Records.Patients) != 1 || len(result.Records.Conditions) != 2 {
		t.Errorf("Records not grouped as expected: %+v", result.Records)
	}
}

func TestLoad_NotABundle(t *testing.T) {
	result := Load([]byte(`{"resourceType": "Patient", "id": "p1"}`))

	if result.Valid {
		t.Error("Valid = true; want false")
	}
	if result.Error != "Not a Bundle resource. Found: Patient" {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	result := Load([]byte(`{broken`))

	if result.Valid {
		t.Error("Valid = true; want false")
	}
	if !strings.HasPrefix(result.Error, "Invalid JSON:") {
		t.Errorf("Error = %q; want Invalid JSON prefix", result.Error)
	}
}

func TestLoad_MissingResourceType(t *testing.T) {
	result := Load([]byte(`{"type": "transaction"}`))

	if result.Valid {
		t.Error("Valid = true; want false")
	}
	if !strings.HasPrefix(result.Error, "Not a Bundle resource") {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestStructureIssues(t *testing.T) {
	tests := []struct {
		name   string
		result *ParseResult
		want   []string
	}{
		{
			name:   "invalid load",
			result: &ParseResult{Error: "Invalid JSON: x"},
			want:   []string{"Bundle validation failed: Invalid JSON: x"},
		},
		{
			name: "unusual type and empty",
			result: &ParseResult{
				Valid:      true,
				BundleType: "document",
			},
			want: []string{
				"Unusual bundle type: document",
				"Bundle is empty (no entries)",
				"No MII profiles detected in bundle",
			},
		},
		{
			name: "clean",
			result: &ParseResult{
				Valid:      true,
				BundleType: "collection",
				EntryCount: 2,
				Modules:    []string{"modul-person"},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.StructureIssues()
			if len(got) != len(tt.want) {
				t.Fatalf("StructureIssues() = %v; want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("issues[%d] = %q; want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSummary(t *testing.T) {
	result := Load(sampleBundle)
	summary := result.Summary()

	for _, want := range []string{
		"Bundle type: transaction",
		"Entries: 4",
		"Condition, Observation, Patient",
		"modul-diagnose, modul-person",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() missing %q:\n%s", want, summary)
		}
	}

	invalid := Load([]byte(`{broken`))
	if !strings.HasPrefix(invalid.Summary(), "Invalid:") {
		t.Errorf("invalid Summary() = %q", invalid.Summary())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(path, sampleBundle, 0o644); err != nil {
		t.Fatal(err)
	}

	result := LoadFile(path)
	if !result.Valid {
		t.Fatalf("Valid = false; error: %s", result.Error)
	}
	if result.FileName != "bundle.json" {
		t.Errorf("FileName = %q; want bundle.json", result.FileName)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	result := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if result.Valid {
		t.Error("Valid = true; want false")
	}
	if !strings.HasPrefix(result.Error, "Error loading bundle:") {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestGroupEntries(t *testing.T) {
	bundle := &model.Bundle{Entry: []model.Entry{
		{Resource: []byte(`{"resourceType":"Patient","id":"p1"}`)},
		{Resource: []byte(`{"resourceType":"Encounter","id":"e1"}`)},
		{Resource: []byte(`{"resourceType":"Condition","id":"c1"}`)},
		{Resource: []byte(`{"resourceType":"Medication","id":"m1"}`)},
		{Resource: []byte(`{"resourceType":"MedicationAdministration","id":"ma1"}`)},
		{Resource: []byte(`{"resourceType":"Consent","id":"co1"}`)},
		{Resource: []byte(`{"resourceType":"Observation","id":"o1"}`)},
		{Resource: []byte(`{"id":"no-type"}`)},
		{},
	}}

	set := GroupEntries(bundle)
	if got := set.Len(); got != 6 {
		t.Errorf("Len() = %d; want 6", got)
	}
	if len(set.Patients) != 1 || set.Patients[0].ID != "p1" {
		t.Errorf("Patients = %v; want one with id p1", set.Patients)
	}
	if len(set.Consents) != 1 {
		t.Errorf("Consents = %d; want 1", len(set.Consents))
	}
	if set.Patients[0].Raw == nil {
		t.Error("grouped record should retain raw JSON")
	}

	if got := GroupEntries(nil).Len(); got != 0 {
		t.Errorf("GroupEntries(nil).Len() = %d; want 0", got)
	}
}
