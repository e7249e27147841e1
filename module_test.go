package fhirquality

import "testing"

func TestExpectedModule(t *testing.T) {
	tests := []struct {
		recordType string
		want       Module
		wantOK     bool
	}{
		{"Patient", ModulePerson, true},
		{"Encounter", ModuleFall, true},
		{"Condition", ModuleDiagnose, true},
		{"Medication", ModuleMedikation, true},
		{"MedicationAdministration", ModuleMedikation, true},
		{"Consent", "", false},
		{"Observation", "", false},
	}

	for _, tt := range tests {
		got, ok := ExpectedModule(tt.recordType)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExpectedModule(%q) = (%q, %v); want (%q, %v)",
				tt.recordType, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestModule_IsValid(t *testing.T) {
	for _, m := range []Module{ModulePerson, ModuleFall, ModuleDiagnose, ModuleMedikation} {
		if !m.IsValid() {
			t.Errorf("Module(%q).IsValid() = false; want true", m)
		}
	}
	if Module("modul-labor").IsValid() {
		t.Error(`Module("modul-labor").IsValid() = true; want false`)
	}
}

func TestModuleFromProfile(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{
			"https://www.medizininformatik-initiative.de/fhir/core/modul-person/StructureDefinition/Patient",
			"modul-person",
		},
		{
			"https://www.medizininformatik-initiative.de/fhir/core/modul-fall/StructureDefinition/KontaktGesundheitseinrichtung",
			"modul-fall",
		},
		// Outside the Kerndatensatz namespace
		{"http://hl7.org/fhir/StructureDefinition/Patient", "unknown"},
		// In namespace but no module segment
		{"https://www.medizininformatik-initiative.de/fhir/StructureDefinition/Other", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		if got := ModuleFromProfile(tt.url); got != tt.want {
			t.Errorf("ModuleFromProfile(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}
