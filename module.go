package fhirquality

import (
	"regexp"
	"strings"
)

// Module identifies a Kerndatensatz conformance module. Records assert
// membership in a module through profile URIs in their metadata.
type Module string

// Kerndatensatz modules covered by the rule battery.
const (
	// ModulePerson covers Patient records.
	ModulePerson Module = "modul-person"
	// ModuleFall covers Encounter records.
	ModuleFall Module = "modul-fall"
	// ModuleDiagnose covers Condition records.
	ModuleDiagnose Module = "modul-diagnose"
	// ModuleMedikation covers Medication and MedicationAdministration records.
	ModuleMedikation Module = "modul-medikation"
)

// String returns the module token.
func (m Module) String() string {
	return string(m)
}

// IsValid returns true if this is a known module.
func (m Module) IsValid() bool {
	switch m {
	case ModulePerson, ModuleFall, ModuleDiagnose, ModuleMedikation:
		return true
	default:
		return false
	}
}

// expectedModules maps record types to the module their profile
// declaration is checked against. Consent has no module rule.
var expectedModules = map[string]Module{
	"Patient":                  ModulePerson,
	"Encounter":                ModuleFall,
	"Condition":                ModuleDiagnose,
	"Medication":               ModuleMedikation,
	"MedicationAdministration": ModuleMedikation,
}

// ExpectedModule returns the module a record type is expected to declare,
// or false when the type has no module rule.
func ExpectedModule(recordType string) (Module, bool) {
	m, ok := expectedModules[recordType]
	return m, ok
}

var modulePattern = regexp.MustCompile(`/modul-([^/]+)/`)

// ModuleFromProfile extracts the module token from a profile URI, e.g.
// https://www.medizininformatik-initiative.de/fhir/core/modul-person/StructureDefinition/Patient
// yields "modul-person". Returns "unknown" for URIs outside the
// Kerndatensatz namespace or without a module segment.
func ModuleFromProfile(profileURL string) string {
	if profileURL == "" || !strings.Contains(profileURL, "medizininformatik-initiative") {
		return "unknown"
	}
	match := modulePattern.FindStringSubmatch(profileURL)
	if match == nil {
		return "unknown"
	}
	return "modul-" + match[1]
}
