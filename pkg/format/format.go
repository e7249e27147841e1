// Package format provides the syntactic gates the quality rules apply to
// string-valued fields. Every check is a pure function over the value; the
// patterns are fixed and compiled once.
package format

import (
	"regexp"
	"strings"
)

var (
	// datePattern matches values that begin with a YYYY-MM-DD shape. The
	// gate is deliberately lenient: it checks the shape, not the calendar,
	// so "2024-13-45" passes.
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

	// postalPattern matches German postal codes: exactly five digits.
	postalPattern = regexp.MustCompile(`^\d{5}$`)

	// icd10Pattern matches ICD-10-GM codes. The dot is optional even when
	// sub-digits follow, so both "E11.9" and "E119" pass.
	icd10Pattern = regexp.MustCompile(`^[A-Z]\d{2}(\.?\d{0,2})?$`)
)

// ValidDate reports whether value starts with a YYYY-MM-DD date shape.
func ValidDate(value string) bool {
	return datePattern.MatchString(value)
}

// ValidGermanPostalCode reports whether value is a five-digit German
// postal code.
func ValidGermanPostalCode(value string) bool {
	return postalPattern.MatchString(value)
}

// ValidICD10GM reports whether value has the shape of an ICD-10-GM code.
func ValidICD10GM(value string) bool {
	return icd10Pattern.MatchString(value)
}

// IsICD10GMSystem reports whether system identifies an ICD-10-GM code
// system. The match is a case-insensitive substring check so both the
// BfArM and the legacy DIMDI URIs qualify.
func IsICD10GMSystem(system string) bool {
	return strings.Contains(strings.ToLower(system), "icd-10-gm")
}
