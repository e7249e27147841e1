// Package model holds the clinical record types the quality engine
// consumes. Optional elements are pointers or zero values; every accessor
// that might be called on an absent element tolerates nil, so rules can
// probe records without guarding each step.
package model

import "encoding/json"

// Bundle is a container document holding record entries plus per-entry
// transport metadata.
type Bundle struct {
	ResourceType string  `json:"resourceType,omitempty"`
	Type         string  `json:"type,omitempty"`
	Entry        []Entry `json:"entry,omitempty"`
}

// Entry wraps one record together with its routing metadata. The request
// part is transport concern only; the engine never reads it.
type Entry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
	Request  *Request        `json:"request,omitempty"`
}

// Request is a Bundle.entry.request.
type Request struct {
	Method string `json:"method,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Meta is a record's metadata, carrying its profile declarations.
type Meta struct {
	Profile []string `json:"profile,omitempty"`
}

// ProfileURIs returns the declared profile URIs, nil-safe.
func (m *Meta) ProfileURIs() []string {
	if m == nil {
		return nil
	}
	return m.Profile
}

// Resource is the part common to every record type.
type Resource struct {
	ResourceType string `json:"resourceType,omitempty"`
	ID           string `json:"id,omitempty"`
	Meta         *Meta  `json:"meta,omitempty"`

	// Raw is the record's original JSON, kept by the loader so FHIRPath
	// constraints can evaluate against the unmodified document.
	Raw json.RawMessage `json:"-"`
}

// RecordID returns the record id, or "unknown" when the record has none.
func (r *Resource) RecordID() string {
	if r == nil || r.ID == "" {
		return "unknown"
	}
	return r.ID
}

// ProfileURIs returns the record's declared profile URIs, nil-safe.
func (r *Resource) ProfileURIs() []string {
	if r == nil {
		return nil
	}
	return r.Meta.ProfileURIs()
}

// Identifier is a business identifier.
type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

// HumanName is a person name.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Address is a postal address.
type Address struct {
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

// Coding is one code from a code system.
type Coding struct {
	System  string `json:"system,omitempty"`
	Version string `json:"version,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is a concept expressed as one or more codings.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Codings returns the concept's codings, nil-safe.
func (c *CodeableConcept) Codings() []Coding {
	if c == nil {
		return nil
	}
	return c.Coding
}

// Reference is a pointer to another record.
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

// Target returns the reference string, nil-safe.
func (r *Reference) Target() string {
	if r == nil {
		return ""
	}
	return r.Reference
}

// Period is a start/end time range. Values stay strings: the engine's
// date gate is purely syntactic.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// StartDate returns the period start, nil-safe.
func (p *Period) StartDate() string {
	if p == nil {
		return ""
	}
	return p.Start
}

// EndDate returns the period end, nil-safe.
func (p *Period) EndDate() string {
	if p == nil {
		return ""
	}
	return p.End
}

// Patient is a person receiving care.
type Patient struct {
	Resource
	Identifier []Identifier `json:"identifier,omitempty"`
	Name       []HumanName  `json:"name,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	BirthDate  string       `json:"birthDate,omitempty"`
	Address    []Address    `json:"address,omitempty"`
}

// Encounter is a healthcare contact ("Fall" in Kerndatensatz terms).
type Encounter struct {
	Resource
	Status  string     `json:"status,omitempty"`
	Class   *Coding    `json:"class,omitempty"`
	Subject *Reference `json:"subject,omitempty"`
	Period  *Period    `json:"period,omitempty"`
}

// Condition is a diagnosis.
type Condition struct {
	Resource
	Code    *CodeableConcept `json:"code,omitempty"`
	Subject *Reference       `json:"subject,omitempty"`
}

// Medication is a medicinal product.
type Medication struct {
	Resource
	Code *CodeableConcept `json:"code,omitempty"`
}

// MedicationAdministration records the giving of a medication.
type MedicationAdministration struct {
	Resource
	Status  string     `json:"status,omitempty"`
	Subject *Reference `json:"subject,omitempty"`
}

// Consent is a patient consent record. The battery currently carries no
// Consent rules; the type exists so Consent entries are recognised and
// available to constraints.
type Consent struct {
	Resource
	Status  string     `json:"status,omitempty"`
	Patient *Reference `json:"patient,omitempty"`
}

// RecordSet groups a bundle's records into the six fixed type buckets the
// engine operates on. Records of any other type are not represented.
type RecordSet struct {
	Patients                  []*Patient
	Encounters                []*Encounter
	Conditions                []*Condition
	Medications               []*Medication
	MedicationAdministrations []*MedicationAdministration
	Consents                  []*Consent
}

// Len returns the number of grouped records.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Patients) + len(s.Encounters) + len(s.Conditions) +
		len(s.Medications) + len(s.MedicationAdministrations) + len(s.Consents)
}

// Empty reports whether the set holds no records.
func (s *RecordSet) Empty() bool {
	return s.Len() == 0
}

// PatientIDs returns the set of Patient record ids present. Records
// without an id are not included.
func (s *RecordSet) PatientIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if s == nil {
		return ids
	}
	for _, p := range s.Patients {
		if p != nil && p.ID != "" {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}
