// Package loader parses bundle documents leniently and extracts the
// metadata the engine and reports work from. Real-world exports are often
// imperfect, so parsing is forgiving: the strict schema check runs on the
// side and records findings without failing the load.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/gofhir/fhir/r4"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/model"
	"github.com/gofhir/quality/pkg/logger"
)

// ParseResult holds everything learned from loading one bundle document.
type ParseResult struct {
	// FilePath and FileName identify the source when loaded from disk.
	FilePath string
	FileName string

	// Valid reports whether the document is a usable Bundle. Error holds
	// the reason when it is not.
	Valid bool
	Error string

	// BundleType is the bundle's declared type (transaction, collection, ...).
	BundleType string

	// EntryCount is the number of entries in the bundle.
	EntryCount int

	// ResourceCounts maps record types to their occurrence count.
	ResourceCounts map[string]int

	// Modules lists the Kerndatensatz modules declared anywhere in the
	// bundle, sorted for stable output.
	Modules []string

	// SchemaIssues holds findings from the strict schema side-check.
	// They never invalidate the load.
	SchemaIssues []string

	// Bundle is the decoded document; Records the grouped engine input.
	Bundle  *model.Bundle
	Records *model.RecordSet
}

// Load parses a raw bundle document.
func Load(data []byte) *ParseResult {
	result := &ParseResult{
		ResourceCounts: make(map[string]int),
	}

	rtype, err := jsonparser.GetString(data, "resourceType")
	if err != nil {
		if err == jsonparser.KeyPathNotFoundError {
			result.Error = "Not a Bundle resource. Found: none"
		} else {
			result.Error = fmt.Sprintf("Invalid JSON: %v", err)
		}
		return result
	}
	if rtype != "Bundle" {
		result.Error = fmt.Sprintf("Not a Bundle resource. Found: %s", rtype)
		return result
	}

	var bundle model.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		result.Error = fmt.Sprintf("Invalid JSON: %v", err)
		return result
	}

	result.Valid = true
	result.Bundle = &bundle
	result.BundleType = bundle.Type
	result.EntryCount = len(bundle.Entry)

	// Strict schema side-check. Findings are captured, never fatal.
	var strict r4.Bundle
	if err := json.Unmarshal(data, &strict); err != nil {
		result.SchemaIssues = append(result.SchemaIssues,
			truncate(fmt.Sprintf("FHIR schema validation: %v", err), 200))
	}

	result.inventory(bundle.Entry)
	result.Records = GroupEntries(&bundle)

	logger.Debug("loaded bundle: type=%s entries=%d modules=%v",
		result.BundleType, result.EntryCount, result.Modules)

	return result
}

// LoadFile reads and parses a bundle document from disk.
func LoadFile(path string) *ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ParseResult{
			FilePath:       path,
			FileName:       filepath.Base(path),
			ResourceCounts: make(map[string]int),
			Error:          fmt.Sprintf("Error loading bundle: %v", err),
		}
	}

	result := Load(data)
	result.FilePath = path
	result.FileName = filepath.Base(path)
	return result
}

// inventory counts resource types and collects declared modules.
func (r *ParseResult) inventory(entries []model.Entry) {
	modules := make(map[string]struct{})

	for _, entry := range entries {
		if len(entry.Resource) == 0 {
			continue
		}
		rtype, err := jsonparser.GetString(entry.Resource, "resourceType")
		if err != nil || rtype == "" {
			continue
		}
		r.ResourceCounts[rtype]++

		_, _ = jsonparser.ArrayEach(entry.Resource, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
			if dataType != jsonparser.String {
				return
			}
			if module := fq.ModuleFromProfile(string(value)); module != "unknown" {
				modules[module] = struct{}{}
			}
		}, "meta", "profile")
	}

	r.Modules = make([]string, 0, len(modules))
	for m := range modules {
		r.Modules = append(r.Modules, m)
	}
	sort.Strings(r.Modules)
}

// StructureIssues reports structural oddities that are worth surfacing
// but do not affect the quality score.
func (r *ParseResult) StructureIssues() []string {
	var issues []string

	if !r.Valid {
		issues = append(issues, fmt.Sprintf("Bundle validation failed: %s", r.Error))
		return issues
	}

	switch r.BundleType {
	case "transaction", "collection", "batch":
	default:
		issues = append(issues, fmt.Sprintf("Unusual bundle type: %s", r.BundleType))
	}

	if r.EntryCount == 0 {
		issues = append(issues, "Bundle is empty (no entries)")
	}

	if len(r.Modules) == 0 {
		issues = append(issues, "No MII profiles detected in bundle")
	}

	return issues
}

// Summary returns a human-readable description of the loaded bundle.
func (r *ParseResult) Summary() string {
	if !r.Valid {
		return fmt.Sprintf("Invalid: %s", r.Error)
	}

	types := make([]string, 0, len(r.ResourceCounts))
	for t := range r.ResourceCounts {
		types = append(types, t)
	}
	sort.Strings(types)

	modules := "None detected"
	if len(r.Modules) > 0 {
		modules = strings.Join(r.Modules, ", ")
	}

	return strings.Join([]string{
		fmt.Sprintf("Bundle type: %s", r.BundleType),
		fmt.Sprintf("Entries: %d", r.EntryCount),
		fmt.Sprintf("Resource types: %s", strings.Join(types, ", ")),
		fmt.Sprintf("MII modules: %s", modules),
	}, "\n")
}

// GroupEntries groups a bundle's entries into the typed record buckets.
// Entries whose resource type is outside the six known types are skipped;
// entries that fail to decode are skipped as well and reported via the
// schema side-check.
func GroupEntries(bundle *model.Bundle) *model.RecordSet {
	set := &model.RecordSet{}
	if bundle == nil {
		return set
	}

	for _, entry := range bundle.Entry {
		if len(entry.Resource) == 0 {
			continue
		}
		rtype, err := jsonparser.GetString(entry.Resource, "resourceType")
		if err != nil {
			continue
		}

		switch rtype {
		case "Patient":
			var rec model.Patient
			if json.Unmarshal(entry.Resource, &rec) == nil {
				rec.Raw = entry.Resource
				set.Patients = append(set.Patients, &rec)
			}
		case "Encounter":
			var rec model.Encounter
			if json.Unmarshal(entry.Resource, &rec) == nil {
				rec.Raw = entry.Resource
				set.Encounters = append(set.Encounters, &rec)
			}
		case "Condition":
			var rec model.Condition
			if json.Unmarshal(entry.Resource, &rec) == nil {
				rec.Raw = entry.Resource
				set.Conditions = append(set.Conditions, &rec)
			}
		case "Medication":
			var rec model.Medication
			if json.Unmarshal(entry.Resource, &rec) == nil {
				rec.Raw = entry.Resource
				set.Medications = append(set.Medications, &rec)
			}
		case "MedicationAdministration":
			var rec model.MedicationAdministration
			if json.Unmarshal(entry.Resource, &rec) == nil {
				rec.Raw = entry.Resource
				set.MedicationAdministrations = append(set.MedicationAdministrations, &rec)
			}
		case "Consent":
			var rec model.Consent
			if json.Unmarshal(entry.Resource, &rec) == nil {
				rec.Raw = entry.Resource
				set.Consents = append(set.Consents, &rec)
			}
		}
	}

	return set
}

// truncate shortens a message for display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
