// Package rule implements the Kerndatensatz quality rules. Each rule
// covers one record type or one cross-record concern; the pipeline runs
// them in a fixed order so results are reproducible.
package rule

import (
	"fmt"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/pipeline"
	"github.com/gofhir/quality/pkg/profile"
)

// checkModuleProfiles verifies that a record's declared profiles contain
// the expected Kerndatensatz module token. A missing declaration is a
// warning, not an error: the record may still carry usable data.
func checkModuleProfiles(pctx *pipeline.Context, rtype, rid string, profiles []string, module fq.Module) {
	if pctx.Options != nil && !pctx.Options.CheckProfiles {
		return
	}
	if profile.HasModule(profiles, string(module)) {
		pctx.Pass()
		return
	}
	pctx.Fail(fq.Warning(fq.CategoryMissingData).
		Describe(fmt.Sprintf("Missing MII %s profile", module)).
		For(rtype, rid).
		Build())
}

// checkRequired records a required-field check. present reflects whether
// the field carries a value; empty strings and empty lists count absent.
func checkRequired(pctx *pipeline.Context, rtype, rid, field string, present bool) {
	if present {
		pctx.Pass()
		return
	}
	pctx.Fail(fq.Error(fq.CategoryMissingData).
		Describe(fmt.Sprintf("Required field '%s' is missing or empty", field)).
		For(rtype, rid).
		Build())
}
