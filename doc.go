// Package fhirquality scores the data quality of FHIR bundles against the
// Kerndatensatz of the Medizininformatik-Initiative (MII).
//
// The engine consumes a parsed bundle, runs a fixed battery of
// field-presence, format, terminology and cross-reference checks per
// record type, and produces a scored, categorized issue list. Findings are
// quality issues, never Go errors: a malformed record degrades the score,
// it does not fail the evaluation.
//
// # Quick Start
//
//	import (
//	    fq "github.com/gofhir/quality"
//	    "github.com/gofhir/quality/engine"
//	    "github.com/gofhir/quality/loader"
//	)
//
//	parsed := loader.Load(bundleJSON)
//	if !parsed.Valid {
//	    log.Fatal(parsed.Error)
//	}
//
//	eng := engine.New()
//	result, err := eng.EvaluateRecords(ctx, parsed.Records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("score %.2f, passed=%v\n", result.Score(), result.Passed())
//	result.Release() // Return to pool for better performance
//
// # Verdict semantics
//
// A bundle passes iff it produced zero error-severity issues. Warnings and
// infos lower the score but never the verdict. An empty bundle runs zero
// checks, scores 0.0 and passes vacuously.
//
// # Functional Options
//
//	eng := engine.New(
//	    fq.WithReferenceChecks(true),
//	    fq.WithWorkerCount(runtime.NumCPU()),
//	    fq.WithConstraint(fq.Constraint{
//	        RecordType:  "Patient",
//	        Expression:  "address.country.exists()",
//	        Description: "Patient address has no country",
//	    }),
//	)
package fhirquality

// Version is the library version.
const Version = "0.3.0"
