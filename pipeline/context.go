// Package pipeline provides the rule execution infrastructure.
package pipeline

import (
	"sync"

	fq "github.com/gofhir/quality"
	"github.com/gofhir/quality/model"
)

// Context holds all state needed during evaluation of a single bundle.
// It is passed through all rules and provides shared access to the grouped
// records and the accumulating result.
//
// Context instances are pooled. Use AcquireContext() and Release() to
// manage them properly.
type Context struct {
	// Records holds the bundle's records grouped by type
	Records *model.RecordSet

	// PatientIDs indexes the ids of all Patient records in the bundle.
	// Populated lazily by the reference rule.
	PatientIDs map[string]struct{}

	// Result accumulates check outcomes and issues
	Result *fq.Result

	// Options holds evaluation options
	Options *fq.Options
}

// contextPool holds reusable Context instances.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{}
	},
}

// AcquireContext gets a Context from the pool.
// Call Release() when done to return it to the pool.
func AcquireContext() *Context {
	ctx := contextPool.Get().(*Context)
	ctx.Reset()
	return ctx
}

// Release returns the Context to the pool.
// After calling Release, the Context should not be used.
func (c *Context) Release() {
	if c == nil {
		return
	}
	c.Reset()
	contextPool.Put(c)
}

// Reset clears the context for reuse.
func (c *Context) Reset() {
	c.Records = nil
	c.PatientIDs = nil
	c.Result = nil
	c.Options = nil
}

// NewContext creates a new Context (non-pooled).
// Prefer AcquireContext() for better performance.
func NewContext() *Context {
	return &Context{}
}

// Pass records one passed check.
func (c *Context) Pass() {
	if c.Result != nil {
		c.Result.Pass()
	}
}

// Fail records one failed check with its issue.
func (c *Context) Fail(issue fq.Issue) {
	if c.Result != nil {
		c.Result.Fail(issue)
	}
}

// IndexPatients builds the Patient id index if not already built.
func (c *Context) IndexPatients() map[string]struct{} {
	if c.PatientIDs == nil {
		c.PatientIDs = c.Records.PatientIDs()
	}
	return c.PatientIDs
}
