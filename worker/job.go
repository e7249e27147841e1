package worker

import (
	"github.com/google/uuid"

	fq "github.com/gofhir/quality"
)

// Job represents one bundle evaluation to be processed by a worker.
type Job struct {
	// ID is a unique identifier for this job.
	ID string

	// Bundle is the bundle document to evaluate (as JSON bytes).
	Bundle []byte

	// FileName is an optional source label carried through to the result.
	FileName string
}

// NewJob creates a job for the given bundle with a generated ID.
func NewJob(bundle []byte) Job {
	return Job{
		ID:     uuid.NewString(),
		Bundle: bundle,
	}
}

// JobResult represents the outcome of one evaluation job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// FileName is the source label from the job, if any.
	FileName string

	// Result contains the evaluation outcome.
	Result *fq.Result

	// Error contains any error that occurred during evaluation.
	Error error

	// Duration is the time taken to evaluate (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results collected from a pool.
type BatchResult struct {
	// Results contains all job results in completion order.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// TotalDuration is the total evaluation time (in nanoseconds).
	TotalDuration int64
}

// Passed reports whether every completed job passed its evaluation.
// Jobs that errored count as failed.
func (br *BatchResult) Passed() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return false
		}
		if r.Result != nil && !r.Result.Passed() {
			return false
		}
	}
	return true
}

// ErrorCount returns the total number of error-severity issues across
// all results.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += r.Result.ErrorCount()
		}
	}
	return count
}
