// Package worker provides a worker pool for streaming bundle evaluation.
//
// The pool accepts jobs as they arrive and emits results on a channel,
// which suits long-running intake processes where bundles trickle in.
// For a fixed batch, engine.EvaluateBatch is simpler and keeps the
// result order aligned with the input.
//
// Example usage:
//
//	pool := worker.NewPool(eng, 4)
//	defer pool.Close()
//
//	for _, bundle := range bundles {
//	    pool.Submit(worker.NewJob(bundle))
//	}
//
//	for result := range pool.Results() {
//	    if result.Error != nil {
//	        // Handle error
//	    }
//	    // Process result.Result
//	}
package worker
