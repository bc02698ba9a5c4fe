// Package batch computes many independent stencils in parallel.
//
// Every stencil is a separate solver call with its own working table, so the
// runner only has to partition the input across workers:
//
//	r := batch.New(batch.Options{Workers: 4, Logger: log})
//	results, err := r.Run(ctx, job.Stencils)
//
// Solver errors stay on the individual [Result]; they never abort the batch.
// Cancellation is observed between stencils.
package batch
