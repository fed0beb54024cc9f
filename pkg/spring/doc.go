// Package spring implements the force-directed layout optimizer.
//
// Each iteration moves every item along the sum of spring forces exerted by
// its neighbour set: a neighbour that is currently closer than its desired
// distance pushes the item away, one that is farther pulls it closer. The
// summed force is averaged over the neighbours and scaled by the learning
// rate. All items read the positions as they were at the start of the
// iteration and write into a second buffer (a Jacobi update), so item order
// within an iteration has no effect and an interrupted run never leaves a
// half-updated layout.
//
// Restricting each item to its k nearest neighbours bounds an iteration at
// O(N·k) instead of O(N²).
//
// # Runs
//
// [Engine.Start] returns a [Run] handle. Ranging over [Run.Records] drives
// the optimization lazily: every stress check yields one record, and ranging
// again after the run has finished replays the history.
//
//	eng, err := spring.New(coll, spring.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	run := eng.Start(ctx)
//	for rec := range run.Records() {
//	    fmt.Println(rec.Iteration, rec.Stress)
//	}
//	res := run.Wait()
//
// Stress is checked at iteration 0, every CheckEvery iterations and at the
// last iteration. The run stops when two consecutive checks differ by less
// than ConvergenceEpsilon, when MaxIterations is reached, or when ctx is
// done at an iteration boundary.
package spring
