package spring

import (
	"context"
	"iter"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ssaview/pkg/errors"
	"github.com/matzehuels/ssaview/pkg/observability"
	"github.com/matzehuels/ssaview/pkg/results"
)

// Result summarizes a finished run.
type Result struct {
	RunID         string
	InitialStress float64
	Stress        float64
	Alienation    float64
	Iterations    int
	Reason        results.StopReason
	Duration      time.Duration

	// Warning is set to a NUMERIC_DEGENERACY error when every desired
	// distance is zero. The run still completes.
	Warning error
}

// Run is the handle of one optimization run. It owns the run's stress
// history. A Run is driven by one goroutine at a time.
type Run struct {
	ID uuid.UUID

	engine    *Engine
	ctx       context.Context
	collector *results.Collector

	cur, next []float64
	iteration int
	prev      float64
	started   time.Time
	begun     bool
	done      bool
	result    Result
}

// Start prepares a run from the collection's current positions. No work is
// done until the run is drained through Records or Wait. Starting a new run
// finishes any unfinished previous run of the engine as cancelled.
func (e *Engine) Start(ctx context.Context) *Run {
	if e.active != nil && !e.active.done {
		e.active.finish(results.StopCancelled)
	}
	r := &Run{
		ID:        uuid.New(),
		engine:    e,
		ctx:       ctx,
		collector: results.NewCollector(),
	}
	e.active = r
	return r
}

// Run starts a run and drains it.
func (e *Engine) Run(ctx context.Context) Result {
	return e.Start(ctx).Wait()
}

// Records returns the stress records of the run. Ranging over it advances
// the optimization until the next stress check; once the run has finished
// the sequence replays the full history. Breaking out of the range pauses
// the run at an iteration boundary.
func (r *Run) Records() iter.Seq[results.StressRecord] {
	return func(yield func(results.StressRecord) bool) {
		for i := 0; ; i++ {
			for i >= r.collector.Len() {
				if r.done {
					return
				}
				r.advance()
			}
			if !yield(r.collector.At(i)) {
				return
			}
		}
	}
}

// Wait drives the run to completion and returns its result.
func (r *Run) Wait() Result {
	for !r.done {
		r.advance()
	}
	return r.result
}

// Done reports whether the run has stopped.
func (r *Run) Done() bool { return r.done }

// Result returns the result of a finished run, or the zero Result.
func (r *Run) Result() Result { return r.result }

// History returns a snapshot of the records collected so far.
func (r *Run) History() iter.Seq[results.StressRecord] { return r.collector.History() }

// Summary renders the run's final coefficients.
func (r *Run) Summary() string { return r.collector.Summary() }

// Collector returns the run's result collector.
func (r *Run) Collector() *results.Collector { return r.collector }

// advance runs iterations until a stress record is added or the run stops.
func (r *Run) advance() {
	if r.done {
		return
	}
	e := r.engine
	if !r.begun {
		r.begin()
		return
	}

	for {
		if r.ctx.Err() != nil {
			r.finish(results.StopCancelled)
			return
		}

		if err := e.step(r.ctx, r.cur, r.next); err != nil {
			r.finish(results.StopCancelled)
			return
		}
		r.cur, r.next = r.next, r.cur
		_ = e.items.StorePositions(r.cur)
		r.iteration++

		if r.iteration%e.cfg.CheckEvery != 0 && r.iteration != e.cfg.MaxIterations {
			continue
		}

		s := e.eval.Evaluate(r.cur, e.dims)
		r.record(s)
		if math.Abs(s-r.prev) < e.cfg.ConvergenceEpsilon {
			r.finish(results.StopConverged)
			return
		}
		r.prev = s
		if r.iteration >= e.cfg.MaxIterations {
			r.finish(results.StopMaxIterations)
		}
		return
	}
}

func (r *Run) begin() {
	e := r.engine
	r.begun = true
	r.started = time.Now()
	r.cur = e.items.CopyPositions(nil)
	r.next = make([]float64, len(r.cur))

	observability.Layout().OnRunStart(r.ctx, r.ID.String(), e.items.Len(), e.eval.Len())

	if e.degenerate {
		r.record(0)
		r.result.Warning = errors.New(errors.ErrCodeNumericDegeneracy,
			"all %d desired distances are zero; positions left unchanged", e.eval.Len())
		r.finish(results.StopDegenerate)
		return
	}

	r.prev = e.eval.Evaluate(r.cur, e.dims)
	r.result.InitialStress = r.prev
	r.record(r.prev)
}

func (r *Run) record(s float64) {
	e := r.engine
	_ = r.collector.Record(r.iteration, s)
	e.logger.Debug("stress check", "run", r.ID, "iteration", r.iteration, "stress", s)
	observability.Layout().OnStressCheck(r.ctx, r.ID.String(), r.iteration, s)
}

func (r *Run) finish(reason results.StopReason) {
	e := r.engine
	r.done = true

	var alienation float64
	if r.begun && !e.degenerate {
		// A cancelled run may have iterated past its last check.
		if last, _ := r.collector.Last(); last.Iteration < r.iteration {
			r.record(e.eval.Evaluate(r.cur, e.dims))
		}
		alienation = e.eval.Alienation(r.cur, e.dims)
	}
	last, _ := r.collector.Last()

	r.collector.Finish(reason, r.iteration, alienation)
	r.result.RunID = r.ID.String()
	r.result.Stress = last.Stress
	r.result.Alienation = alienation
	r.result.Iterations = r.iteration
	r.result.Reason = reason
	if !r.begun {
		return
	}
	r.result.Duration = time.Since(r.started)

	e.logger.Info("layout finished",
		"run", r.ID,
		"reason", string(reason),
		"iterations", r.iteration,
		"stress", last.Stress,
		"duration", r.result.Duration.Round(time.Millisecond))
	observability.Layout().OnRunComplete(r.ctx, r.ID.String(), r.iteration, last.Stress, string(reason), r.result.Duration)
}
