package spring

import (
	"context"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ssaview/pkg/items"
	"github.com/matzehuels/ssaview/pkg/neighbour"
	"github.com/matzehuels/ssaview/pkg/stress"
)

// zeroDistance is the current distance below which two items are treated
// as coincident and pushed apart along the first axis.
const zeroDistance = 1e-12

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine optimizes the positions of one collection.
//
// Neighbour sets and the stress pair set are built once in New; desired
// distances never change, so they stay valid for every run.
type Engine struct {
	items      *items.Collection
	cfg        Config
	dims       int
	sets       []neighbour.Set
	eval       *stress.Evaluator
	degenerate bool
	logger     *log.Logger

	active *Run
}

// New validates cfg and builds the neighbour sets of every item.
func New(c *items.Collection, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		items:  c,
		cfg:    cfg,
		dims:   c.Dimensions(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	sets, err := neighbour.NewBuilder(c).BuildAll(cfg.Neighbours)
	if err != nil {
		return nil, err
	}
	e.sets = sets
	e.eval = stress.New(sets)
	e.degenerate = e.eval.Degenerate()

	e.logger.Debug("built neighbour sets",
		"items", c.Len(),
		"pairs", e.eval.Len(),
		"neighbours", cfg.Neighbours,
		"degenerate", e.degenerate)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Collection returns the collection being laid out.
func (e *Engine) Collection() *items.Collection { return e.items }

// Evaluator returns the stress evaluator over the engine's pair set.
func (e *Engine) Evaluator() *stress.Evaluator { return e.eval }

// Set returns the neighbour set of item i in processing order.
func (e *Engine) Set(i int) neighbour.Set {
	s := e.sets[i]
	s.Neighbours = slices.Clone(s.Neighbours)
	return s
}

// Degenerate reports whether every desired distance in the pair set is zero.
func (e *Engine) Degenerate() bool { return e.degenerate }

// Stress evaluates the collection's current positions.
func (e *Engine) Stress() float64 {
	if e.degenerate {
		return 0
	}
	return e.eval.Evaluate(e.items.CopyPositions(nil), e.dims)
}

// Alienation returns the coefficient of alienation of the current positions.
func (e *Engine) Alienation() float64 {
	if e.degenerate {
		return 0
	}
	return e.eval.Alienation(e.items.CopyPositions(nil), e.dims)
}

// step computes one Jacobi iteration from cur into next. Parallel chunks
// check ctx before they start; on error next is incomplete and must be
// discarded.
func (e *Engine) step(ctx context.Context, cur, next []float64) error {
	n := len(e.sets)
	workers := min(max(e.cfg.Workers, 1), n)
	if workers <= 1 {
		e.forces(cur, next, 0, n)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.forces(cur, next, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// forces writes the updated positions of items [lo, hi) into next. It only
// reads cur and only writes next's slots for those items.
func (e *Engine) forces(cur, next []float64, lo, hi int) {
	dims := e.dims
	delta := make([]float64, dims)

	for i := lo; i < hi; i++ {
		pi := cur[i*dims : (i+1)*dims]
		out := next[i*dims : (i+1)*dims]
		copy(out, pi)

		set := e.sets[i]
		if set.Len() == 0 {
			continue
		}
		clear(delta)

		for _, nb := range set.Neighbours {
			j := nb.Index
			pj := cur[j*dims : (j+1)*dims]
			d := dist(pi, pj)
			gap := nb.Distance - d

			if d < zeroDistance {
				// Coincident: unit vector is +e0 from the lower index to the higher.
				if i < j {
					delta[0] -= gap
				} else {
					delta[0] += gap
				}
				continue
			}
			for k := range delta {
				delta[k] -= gap * (pj[k] - pi[k]) / d
			}
		}

		scale := e.cfg.LearningRate / float64(set.Len())
		for k := range out {
			out[k] += scale * delta[k]
		}
	}
}

func dist(a, b []float64) float64 {
	var s float64
	for k := range a {
		d := a[k] - b[k]
		s += d * d
	}
	return math.Sqrt(s)
}
