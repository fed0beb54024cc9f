package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ssaview/pkg/items"
	pkgio "github.com/matzehuels/ssaview/pkg/io"
	"github.com/matzehuels/ssaview/pkg/spring"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded file, nil when vectors were passed in memory.
	Dataset *pkgio.Dataset

	// Collection holds the final positions.
	Collection *items.Collection

	Engine *spring.Engine

	// Run is the finished run handle; its collector holds the stress history.
	Run *spring.Run

	// Layout is the run's result.
	Layout spring.Result

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items    int
	Features int
	Pairs    int
	// CachedPairs counts the desired distances computed for the run.
	CachedPairs int
	LoadTime    time.Duration
	LayoutTime  time.Duration
}

// Runner executes the pipeline.
//
// The Runner holds no run state, so multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute loads opts.Input and lays it out.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Input == "" {
		return nil, fmt.Errorf("invalid options: input is required")
	}
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}

	start := time.Now()
	ds, err := pkgio.ImportVectors(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(start)

	opts.Logger.Info("loaded vectors",
		"source", opts.Input,
		"items", len(ds.Vectors),
		"features", len(ds.Vectors[0]),
		"duration", loadTime)

	res, err := r.layout(ctx, ds.Vectors, opts)
	if err != nil {
		return nil, err
	}
	res.Dataset = ds
	res.Stats.LoadTime = loadTime
	return res, nil
}

// Layout lays out vectors held in memory.
func (r *Runner) Layout(ctx context.Context, vectors [][]float64, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	return r.layout(ctx, vectors, opts)
}

// NewCollection builds a collection from vectors with the metric and
// dimensionality of opts, positioned by opts.Init.
func NewCollection(vectors [][]float64, opts Options) (*items.Collection, error) {
	metric, err := items.ParseMetric(opts.Metric)
	if err != nil {
		return nil, err
	}
	dims := opts.Dims
	if dims == 0 {
		dims = items.DefaultDimensions
	}
	c, err := items.New(vectors, items.WithMetric(metric), items.WithDimensions(dims))
	if err != nil {
		return nil, err
	}
	if err := opts.Init.Apply(c, opts.Seed, opts.Scale); err != nil {
		return nil, fmt.Errorf("init %s: %w", opts.Init, err)
	}
	return c, nil
}

func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (r *Runner) layout(ctx context.Context, vectors [][]float64, opts Options) (*Result, error) {
	c, err := NewCollection(vectors, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	e, err := spring.New(c, opts.Layout, spring.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	run := e.Start(ctx)
	if opts.Progress != nil {
		for rec := range run.Records() {
			opts.Progress(rec)
		}
	}
	res := run.Wait()

	if res.Warning != nil {
		opts.Logger.Warn("degenerate input", "err", res.Warning)
	}
	opts.Logger.Debug("distance cache", "pairs", c.CachedPairs())

	return &Result{
		Collection: c,
		Engine:     e,
		Run:        run,
		Layout:     res,
		Stats: Stats{
			Items:       c.Len(),
			Features:    c.Features(),
			Pairs:       e.Evaluator().Len(),
			CachedPairs: c.CachedPairs(),
			LayoutTime:  time.Since(start),
		},
	}, nil
}
