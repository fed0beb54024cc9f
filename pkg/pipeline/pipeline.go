// Package pipeline wires vector loading, initialization and the spring
// layout engine into one run.
//
// This package is the single entry point used by the CLI. It owns the run
// configuration ([Options]), its defaults and its TOML file form, so every
// caller gets the same behavior.
//
// # Stages
//
//  1. Load: read feature vectors from a CSV/TSV file (or take them in memory)
//  2. Initialize: place items randomly, by PCA, or keep given positions
//  3. Layout: build neighbour sets and run the spring optimizer
//
// # Usage
//
//	opts := pipeline.DefaultOptions()
//	opts.Input = "points.csv"
//	res, err := pipeline.NewRunner(logger).Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Run.Summary())
//
// # Configuration Files
//
// [LoadOptionsFile] reads a TOML file on top of the defaults:
//
//	input  = "points.csv"
//	metric = "cosine"
//	init   = "pca"
//
//	[layout]
//	learning_rate  = 0.05
//	max_iterations = 1000
//	neighbours     = 15
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/ssaview/pkg/errors"
	"github.com/matzehuels/ssaview/pkg/items"
	"github.com/matzehuels/ssaview/pkg/results"
	"github.com/matzehuels/ssaview/pkg/spring"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMetric is the high-dimensional distance.
	DefaultMetric = "euclidean"

	// DefaultInit is the position initializer.
	DefaultInit = spring.InitRandom

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the side of the square random positions are drawn from.
	DefaultScale = 1.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one layout run.
// Zero fields are replaced by defaults in SetDefaults, except
// Layout.ConvergenceEpsilon where zero disables the convergence test.
type Options struct {
	// Input is the vector file. Ignored by Runner.Layout.
	Input string `json:"input,omitempty" toml:"input"`

	Metric string      `json:"metric,omitempty" toml:"metric"`
	Dims   int         `json:"dims,omitempty" toml:"dims"`
	Init   spring.Init `json:"init,omitempty" toml:"init"`
	Seed   uint64      `json:"seed,omitempty" toml:"seed"`
	Scale  float64     `json:"scale,omitempty" toml:"scale"`

	Layout spring.Config `json:"layout" toml:"layout"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// Progress, if set, receives every stress record as the run produces it.
	Progress func(results.StressRecord) `json:"-" toml:"-"`
}

// DefaultOptions returns options with every default applied, including the
// default convergence epsilon.
func DefaultOptions() Options {
	o := Options{Layout: spring.DefaultConfig()}
	o.SetDefaults()
	return o
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Metric == "" {
		o.Metric = DefaultMetric
	}
	if o.Dims == 0 {
		o.Dims = items.DefaultDimensions
	}
	if o.Init == "" {
		o.Init = DefaultInit
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Layout.LearningRate == 0 {
		o.Layout.LearningRate = spring.DefaultLearningRate
	}
	if o.Layout.MaxIterations == 0 {
		o.Layout.MaxIterations = spring.DefaultMaxIterations
	}
	if o.Layout.CheckEvery == 0 {
		o.Layout.CheckEvery = spring.DefaultCheckEvery
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every option. It does not apply defaults.
func (o *Options) Validate() error {
	if _, err := items.ParseMetric(o.Metric); err != nil {
		return errors.Configuration("%v", err)
	}
	if o.Dims < 1 {
		return errors.Configuration("dims must be at least 1, got %d", o.Dims)
	}
	if _, err := spring.ParseInit(string(o.Init)); err != nil {
		return errors.Configuration("%v", err)
	}
	if o.Scale < 0 {
		return errors.Configuration("scale must not be negative, got %v", o.Scale)
	}
	return o.Layout.Validate()
}

// LoadOptionsFile decodes a TOML file on top of [DefaultOptions]. Keys that
// match no option are an INVALID_CONFIGURATION error.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.Configuration("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// String renders the options as TOML, the form read by LoadOptionsFile.
func (o Options) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(o); err != nil {
		return fmt.Sprintf("<options: %v>", err)
	}
	return b.String()
}
