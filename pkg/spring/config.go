package spring

import (
	"github.com/matzehuels/ssaview/pkg/errors"
)

// Default configuration values.
const (
	DefaultLearningRate       = 0.1
	DefaultMaxIterations      = 500
	DefaultConvergenceEpsilon = 1e-6
	DefaultCheckEvery         = 10
)

// Config controls the optimizer. The zero value is invalid; start from
// [DefaultConfig].
type Config struct {
	// LearningRate scales the averaged force applied per iteration.
	LearningRate float64 `json:"learning_rate" toml:"learning_rate"`

	// MaxIterations is the iteration budget.
	MaxIterations int `json:"max_iterations" toml:"max_iterations"`

	// ConvergenceEpsilon stops the run when consecutive stress checks differ
	// by less than this. Zero disables the convergence test.
	ConvergenceEpsilon float64 `json:"convergence_epsilon" toml:"convergence_epsilon"`

	// CheckEvery is the number of iterations between stress checks.
	CheckEvery int `json:"check_every" toml:"check_every"`

	// Neighbours restricts every item to its k nearest neighbours. Zero uses
	// all other items.
	Neighbours int `json:"neighbours,omitempty" toml:"neighbours"`

	// Workers splits force computation across goroutines. Zero or one
	// computes sequentially.
	Workers int `json:"workers,omitempty" toml:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate:       DefaultLearningRate,
		MaxIterations:      DefaultMaxIterations,
		ConvergenceEpsilon: DefaultConvergenceEpsilon,
		CheckEvery:         DefaultCheckEvery,
	}
}

// Validate rejects configurations the optimizer cannot run with.
func (c Config) Validate() error {
	switch {
	case !(c.LearningRate > 0):
		return errors.Configuration("learning rate must be positive, got %v", c.LearningRate)
	case c.MaxIterations <= 0:
		return errors.Configuration("iteration budget must be positive, got %d", c.MaxIterations)
	case c.CheckEvery <= 0:
		return errors.Configuration("check interval must be positive, got %d", c.CheckEvery)
	case !(c.ConvergenceEpsilon >= 0):
		return errors.Configuration("convergence epsilon must not be negative, got %v", c.ConvergenceEpsilon)
	case c.Neighbours < 0:
		return errors.Configuration("neighbour count must not be negative, got %d", c.Neighbours)
	case c.Workers < 0:
		return errors.Configuration("worker count must not be negative, got %d", c.Workers)
	}
	return nil
}
