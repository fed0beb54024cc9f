package items

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Metric computes the high-dimensional distance between two feature vectors
// of equal length.
type Metric interface {
	Name() string
	Distance(a, b []float64) float64
}

// Metric names accepted by [ParseMetric].
const (
	MetricEuclidean = "euclidean"
	MetricManhattan = "manhattan"
	MetricChebyshev = "chebyshev"
	MetricCosine    = "cosine"
)

// Euclidean is the default metric.
var Euclidean Metric = minkowski{name: MetricEuclidean, l: 2}

// Manhattan sums absolute coordinate differences.
var Manhattan Metric = minkowski{name: MetricManhattan, l: 1}

// Chebyshev takes the largest absolute coordinate difference.
var Chebyshev Metric = minkowski{name: MetricChebyshev, l: math.Inf(1)}

// Cosine is 1 - cos(a, b). Two zero vectors are at distance 0; a zero vector
// is at distance 1 from any non-zero vector.
var Cosine Metric = cosine{}

var metrics = map[string]Metric{
	MetricEuclidean: Euclidean,
	MetricManhattan: Manhattan,
	MetricChebyshev: Chebyshev,
	MetricCosine:    Cosine,
}

// ParseMetric returns the metric registered under name (case-insensitive).
// An empty name selects [Euclidean].
func ParseMetric(name string) (Metric, error) {
	if name == "" {
		return Euclidean, nil
	}
	if m, ok := metrics[strings.ToLower(name)]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown metric %q (must be one of: euclidean, manhattan, chebyshev, cosine)", name)
}

type minkowski struct {
	name string
	l    float64
}

func (m minkowski) Name() string { return m.name }

func (m minkowski) Distance(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, m.l)
}

type cosine struct{}

func (cosine) Name() string { return MetricCosine }

func (cosine) Distance(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	switch {
	case na == 0 && nb == 0:
		return 0
	case na == 0 || nb == 0:
		return 1
	}
	sim := floats.Dot(a, b) / (na * nb)
	// Rounding can push identical directions slightly past 1.
	return max(0, 1-min(sim, 1))
}
