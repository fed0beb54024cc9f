package items

import (
	"math"
	"slices"
	"sync"

	"github.com/matzehuels/ssaview/pkg/errors"
)

// DefaultDimensions is the output dimensionality used when none is given.
const DefaultDimensions = 2

// Point is a low-dimensional position. It has Dimensions() coordinates.
type Point []float64

// X returns the first coordinate.
func (p Point) X() float64 { return p.coord(0) }

// Y returns the second coordinate, or 0 for one-dimensional layouts.
func (p Point) Y() float64 { return p.coord(1) }

func (p Point) coord(i int) float64 {
	if i < len(p) {
		return p[i]
	}
	return 0
}

// pair is an unordered index pair with lo <= hi.
type pair struct{ lo, hi int }

func makePair(i, j int) pair {
	if i > j {
		i, j = j, i
	}
	return pair{lo: i, hi: j}
}

// Option configures a Collection.
type Option func(*Collection)

// WithMetric sets the high-dimensional metric. Nil keeps [Euclidean].
func WithMetric(m Metric) Option {
	return func(c *Collection) {
		if m != nil {
			c.metric = m
		}
	}
}

// WithDimensions sets the output dimensionality.
func WithDimensions(dims int) Option {
	return func(c *Collection) { c.dims = dims }
}

// Collection owns the data items and the desired-distance cache.
//
// Feature vectors never change after New, so a cached desired distance is
// valid for the lifetime of the collection. The cache is guarded by a mutex;
// positions are not, and must only be written by one goroutine at a time.
type Collection struct {
	vectors   [][]float64
	positions []float64
	dims      int
	metric    Metric

	mu    sync.Mutex
	cache map[pair]float64
}

// New builds a collection from feature vectors. The vectors are copied.
// All positions start at the origin.
//
// It fails with [errors.ErrCodeConfiguration] when vectors is empty, when
// vectors have different lengths or contain NaN/Inf, or when the output
// dimensionality is not positive.
func New(vectors [][]float64, opts ...Option) (*Collection, error) {
	c := &Collection{
		dims:   DefaultDimensions,
		metric: Euclidean,
		cache:  make(map[pair]float64),
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(vectors) == 0 {
		return nil, errors.Configuration("item collection is empty")
	}
	if c.dims < 1 {
		return nil, errors.Configuration("output dimensions must be positive, got %d", c.dims)
	}

	width := len(vectors[0])
	c.vectors = make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != width {
			return nil, errors.Configuration("item %d has %d features, want %d", i, len(v), width)
		}
		for k, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, errors.Configuration("item %d feature %d is not finite", i, k)
			}
		}
		c.vectors[i] = slices.Clone(v)
	}
	c.positions = make([]float64, len(vectors)*c.dims)
	return c, nil
}

// Len returns the number of items.
func (c *Collection) Len() int { return len(c.vectors) }

// Dimensions returns the output dimensionality.
func (c *Collection) Dimensions() int { return c.dims }

// Features returns the feature-vector length shared by all items.
func (c *Collection) Features() int { return len(c.vectors[0]) }

// Metric returns the high-dimensional metric.
func (c *Collection) Metric() Metric { return c.metric }

func (c *Collection) check(i int) error {
	if i < 0 || i >= len(c.vectors) {
		return errors.IndexOutOfRange(i, len(c.vectors))
	}
	return nil
}

// Vector returns a copy of item i's feature vector.
func (c *Collection) Vector(i int) ([]float64, error) {
	if err := c.check(i); err != nil {
		return nil, err
	}
	return slices.Clone(c.vectors[i]), nil
}

// DesiredDistance returns the high-dimensional distance between items i and
// j, computing and caching it on first use. DesiredDistance(i, i) is 0.
func (c *Collection) DesiredDistance(i, j int) (float64, error) {
	if err := c.check(i); err != nil {
		return 0, err
	}
	if err := c.check(j); err != nil {
		return 0, err
	}
	if i == j {
		return 0, nil
	}

	key := makePair(i, j)
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.cache[key]; ok {
		return d, nil
	}
	d := c.metric.Distance(c.vectors[key.lo], c.vectors[key.hi])
	c.cache[key] = d
	return d, nil
}

// CachedPairs returns how many unordered pairs have a cached distance.
func (c *Collection) CachedPairs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Degenerate reports whether every desired distance is zero, which is the
// case for a single item or when all feature vectors coincide. It stops at
// the first non-zero pair.
func (c *Collection) Degenerate() bool {
	n := c.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d, _ := c.DesiredDistance(i, j); d != 0 {
				return false
			}
		}
	}
	return true
}

// Position returns a copy of item i's position.
func (c *Collection) Position(i int) (Point, error) {
	if err := c.check(i); err != nil {
		return nil, err
	}
	return slices.Clone(Point(c.positions[i*c.dims : (i+1)*c.dims])), nil
}

// SetPosition sets item i's position. Missing trailing coordinates are zero;
// extra coordinates are an error.
func (c *Collection) SetPosition(i int, coords ...float64) error {
	if err := c.check(i); err != nil {
		return err
	}
	if len(coords) > c.dims {
		return errors.Configuration("position has %d coordinates, layout has %d dimensions", len(coords), c.dims)
	}
	p := c.positions[i*c.dims : (i+1)*c.dims]
	clear(p)
	copy(p, coords)
	return nil
}

// Positions returns a copy of all positions, one Point per item.
func (c *Collection) Positions() []Point {
	out := make([]Point, c.Len())
	for i := range out {
		out[i] = slices.Clone(Point(c.positions[i*c.dims : (i+1)*c.dims]))
	}
	return out
}

// CopyPositions copies the flat position arena into dst, which must hold
// Len()*Dimensions() values, and returns dst.
func (c *Collection) CopyPositions(dst []float64) []float64 {
	if len(dst) != len(c.positions) {
		dst = make([]float64, len(c.positions))
	}
	copy(dst, c.positions)
	return dst
}

// StorePositions replaces the flat position arena with src.
func (c *Collection) StorePositions(src []float64) error {
	if len(src) != len(c.positions) {
		return errors.Configuration("position buffer has %d values, want %d", len(src), len(c.positions))
	}
	copy(c.positions, src)
	return nil
}
