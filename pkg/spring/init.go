package spring

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/ssaview/pkg/errors"
	"github.com/matzehuels/ssaview/pkg/items"
)

// Init selects how positions are set before a run.
type Init string

// Initializers.
const (
	InitRandom Init = "random" // uniform in [0, scale) per axis
	InitPCA    Init = "pca"    // projection on the leading principal components
	InitKeep   Init = "keep"   // use the positions already in the collection
)

// ParseInit validates an initializer name. Empty selects InitRandom.
func ParseInit(name string) (Init, error) {
	switch v := Init(strings.ToLower(name)); v {
	case "":
		return InitRandom, nil
	case InitRandom, InitPCA, InitKeep:
		return v, nil
	}
	return "", fmt.Errorf("invalid init: %q (must be one of: random, pca, keep)", name)
}

// Apply positions c with the initializer. seed and scale are used by
// InitRandom only.
func (i Init) Apply(c *items.Collection, seed uint64, scale float64) error {
	switch i {
	case InitRandom, "":
		return RandomPositions(c, seed, scale)
	case InitPCA:
		return PCAPositions(c)
	case InitKeep:
		return nil
	}
	return errors.Configuration("unknown initializer %q", string(i))
}

// RandomPositions draws every coordinate uniformly from [0, scale) with a
// PCG generator seeded by seed. A non-positive scale means 1.
func RandomPositions(c *items.Collection, seed uint64, scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	buf := make([]float64, c.Len()*c.Dimensions())
	for k := range buf {
		buf[k] = rng.Float64() * scale
	}
	return c.StorePositions(buf)
}

// PCAPositions projects the centered feature vectors onto their leading
// principal components. Axes beyond the feature count, and every axis of a
// single-item collection, are zero.
func PCAPositions(c *items.Collection) error {
	n, f, dims := c.Len(), c.Features(), c.Dimensions()
	buf := make([]float64, n*dims)
	if n < 2 || f == 0 {
		return c.StorePositions(buf)
	}

	data := make([]float64, 0, n*f)
	for i := 0; i < n; i++ {
		v, err := c.Vector(i)
		if err != nil {
			return err
		}
		data = append(data, v...)
	}
	x := mat.NewDense(n, f, data)

	// Center the data
	for j := 0; j < f; j++ {
		mean := stat.Mean(mat.Col(nil, j, x), nil)
		for i := 0; i < n; i++ {
			x.Set(i, j, x.At(i, j)-mean)
		}
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)

	var eigen mat.EigenSym
	if ok := eigen.Factorize(&cov, true); !ok {
		return errors.New(errors.ErrCodeInternal, "eigendecomposition of the covariance matrix failed")
	}
	var vectors mat.Dense
	eigen.VectorsTo(&vectors)

	// Eigenvalues come back in ascending order; the leading component is the
	// last column.
	axes := min(dims, f)
	for a := 0; a < axes; a++ {
		col := f - 1 - a
		for i := 0; i < n; i++ {
			var p float64
			for j := 0; j < f; j++ {
				p += x.At(i, j) * vectors.At(j, col)
			}
			buf[i*dims+a] = p
		}
	}
	return c.StorePositions(buf)
}
