// Package stress measures how well a layout preserves the rank order of
// desired distances.
//
// The statistic is Kruskal's stress-1:
//
//	stress = sqrt( Σ (d - d̂)² / Σ d² )
//
// where d is the current low-dimensional distance of a pair and d̂ its
// disparity, the isotonic (monotone non-decreasing) regression of d on the
// rank of the pair's desired distance. Only the order of desired distances
// matters, which makes the fit non-metric. Pairs whose desired distances tie
// may receive different disparities (Kruskal's primary approach).
//
// The pair set is the union of the neighbour sets the layout engine uses, so
// the reported fit matches the optimized objective.
package stress

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/ssaview/pkg/neighbour"
)

// Pair is an unordered item pair with its desired distance. I < J.
type Pair struct {
	I, J    int
	Desired float64
}

// ShepardPoint is one pair of a Shepard diagram.
type ShepardPoint struct {
	I, J      int
	Desired   float64
	Current   float64
	Disparity float64
}

// Evaluator computes stress over a fixed pair set. It holds no mutable state
// after New, so Evaluate is a pure function of the positions passed in.
type Evaluator struct {
	pairs []Pair
}

// New collects the unordered pairs of all sets, dropping duplicates.
func New(sets []neighbour.Set) *Evaluator {
	seen := make(map[[2]int]struct{})
	var pairs []Pair
	for _, s := range sets {
		for _, n := range s.Neighbours {
			i, j := s.Owner, n.Index
			if i > j {
				i, j = j, i
			}
			key := [2]int{i, j}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, Pair{I: i, J: j, Desired: n.Distance})
		}
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		return cmp.Or(cmp.Compare(a.Desired, b.Desired), cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J))
	})
	return &Evaluator{pairs: pairs}
}

// Len returns the number of pairs.
func (e *Evaluator) Len() int { return len(e.pairs) }

// Pairs returns a copy of the pair set in ascending desired-distance order.
func (e *Evaluator) Pairs() []Pair { return slices.Clone(e.pairs) }

// Degenerate reports whether every desired distance in the pair set is zero.
func (e *Evaluator) Degenerate() bool {
	return len(e.pairs) == 0 || e.pairs[len(e.pairs)-1].Desired == 0
}

// Evaluate returns the stress of positions, a flat slice of dims
// coordinates per item. It is 0 for an empty pair set or when every current
// distance is 0.
func (e *Evaluator) Evaluate(positions []float64, dims int) float64 {
	pts := e.fit(positions, dims)
	var num, den float64
	for _, p := range pts {
		r := p.Current - p.Disparity
		num += r * r
		den += p.Current * p.Current
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

// Alienation returns Guttman's coefficient of alienation sqrt(1 - μ²),
// μ = Σ d·d̂ / sqrt(Σ d² · Σ d̂²). It is 0 for a perfect fit.
func (e *Evaluator) Alienation(positions []float64, dims int) float64 {
	pts := e.fit(positions, dims)
	var cross, dd, hh float64
	for _, p := range pts {
		cross += p.Current * p.Disparity
		dd += p.Current * p.Current
		hh += p.Disparity * p.Disparity
	}
	if dd == 0 || hh == 0 {
		return 0
	}
	mu := min(1, cross/math.Sqrt(dd*hh))
	return math.Sqrt(max(0, 1-mu*mu))
}

// Shepard returns every pair with its current distance and disparity, in
// rank order of desired distance.
func (e *Evaluator) Shepard(positions []float64, dims int) []ShepardPoint {
	return e.fit(positions, dims)
}

func (e *Evaluator) fit(positions []float64, dims int) []ShepardPoint {
	pts := make([]ShepardPoint, len(e.pairs))
	for k, p := range e.pairs {
		pts[k] = ShepardPoint{
			I:       p.I,
			J:       p.J,
			Desired: p.Desired,
			Current: distance(positions, dims, p.I, p.J),
		}
	}
	// Ties in desired distance are ordered by current distance so the
	// regression does not penalize them; the sort is stable on pair order.
	slices.SortStableFunc(pts, func(a, b ShepardPoint) int {
		return cmp.Or(cmp.Compare(a.Desired, b.Desired), cmp.Compare(a.Current, b.Current))
	})

	values := make([]float64, len(pts))
	for k, p := range pts {
		values[k] = p.Current
	}
	for k, v := range Isotonic(values) {
		pts[k].Disparity = v
	}
	return pts
}

func distance(positions []float64, dims, i, j int) float64 {
	var s float64
	pi, pj := positions[i*dims:(i+1)*dims], positions[j*dims:(j+1)*dims]
	for k := range pi {
		d := pi[k] - pj[k]
		s += d * d
	}
	return math.Sqrt(s)
}

// Isotonic returns the least-squares monotone non-decreasing fit of values
// (pool adjacent violators).
func Isotonic(values []float64) []float64 {
	type block struct {
		sum   float64
		count int
	}
	mean := func(b block) float64 { return b.sum / float64(b.count) }

	blocks := make([]block, 0, len(values))
	for _, v := range values {
		blocks = append(blocks, block{sum: v, count: 1})
		for len(blocks) > 1 && mean(blocks[len(blocks)-2]) > mean(blocks[len(blocks)-1]) {
			last := blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
			blocks[len(blocks)-1].sum += last.sum
			blocks[len(blocks)-1].count += last.count
		}
	}

	out := make([]float64, 0, len(values))
	for _, b := range blocks {
		m := mean(b)
		for range b.count {
			out = append(out, m)
		}
	}
	return out
}
