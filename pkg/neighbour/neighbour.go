// Package neighbour builds ordered neighbour sets from desired distances.
//
// The order of a [Set] is a strict total order that the layout engine and
// every downstream consumer rely on:
//
//  1. Larger desired distance first (farthest neighbour first).
//  2. Equal distances: lower neighbour index first.
//
// The farthest-first order is deliberate: the engine processes close
// neighbours last in each pass. Use [Compare] to reproduce it.
package neighbour

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ssaview/pkg/errors"
)

// Neighbour is one entry of a Set.
type Neighbour struct {
	Index    int
	Distance float64
}

// Set is the ordered neighbour list of one owner item.
type Set struct {
	Owner      int
	Neighbours []Neighbour
}

// Len returns the number of neighbours.
func (s Set) Len() int { return len(s.Neighbours) }

// Indices returns the neighbour indices in set order.
func (s Set) Indices() []int {
	out := make([]int, len(s.Neighbours))
	for i, n := range s.Neighbours {
		out[i] = n.Index
	}
	return out
}

// Nearest returns a set restricted to the k neighbours with the smallest
// desired distance (ties keep the lower index), in the standard order.
// k <= 0 or k >= Len() returns s unchanged.
func (s Set) Nearest(k int) Set {
	if k <= 0 || k >= len(s.Neighbours) {
		return s
	}
	kept := slices.Clone(s.Neighbours)
	slices.SortFunc(kept, func(a, b Neighbour) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.Index, b.Index))
	})
	kept = kept[:k]
	slices.SortFunc(kept, Compare)
	return Set{Owner: s.Owner, Neighbours: kept}
}

// Compare orders neighbours by descending distance, then ascending index.
func Compare(a, b Neighbour) int {
	return cmp.Or(cmp.Compare(b.Distance, a.Distance), cmp.Compare(a.Index, b.Index))
}

// Source supplies desired distances by item index.
type Source interface {
	Len() int
	DesiredDistance(i, j int) (float64, error)
}

// Table is a pre-computed distance matrix addressed by row/column.
type Table [][]float64

// Lookup maps an item index to its row in a Table.
// It reports false when the item has no row.
type Lookup func(index int) (row int, ok bool)

// Builder produces neighbour sets for a Source.
type Builder struct {
	src Source
}

// NewBuilder creates a builder over src.
func NewBuilder(src Source) *Builder {
	return &Builder{src: src}
}

// Build returns the neighbour set of owner among candidates, using the
// source's desired distances. The owner itself and repeated candidates are
// skipped. Index errors from the source are returned unchanged.
func (b *Builder) Build(owner int, candidates []int) (Set, error) {
	if owner < 0 || owner >= b.src.Len() {
		return Set{}, errors.IndexOutOfRange(owner, b.src.Len())
	}
	return build(owner, candidates, func(j int) (float64, error) {
		return b.src.DesiredDistance(owner, j)
	})
}

// BuildFromTable is like Build but reads distances from table, locating
// rows and columns through lookup. A nil lookup uses the item index as the
// row. Items without a row or outside the table fail with
// [errors.ErrCodeIndex].
func (b *Builder) BuildFromTable(owner int, candidates []int, table Table, lookup Lookup) (Set, error) {
	if lookup == nil {
		lookup = func(i int) (int, bool) { return i, true }
	}
	row := func(i int) (int, error) {
		r, ok := lookup(i)
		if !ok || r < 0 || r >= len(table) {
			return 0, errors.New(errors.ErrCodeIndex, "item %d has no row in a %d-row distance table", i, len(table))
		}
		return r, nil
	}

	ro, err := row(owner)
	if err != nil {
		return Set{}, err
	}
	return build(owner, candidates, func(j int) (float64, error) {
		rj, err := row(j)
		if err != nil {
			return 0, err
		}
		if rj >= len(table[ro]) {
			return 0, errors.New(errors.ErrCodeIndex, "item %d has no column in row %d", j, ro)
		}
		return table[ro][rj], nil
	})
}

func build(owner int, candidates []int, dist func(j int) (float64, error)) (Set, error) {
	seen := make(map[int]struct{}, len(candidates))
	out := make([]Neighbour, 0, len(candidates))
	for _, j := range candidates {
		if j == owner {
			continue
		}
		if _, dup := seen[j]; dup {
			continue
		}
		seen[j] = struct{}{}

		d, err := dist(j)
		if err != nil {
			return Set{}, err
		}
		out = append(out, Neighbour{Index: j, Distance: d})
	}
	slices.SortFunc(out, Compare)
	return Set{Owner: owner, Neighbours: out}, nil
}

// AllCandidates returns the indices 0..n-1.
func AllCandidates(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// BuildAll builds the set of every item against all other items, restricted
// to the k nearest when k > 0.
func (b *Builder) BuildAll(k int) ([]Set, error) {
	n := b.src.Len()
	all := AllCandidates(n)
	sets := make([]Set, n)
	for i := range sets {
		s, err := b.Build(i, all)
		if err != nil {
			return nil, err
		}
		sets[i] = s.Nearest(k)
	}
	return sets, nil
}
