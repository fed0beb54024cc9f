// Package pkg provides the libraries behind ssaview, a dimensionality
// reduction tool in the style of Smallest Space Analysis.
//
// # Overview
//
// ssaview places the items of a high-dimensional dataset in a
// low-dimensional space (usually the plane) so that layout distances
// follow the rank order of the original distances. The packages are:
//
//  1. [items] - Items, feature vectors, metrics and the position arena
//  2. [neighbour] - Ordered neighbour sets consulted by the optimizer
//  3. [spring] - The iterative spring layout engine and its run handles
//  4. [stress] - Kruskal stress and Guttman alienation over a pair set
//  5. [results] - Stress history and the textual coefficient report
//  6. [pipeline] - Configuration and load → initialize → layout wiring
//
// Supporting packages: [errors] (error codes), [observability] (hooks and
// the Prometheus backend), [io] (CSV/TSV import, TSV export) and
// [buildinfo].
//
// # Architecture
//
//	CSV/TSV vectors
//	       ↓
//	  [io] package (ReadVectors)
//	       ↓
//	  [items] package (Collection: desired distances, positions)
//	       ↓
//	  [neighbour] package (one ordered set per item, built once)
//	       ↓
//	  [spring] package (Jacobi iterations) ⇄ [stress] package (every CheckEvery)
//	       ↓
//	  [results] package (history, summary, report)
//
// # Quick Start
//
//	c, _ := items.New(vectors)
//	_ = spring.RandomPositions(c, 42, 1)
//
//	e, _ := spring.New(c, spring.DefaultConfig())
//	run := e.Start(ctx)
//	for rec := range run.Records() {
//	    fmt.Println(rec.Iteration, rec.Stress)
//	}
//	fmt.Print(run.Summary())
//
// [items]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/items
// [neighbour]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/neighbour
// [spring]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/spring
// [stress]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/stress
// [results]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/results
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/io
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ssaview/pkg/buildinfo
package pkg
