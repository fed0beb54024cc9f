// Package items holds the data items of a layout run.
//
// A [Collection] owns every item's immutable feature vector, its mutable
// low-dimensional position, and a lazily filled cache of desired
// (high-dimensional) distances. Items are addressed by dense integer index
// 0..Len()-1 in insertion order; positions are stored in one flat slice of
// Len()*Dimensions() coordinates.
//
// Desired distances are symmetric and computed at most once per unordered
// pair:
//
//	c, err := items.New([][]float64{{0, 0}, {3, 4}})
//	d, _ := c.DesiredDistance(0, 1) // 5
//	d, _ = c.DesiredDistance(1, 0)  // 5, served from the cache
//
// Positions are only meant to be written by the layout engine; the
// presentation layer reads them through [Collection.Position].
package items
