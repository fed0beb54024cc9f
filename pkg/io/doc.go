// Package io reads feature vectors from delimited text files and writes
// layout positions and Shepard data as TSV.
//
// # Input Format
//
// One item per line, one numeric feature per field. Fields are separated by
// commas, or by tabs for files ending in ".tsv" or ".tab":
//
//	# optional comments
//	height,weight,age
//	1.82,78.5,41
//	1.64,61.0,29
//
// A first row whose fields are not all numbers is taken as a header and
// returned in [Dataset.Columns]. Blank lines and lines starting with '#'
// are skipped. Every data row must have the same number of fields; a row
// of a different width is an INVALID_FORMAT error naming the line.
//
// # Output Format
//
// [WritePositions] writes one item per line, the item index followed by its
// coordinates:
//
//	0	-0.4121	1.0032
//	1	0.9870	-0.2218
//
// [WriteShepard] writes the Shepard diagram in rank order of desired
// distance with a header row:
//
//	i	j	desired	current	disparity
//
// Floats are printed in the shortest form that round-trips.
package io
