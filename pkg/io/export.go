package io

import (
	"bufio"
	"io"
	"strconv"

	"github.com/matzehuels/ssaview/pkg/items"
	"github.com/matzehuels/ssaview/pkg/stress"
)

// WritePositions writes one "index\tcoord..." line per item.
func WritePositions(w io.Writer, positions []items.Point) error {
	bw := bufio.NewWriter(w)
	for i, p := range positions {
		bw.WriteString(strconv.Itoa(i))
		for _, v := range p {
			bw.WriteByte('\t')
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteShepard writes the Shepard diagram points with a header row.
func WriteShepard(w io.Writer, points []stress.ShepardPoint) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("i\tj\tdesired\tcurrent\tdisparity\n")
	for _, p := range points {
		bw.WriteString(strconv.Itoa(p.I))
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(p.J))
		for _, v := range []float64{p.Desired, p.Current, p.Disparity} {
			bw.WriteByte('\t')
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
