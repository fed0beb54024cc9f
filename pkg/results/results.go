// Package results accumulates the stress history of a layout run and renders
// the textual coefficient report read by reporting views.
//
// The report is one line per record, iteration and stress separated by a
// tab, followed by a single blank line:
//
//	0	0.4182
//	10	0.2071
//	20	0.2069
//
// Each run owns its own [Collector]; there is no shared "current results"
// instance.
package results

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/ssaview/pkg/errors"
)

// StopReason says why a run ended.
type StopReason string

// Stop reasons.
const (
	StopRunning       StopReason = ""
	StopConverged     StopReason = "converged"
	StopMaxIterations StopReason = "max-iterations"
	StopCancelled     StopReason = "cancelled"
	StopDegenerate    StopReason = "degenerate"
)

// StressRecord is the stress measured after an iteration.
type StressRecord struct {
	Iteration int
	Stress    float64
}

// Collector is an append-only stress history plus the final coefficients.
// It is not safe for concurrent use.
type Collector struct {
	records    []StressRecord
	reason     StopReason
	iterations int
	alienation float64
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends a record. Iterations must be strictly increasing.
func (c *Collector) Record(iteration int, stress float64) error {
	if n := len(c.records); n > 0 && iteration <= c.records[n-1].Iteration {
		return errors.New(errors.ErrCodeInvalidInput,
			"iteration %d recorded after iteration %d", iteration, c.records[n-1].Iteration)
	}
	c.records = append(c.records, StressRecord{Iteration: iteration, Stress: stress})
	return nil
}

// Finish stores the stop reason, the number of completed iterations and
// the final coefficient of alienation.
func (c *Collector) Finish(reason StopReason, iterations int, alienation float64) {
	c.reason = reason
	c.iterations = iterations
	c.alienation = alienation
}

// Reset clears the history for a new run.
func (c *Collector) Reset() {
	c.records = nil
	c.reason = StopRunning
	c.iterations = 0
	c.alienation = 0
}

// Len returns the number of records.
func (c *Collector) Len() int { return len(c.records) }

// Records returns a copy of the history.
func (c *Collector) Records() []StressRecord { return slices.Clone(c.records) }

// History returns the records as of this call. The sequence can be ranged
// over any number of times and is unaffected by later records.
func (c *Collector) History() iter.Seq[StressRecord] {
	return slices.Values(c.Records())
}

// At returns the i-th record.
func (c *Collector) At(i int) StressRecord { return c.records[i] }

// Last returns the most recent record.
func (c *Collector) Last() (StressRecord, bool) {
	if len(c.records) == 0 {
		return StressRecord{}, false
	}
	return c.records[len(c.records)-1], true
}

// Reason returns the stop reason, empty while running.
func (c *Collector) Reason() StopReason { return c.reason }

// Iterations returns the number of completed iterations set by Finish.
func (c *Collector) Iterations() int { return c.iterations }

// Alienation returns the final coefficient of alienation set by Finish.
func (c *Collector) Alienation() float64 { return c.alienation }

// Summary renders the final coefficients as plain text.
func (c *Collector) Summary() string {
	var b strings.Builder
	last, ok := c.Last()
	if ok {
		fmt.Fprintf(&b, "stress: %s\n", formatFloat(last.Stress))
	} else {
		b.WriteString("stress: n/a\n")
	}
	fmt.Fprintf(&b, "alienation: %s\n", formatFloat(c.alienation))
	fmt.Fprintf(&b, "iterations: %d\n", c.iterations)
	reason := c.reason
	if reason == StopRunning {
		reason = "running"
	}
	fmt.Fprintf(&b, "stopped: %s\n", reason)
	return b.String()
}

// WriteReport writes the textual report to w.
func (c *Collector) WriteReport(w io.Writer) error {
	return WriteReport(w, c.History())
}

// WriteReport writes records as "iteration\tstress" lines and a trailing
// blank line.
func WriteReport(w io.Writer, records iter.Seq[StressRecord]) error {
	bw := bufio.NewWriter(w)
	for r := range records {
		bw.WriteString(strconv.Itoa(r.Iteration))
		bw.WriteByte('\t')
		bw.WriteString(formatFloat(r.Stress))
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// ParseReport reads a report written by WriteReport. Reading stops at the
// first blank line.
func ParseReport(r io.Reader) ([]StressRecord, error) {
	c := NewCollector()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			return c.Records(), nil
		}
		iterText, stressText, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: missing tab separator", line)
		}
		it, err := strconv.Atoi(iterText)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: iteration", line)
		}
		s, err := strconv.ParseFloat(stressText, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: stress", line)
		}
		if err := c.Record(it, s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "report is not terminated by a blank line")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
