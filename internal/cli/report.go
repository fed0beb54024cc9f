package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ssaview/pkg/results"
)

// reportCommand creates the report command, which re-reads a stress report
// written by "layout --report".
func (c *CLI) reportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report [report.txt]",
		Short: "Summarize a stress report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := readReportSummary(args[0])
			if err != nil {
				return err
			}
			printReportSummary(cmd.OutOrStdout(), args[0], summary)
			return nil
		},
	}
}

// reportSummary condenses a stress history.
type reportSummary struct {
	Checks     int
	Iterations int
	Initial    float64
	Final      float64
	Best       results.StressRecord
}

func summarizeReport(records []results.StressRecord) reportSummary {
	if len(records) == 0 {
		return reportSummary{}
	}
	s := reportSummary{
		Checks:     len(records),
		Iterations: records[len(records)-1].Iteration,
		Initial:    records[0].Stress,
		Final:      records[len(records)-1].Stress,
		Best:       records[0],
	}
	for _, r := range records[1:] {
		if r.Stress < s.Best.Stress {
			s.Best = r
		}
	}
	return s
}

func readReportSummary(path string) (reportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return reportSummary{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := results.ParseReport(f)
	if err != nil {
		return reportSummary{}, fmt.Errorf("%s: %w", path, err)
	}
	return summarizeReport(records), nil
}

func printReportSummary(w io.Writer, path string, s reportSummary) {
	fmt.Fprintln(w, StyleTitle.Render(path))
	if s.Checks == 0 {
		printWarning("Report has no stress checks")
		return
	}
	writeKeyValue(w, "checks", fmt.Sprint(s.Checks))
	writeKeyValue(w, "iterations", fmt.Sprint(s.Iterations))
	writeCoefficient(w, "initial", s.Initial)
	writeCoefficient(w, "final", s.Final)
	writeCoefficient(w, "best", s.Best.Stress)
	writeKeyValue(w, "best at", fmt.Sprintf("iteration %d", s.Best.Iteration))
}
