package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/ssaview/pkg/results"
	"github.com/matzehuels/ssaview/pkg/spring"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeStatus(t, ctx, args...)
	return out, err
}

// executeStatus is execute that also returns the status lines.
func executeStatus(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	status := captureStatus(t)

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), status.String(), err
}

func TestLayoutFlagsOverrideConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	config := writeTemp(t, "run.toml", "metric = \"cosine\"\ninit = \"pca\"\n\n[layout]\nmax_iterations = 80\nneighbours = 5\n")

	var f layoutFlags
	fs := pflag.NewFlagSet("layout", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse([]string{"--config", config, "--metric", "manhattan", "-k", "3"}); err != nil {
		t.Fatal(err)
	}

	opts, err := f.options(fs)
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	if opts.Metric != "manhattan" {
		t.Errorf("Metric = %q, want flag value manhattan", opts.Metric)
	}
	if opts.Layout.Neighbours != 3 {
		t.Errorf("Neighbours = %d, want flag value 3", opts.Layout.Neighbours)
	}
	if opts.Init != spring.InitPCA {
		t.Errorf("Init = %q, want config value pca", opts.Init)
	}
	if opts.Layout.MaxIterations != 80 {
		t.Errorf("MaxIterations = %d, want config value 80", opts.Layout.MaxIterations)
	}
	if opts.Layout.LearningRate != spring.DefaultLearningRate {
		t.Errorf("LearningRate = %v, want default", opts.Layout.LearningRate)
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writeTemp(t, "points.csv", "x,y\n0,0\n1,0\n0,1\n10,10\n")
	dir := t.TempDir()
	report := filepath.Join(dir, "report.txt")
	shepard := filepath.Join(dir, "shepard.tsv")
	metrics := filepath.Join(dir, "ssaview.prom")

	out, status, err := executeStatus(t, context.Background(), "layout", input,
		"-n", "40", "--report", report, "--shepard", shepard, "--metrics-file", metrics)
	if err != nil {
		t.Fatalf("layout error = %v", err)
	}
	if !strings.Contains(status, "· stress ") {
		t.Errorf("status does not show the last stress check:\n%s", status)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("positions output has %d lines, want 4:\n%s", len(lines), out)
	}
	if fields := strings.Split(lines[3], "\t"); len(fields) != 3 || fields[0] != "3" {
		t.Errorf("last positions line = %q, want index 3 and two coordinates", lines[3])
	}

	f, err := os.Open(report)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := results.ParseReport(f)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if len(records) == 0 || records[0].Iteration != 0 {
		t.Errorf("report records = %v, want a history starting at iteration 0", records)
	}

	data, err := os.ReadFile(shepard)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 7 {
		t.Errorf("shepard file has %d lines, want header and 6 pairs", n)
	}

	prom, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(prom), "ssaview_layout_runs_started_total 1") {
		t.Errorf("metrics file missing run counter:\n%s", prom)
	}
}

func TestLayoutCommandCancelled(t *testing.T) {
	input := writeTemp(t, "points.csv", "0,0\n1,0\n0,1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, status, err := executeStatus(t, ctx, "layout", input)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("layout error = %v, want context.Canceled", err)
	}
	if !strings.Contains(status, "Interrupted") {
		t.Errorf("status does not report the interruption:\n%s", status)
	}
	if got := strings.Count(out, "\n"); got != 3 {
		t.Errorf("cancelled run wrote %d position lines, want 3", got)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"layout"}},
		{"missing file", []string{"layout", "does-not-exist.csv"}},
		{"bad metric", []string{"layout", "points.csv", "--metric", "hamming"}},
		{"bad learning rate", []string{"layout", "points.csv", "--learning-rate", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, context.Background(), tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLayoutCommandFailureMessage(t *testing.T) {
	_, status, err := executeStatus(t, context.Background(), "layout", "does-not-exist.csv")
	if err == nil {
		t.Fatal("expected an error")
	}
	if want := "Layout failed: open does-not-exist.csv"; !strings.Contains(status, want) {
		t.Errorf("status = %q, want it to contain %q", status, want)
	}
}

func TestNeighboursCommand(t *testing.T) {
	input := writeTemp(t, "line.csv", "0\n1\n3\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"all", []string{"neighbours", input}, "2\t3\n1\t1\n"},
		{"nearest", []string{"neighbours", input, "-k", "1"}, "1\t1\n"},
		{"other item", []string{"neighbors", input, "-i", "2"}, "0\t3\n1\t2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, context.Background(), tt.args...)
			if err != nil {
				t.Fatalf("neighbours error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}

	if _, err := execute(t, context.Background(), "neighbours", input, "-i", "7"); err == nil {
		t.Error("out-of-range item should fail")
	}
}

func TestReportCommand(t *testing.T) {
	report := writeTemp(t, "report.txt", "0\t0.4\n10\t0.1\n20\t0.15\n\n")

	out, err := execute(t, context.Background(), "report", report)
	if err != nil {
		t.Fatalf("report error = %v", err)
	}
	for _, want := range []string{"checks", "0.100000", "iteration 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	bad := writeTemp(t, "bad.txt", "0 0.4\n\n")
	if _, err := execute(t, context.Background(), "report", bad); err == nil {
		t.Error("malformed report should fail")
	}
}

func TestSummarizeReport(t *testing.T) {
	tests := []struct {
		name    string
		records []results.StressRecord
		want    reportSummary
	}{
		{"empty", nil, reportSummary{}},
		{
			"best in the middle",
			[]results.StressRecord{{Iteration: 0, Stress: 0.4}, {Iteration: 10, Stress: 0.1}, {Iteration: 20, Stress: 0.15}},
			reportSummary{Checks: 3, Iterations: 20, Initial: 0.4, Final: 0.15, Best: results.StressRecord{Iteration: 10, Stress: 0.1}},
		},
		{
			"single check",
			[]results.StressRecord{{Iteration: 0, Stress: 0}},
			reportSummary{Checks: 1, Best: results.StressRecord{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarizeReport(tt.records); got != tt.want {
				t.Errorf("summarizeReport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, context.Background(), "completion", shell)
		if err != nil {
			t.Errorf("completion %s error = %v", shell, err)
		}
		if !strings.Contains(out, "ssaview") {
			t.Errorf("completion %s output does not mention ssaview", shell)
		}
	}
}
