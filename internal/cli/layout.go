package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/ssaview/pkg/errors"
	pkgio "github.com/matzehuels/ssaview/pkg/io"
	"github.com/matzehuels/ssaview/pkg/observability"
	"github.com/matzehuels/ssaview/pkg/pipeline"
	"github.com/matzehuels/ssaview/pkg/results"
	"github.com/matzehuels/ssaview/pkg/spring"
)

// layoutFlags holds the run options settable on the command line. Values
// only override the configuration file when the flag was given.
type layoutFlags struct {
	config string

	metric       string
	dims         int
	init         string
	seed         uint64
	scale        float64
	learningRate float64
	maxIter      int
	epsilon      float64
	checkEvery   int
	neighbours   int
	workers      int
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	d := pipeline.DefaultOptions()

	fs.StringVarP(&f.config, "config", "c", "", "TOML run configuration (default: ~/.config/ssaview/config.toml if present)")
	fs.StringVarP(&f.metric, "metric", "m", d.Metric, "distance metric: euclidean, manhattan, chebyshev, cosine")
	fs.IntVar(&f.dims, "dims", d.Dims, "layout dimensions")
	fs.StringVar(&f.init, "init", string(d.Init), "initial positions: random, pca, keep")
	fs.Uint64Var(&f.seed, "seed", d.Seed, "random seed for --init random")
	fs.Float64Var(&f.scale, "scale", d.Scale, "side of the square random positions are drawn from")
	fs.Float64Var(&f.learningRate, "learning-rate", d.Layout.LearningRate, "step size of each iteration")
	fs.IntVarP(&f.maxIter, "max-iterations", "n", d.Layout.MaxIterations, "iteration budget")
	fs.Float64Var(&f.epsilon, "epsilon", d.Layout.ConvergenceEpsilon, "stop when stress changes by less than this (0 disables)")
	fs.IntVar(&f.checkEvery, "check-every", d.Layout.CheckEvery, "iterations between stress checks")
	fs.IntVarP(&f.neighbours, "neighbours", "k", d.Layout.Neighbours, "restrict each item to its k nearest neighbours (0 = all)")
	fs.IntVar(&f.workers, "workers", d.Layout.Workers, "goroutines computing forces (0 or 1 = sequential)")
}

// options loads the configuration file, if any, and applies the flags
// that were set.
func (f *layoutFlags) options(fs *pflag.FlagSet) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	path := f.config
	if path == "" {
		path, _ = userConfigPath()
	}
	if path != "" {
		var err error
		if opts, err = pipeline.LoadOptionsFile(path); err != nil {
			return pipeline.Options{}, err
		}
	}

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("metric", func() { opts.Metric = f.metric })
	set("dims", func() { opts.Dims = f.dims })
	set("init", func() { opts.Init = spring.Init(f.init) })
	set("seed", func() { opts.Seed = f.seed })
	set("scale", func() { opts.Scale = f.scale })
	set("learning-rate", func() { opts.Layout.LearningRate = f.learningRate })
	set("max-iterations", func() { opts.Layout.MaxIterations = f.maxIter })
	set("epsilon", func() { opts.Layout.ConvergenceEpsilon = f.epsilon })
	set("check-every", func() { opts.Layout.CheckEvery = f.checkEvery })
	set("neighbours", func() { opts.Layout.Neighbours = f.neighbours })
	set("workers", func() { opts.Layout.Workers = f.workers })
	return opts, nil
}

// layoutOutputs names the files written after a run. Empty means skip;
// "-" for positions means stdout.
type layoutOutputs struct {
	positions   string
	report      string
	shepard     string
	metricsFile string
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags layoutFlags
		out   layoutOutputs
	)

	cmd := &cobra.Command{
		Use:   "layout [vectors.csv]",
		Short: "Lay out feature vectors in a low-dimensional space",
		Long: `Lay out feature vectors in a low-dimensional space.

The layout command reads one item per line from a CSV file (or TSV for .tsv
and .tab files), runs the spring optimizer and prints the final positions
as "index<TAB>coordinates" lines. The stress history can be written as a
textual report for the 'report' command.

The input file may also be given as 'input' in the configuration file.
Flags override configuration file values.

Press Ctrl-C to stop early; the positions of the last completed iteration
are still written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Input = args[0]
			}
			if opts.Input == "" {
				return fmt.Errorf("no input: pass a vector file or set 'input' in the configuration")
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), opts, out)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&out.positions, "positions", "o", "-", "positions output file (- for stdout)")
	cmd.Flags().StringVarP(&out.report, "report", "r", "", "write the stress report to this file")
	cmd.Flags().StringVar(&out.shepard, "shepard", "", "write Shepard diagram data to this file")
	cmd.Flags().StringVar(&out.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")

	return cmd
}

// runLayout executes the pipeline and writes all requested outputs.
func (c *CLI) runLayout(ctx context.Context, stdout io.Writer, opts pipeline.Options, out layoutOutputs) error {
	var hooks *observability.PrometheusHooks
	if out.metricsFile != "" {
		hooks = observability.NewPrometheusHooks()
		observability.SetLayoutHooks(hooks)
		observability.SetInputHooks(hooks)
		defer observability.Reset()
	}

	spinner := newSpinner(ctx, "Laying out "+opts.Input+"...")
	spinner.Start()
	opts.Progress = func(rec results.StressRecord) {
		spinner.Update("iteration %d · stress %.6f", rec.Iteration, rec.Stress)
	}

	res, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		c.Logger.Debug("layout failed", "code", errors.GetCode(err))
		spinner.StopWithError("Layout failed: " + errors.UserMessage(err))
		return err
	}
	if spinner.Cancelled() {
		spinner.Stop()
		printWarning("Interrupted, writing the last completed layout")
	} else {
		spinner.StopWithSuccess(spinner.Message())
	}

	prog := newProgress(c.Logger)
	if err := writeOutput(out.positions, stdout, func(w io.Writer) error {
		return pkgio.WritePositions(w, res.Collection.Positions())
	}); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	if out.report != "" {
		if err := writeOutput(out.report, stdout, res.Run.Collector().WriteReport); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if out.shepard != "" {
		points := res.Engine.Evaluator().Shepard(res.Collection.CopyPositions(nil), res.Collection.Dimensions())
		if err := writeOutput(out.shepard, stdout, func(w io.Writer) error {
			return pkgio.WriteShepard(w, points)
		}); err != nil {
			return fmt.Errorf("write shepard data: %w", err)
		}
	}
	if hooks != nil {
		if err := hooks.WriteTextfile(out.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	prog.done("Wrote outputs")

	printLayoutSummary(res, out)

	if res.Layout.Reason == results.StopCancelled {
		return context.Canceled
	}
	return nil
}

func printLayoutSummary(res *pipeline.Result, out layoutOutputs) {
	l := res.Layout
	switch l.Reason {
	case results.StopCancelled:
		printWarning("Layout cancelled after %d iterations", l.Iterations)
	case results.StopDegenerate:
		printWarning("All desired distances are zero; positions left unchanged")
	default:
		printSuccess("Layout complete")
	}

	printStats(
		fmt.Sprintf("%d items", res.Stats.Items),
		fmt.Sprintf("%d features", res.Stats.Features),
		fmt.Sprintf("%d pairs", res.Stats.Pairs),
	)
	printCoefficient("stress", l.Stress)
	printCoefficient("alienation", l.Alienation)
	printKeyValue("iterations", fmt.Sprint(l.Iterations))
	printKeyValue("stopped", string(l.Reason))

	for _, path := range []string{out.positions, out.report, out.shepard, out.metricsFile} {
		if path != "" && path != "-" {
			printFile(path)
		}
	}
	if out.report != "" {
		printNewline()
		printNextStep("Summarize", "ssaview report "+out.report)
	}
}

// writeOutput writes to stdout for "-" and to a new file otherwise.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
