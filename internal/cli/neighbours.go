package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ssaview/pkg/items"
	pkgio "github.com/matzehuels/ssaview/pkg/io"
	"github.com/matzehuels/ssaview/pkg/neighbour"
)

// neighboursCommand creates the neighbours command, which prints the
// neighbour set the optimizer would process for one item.
func (c *CLI) neighboursCommand() *cobra.Command {
	var (
		item   int
		k      int
		metric string
	)

	cmd := &cobra.Command{
		Use:   "neighbours [vectors.csv]",
		Short: "Print the ordered neighbour set of an item",
		Long: `Print the ordered neighbour set of an item.

Neighbours are listed in processing order: largest desired distance first,
ties by ascending index. With -k only the k nearest items are kept, as
"layout -k" does. Each line is "index<TAB>distance".`,
		Aliases: []string{"neighbors"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNeighbours(cmd.Context(), cmd.OutOrStdout(), args[0], item, k, metric)
		},
	}

	cmd.Flags().IntVarP(&item, "item", "i", 0, "item index")
	cmd.Flags().IntVarP(&k, "neighbours", "k", 0, "keep only the k nearest neighbours (0 = all)")
	cmd.Flags().StringVarP(&metric, "metric", "m", items.MetricEuclidean, "distance metric: euclidean, manhattan, chebyshev, cosine")

	return cmd
}

func (c *CLI) runNeighbours(ctx context.Context, w io.Writer, input string, item, k int, metricName string) error {
	metric, err := items.ParseMetric(metricName)
	if err != nil {
		return err
	}
	ds, err := pkgio.ImportVectors(ctx, input)
	if err != nil {
		return err
	}
	coll, err := items.New(ds.Vectors, items.WithMetric(metric))
	if err != nil {
		return err
	}

	set, err := neighbour.NewBuilder(coll).Build(item, neighbour.AllCandidates(coll.Len()))
	if err != nil {
		return err
	}
	set = set.Nearest(k)
	c.Logger.Debug("built neighbour set", "item", item, "neighbours", set.Len(), "metric", metric.Name())

	bw := bufio.NewWriter(w)
	for _, nb := range set.Neighbours {
		fmt.Fprintf(bw, "%d\t%s\n", nb.Index, strconv.FormatFloat(nb.Distance, 'g', -1, 64))
	}
	return bw.Flush()
}
