package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/dip/image"
	"github.com/born-ml/dip/statistics"
)

// maxPrinted is the number of samples above which cumsum prints a summary.
const maxPrinted = 64

func newCumSumCmd(root *rootOptions) *cobra.Command {
	opts := &imageOptions{}
	var dims []int
	cmd := &cobra.Command{
		Use:   "cumsum",
		Short: "Print the cumulative sum of a synthetic image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.finish(cmd)
			eng := root.engine(cmd, 0)
			in, mask, err := inputs(eng, opts)
			if err != nil {
				return err
			}
			var process []bool
			if len(dims) > 0 {
				process = lo.Times(len(opts.sizes), func(d int) bool { return lo.Contains(dims, d) })
			}
			out := &image.Image{}
			if err := statistics.New(eng).CumulativeSum(in, mask, out, process); err != nil {
				return err
			}
			values := out.Float64s()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", out)
			if len(values) > maxPrinted {
				fmt.Fprintf(w, "first: %s\nlast:  %s\n",
					formatFloats(values[:maxPrinted/2]), formatFloats(values[len(values)-maxPrinted/2:]))
				return nil
			}
			fmt.Fprintln(w, formatFloats(values))
			return nil
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().IntSliceVar(&dims, "dims", nil, "dimensions to sum along (default all)")
	return cmd
}
