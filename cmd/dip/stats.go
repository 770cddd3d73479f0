package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/dip/image"
	"github.com/born-ml/dip/statistics"
)

// report runs every statistic on in and formats the results, one per line.
func report(a *statistics.Analyzer, in, mask *image.Image) (string, error) {
	var sb strings.Builder

	count, err := a.Count(in, mask)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "count:            %d\n", count)

	mm, err := a.MaximumAndMinimum(in, mask)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "minimum:          %g\n", mm.Minimum())
	fmt.Fprintf(&sb, "maximum:          %g\n", mm.Maximum())

	for _, pos := range []string{statistics.First, statistics.Last} {
		maxPos, err := a.MaximumPixel(in, mask, pos)
		if err != nil {
			return "", err
		}
		minPos, err := a.MinimumPixel(in, mask, pos)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "maximum pixel:    %v (%s)\n", maxPos, pos)
		fmt.Fprintf(&sb, "minimum pixel:    %v (%s)\n", minPos, pos)
	}

	stats, err := a.SampleStatistics(in, mask)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "samples:          %d\n", stats.Number())
	fmt.Fprintf(&sb, "mean:             %g\n", stats.Mean())
	fmt.Fprintf(&sb, "std. deviation:   %g\n", stats.StandardDeviation())
	fmt.Fprintf(&sb, "skewness:         %g\n", stats.Skewness())
	fmt.Fprintf(&sb, "excess kurtosis:  %g\n", stats.ExcessKurtosis())

	sum, err := a.Sum(in, mask)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "sum:              %g\n", sum)

	com, err := a.CenterOfMass(in, mask)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "center of mass:   %s\n", formatFloats(com))

	m, err := a.Moments(in, mask)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "mass:             %g\n", m.Sum())
	fmt.Fprintf(&sb, "first order:      %s\n", formatFloats(m.FirstOrder()))
	fmt.Fprintf(&sb, "second order:     %s\n", formatFloats(m.SecondOrder()))
	return sb.String(), nil
}

func formatFloats(v []float64) string {
	return "[" + strings.Join(lo.Map(v, func(x float64, _ int) string { return fmt.Sprintf("%.6g", x) }), " ") + "]"
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	opts := &imageOptions{}
	var workers int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics of a synthetic image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.finish(cmd)
			return runStats(cmd.OutOrStdout(), root, cmd, opts, workers)
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers (0 for one per CPU)")
	return cmd
}

func runStats(w io.Writer, root *rootOptions, cmd *cobra.Command, opts *imageOptions, workers int) error {
	eng := root.engine(cmd, workers)
	in, mask, err := inputs(eng, opts)
	if err != nil {
		return err
	}
	defer in.Strip()
	fmt.Fprintf(w, "image:            %s\n", in)
	out, err := report(statistics.New(eng), in, mask)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
