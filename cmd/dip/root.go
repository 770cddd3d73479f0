package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/born-ml/dip/framework"
	"github.com/born-ml/dip/image"
)

// imageOptions describe the synthetic image a command works on.
type imageOptions struct {
	sizes         []int
	dataType      string
	pattern       string
	seed          int64
	maskThreshold float64
	useMask       bool
}

func (o *imageOptions) register(fs *pflag.FlagSet) {
	fs.IntSliceVar(&o.sizes, "sizes", []int{256, 256}, "image sizes, dimension 0 first")
	fs.StringVar(&o.dataType, "type", "uint8", "sample data type")
	fs.StringVar(&o.pattern, "pattern", patternRamp, "pixel pattern: ramp, random or checker")
	fs.Int64Var(&o.seed, "seed", 1, "seed of the random pattern")
	fs.Float64Var(&o.maskThreshold, "mask-threshold", 0, "select only pixels above this value")
}

// finish records which optional flags were given.
func (o *imageOptions) finish(cmd *cobra.Command) {
	o.useMask = cmd.Flags().Changed("mask-threshold")
}

func (o *imageOptions) parseDataType() (image.DataType, error) {
	dt, ok := image.ParseDataType(o.dataType)
	if !ok {
		return 0, fmt.Errorf("unknown data type %q", o.dataType)
	}
	return dt, nil
}

type rootOptions struct {
	verbose bool
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// engine builds an engine for the given number of workers (0 for all CPUs).
func (o *rootOptions) engine(cmd *cobra.Command, workers int) *framework.Engine {
	cfg := framework.DefaultConfig()
	cfg.Logger = o.logger(cmd)
	eng := framework.New(cfg)
	if workers > 0 {
		eng = eng.WithWorkers(workers)
	}
	return eng
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "dip",
		Short:         "Run dip image statistics on synthetic images",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every traversal")

	cmd.AddCommand(
		newVersionCmd(),
		newStatsCmd(opts),
		newCumSumCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dip %s\n", version)
		},
	}
}
