package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/dip/statistics"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &imageOptions{}
	var workers []int
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that statistics do not depend on the number of workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.finish(cmd)
			in, mask, err := inputs(root.engine(cmd, 1), opts)
			if err != nil {
				return err
			}
			defer in.Strip()

			reports := make([]string, len(workers))
			for i, n := range workers {
				if reports[i], err = report(statistics.New(root.engine(cmd, n)), in, mask); err != nil {
					return fmt.Errorf("%d workers: %w", n, err)
				}
			}
			w := cmd.OutOrStdout()
			if len(lo.Uniq(reports)) > 1 {
				for i, n := range workers {
					fmt.Fprintf(w, "--- %d workers\n%s", n, reports[i])
				}
				return fmt.Errorf("results differ between worker counts %v", workers)
			}
			fmt.Fprintf(w, "identical results for workers %v\n", workers)
			return nil
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().IntSliceVar(&workers, "workers", []int{1, 2, 8}, "worker counts to compare")
	return cmd
}
