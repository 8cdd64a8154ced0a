package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "explain <name>",
		Short: "Like optimize, but also prints the stop reason and per-rule fire counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := newLogger("eqsat")
			res, err := runPipeline(logger, args[0], f)
			if err != nil {
				return err
			}
			printSummary(res)
			fmt.Printf("stop reason: %s\n", res.Sat.Reason)
			names := make([]string, 0, len(res.Sat.FireCounts))
			for n := range res.Sat.FireCounts {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Printf("  %-28s %d\n", n, res.Sat.FireCounts[n])
			}
			return nil
		},
	}
	addRunFlags(cmd, &f)
	return cmd
}
