package cmd

import (
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "optimize <name>",
		Short: "Saturate and extract the cheapest equivalent term for <name>.sdql",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := newLogger("eqsat")
			res, err := runPipeline(logger, args[0], f)
			if err != nil {
				return err
			}
			printSummary(res)
			return nil
		},
	}
	addRunFlags(cmd, &f)
	return cmd
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVar(&f.mode, "mode", "e2e", "driving mode: e2e|individual")
	cmd.Flags().StringVar(&f.ruleSet, "rules", "", "rule set: coarse|fine (overrides --config)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "driver parameter YAML file")
	cmd.Flags().IntVar(&f.maxIter, "max-iterations", 0, "override max iterations")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "override max e-graph nodes")
	cmd.Flags().Float64Var(&f.maxSeconds, "max-seconds", 0, "override wall-clock cap in seconds")
	cmd.Flags().Int64Var(&f.memoryCapMiB, "memory-cap-mib", 0, "override resident memory cap in MiB")
}
