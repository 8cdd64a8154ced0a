// Package cmd provides the eqsat CLI commands.
package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var logLevelFlag string

// NewRootCmd builds the eqsat root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eqsat",
		Short: "Equality-saturation optimizer for SDQL programs",
	}
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (trace|debug|info|warn|error), overrides EQSAT_LOG_LEVEL")
	root.AddCommand(newOptimizeCmd())
	root.AddCommand(newExplainCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: logLevelFromEnv(logLevelFlag),
	})
}
