package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(deps *Dependencies) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "mdq",
		Short:         "Query the Spotlight metadata index",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.complete(configPath, verbose)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/mdq/config.json)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newSearchCmd(deps),
		newWatchCmd(deps),
		newExprCmd(deps),
	)
	return root
}
