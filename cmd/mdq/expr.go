package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExprCmd(deps *Dependencies) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "expr",
		Short: "Print the query expression without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := qf.build(deps)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(deps.Stdout, r.Expression())
			return err
		},
	}
	qf.register(cmd)
	return cmd
}
