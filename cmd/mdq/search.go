package main

import (
	"fmt"

	"github.com/Cyclone1070/mdq/internal/paginationutil"
	"github.com/spf13/cobra"
)

func newSearchCmd(deps *Dependencies) *cobra.Command {
	var (
		qf     queryFlags
		format string
		offset int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a query once and print the results",
		Example: `  mdq search --type pdf --size '>1000'
  mdq search --name-like invoice --any --name-like receipt --format json
  mdq search --from ~/searches/recent-docs.json --offset 20 --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			r, opts, err := qf.build(deps)
			if err != nil {
				return err
			}
			matcher, err := qf.matcher(deps)
			if err != nil {
				return err
			}

			items, err := r.Run(cmd.Context(), opts)
			r.Stop()
			if err != nil {
				return err
			}

			items = matcher.Filter(items)
			page, info := paginationutil.ApplyPagination(items, offset, limit)
			if err := writeItems(deps.Stdout, format, r.Expression(), page, deps.Renderer); err != nil {
				return err
			}
			if info.Truncated || info.Offset > 0 {
				fmt.Fprintf(deps.Stderr, "showing %d-%d of %d results\n",
					info.Offset+min(1, info.Returned), info.Offset+info.Returned, info.TotalCount)
			}
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatPlain, "output format: plain, json or markdown")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many results")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many results (0 = all)")
	return cmd
}
