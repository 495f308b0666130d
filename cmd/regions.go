package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/imoveis-cli/internal/feed"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List region codes with a published feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "CODE\tNAME\tFEED")
		_, _ = fmt.Fprintln(w, "----\t----\t----")
		for _, r := range feed.Regions {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Code, r.Name, feed.FeedURL(cfg.Feed.BaseURL, r.Code))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
