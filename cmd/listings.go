package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/imoveis-cli/internal/feed"
	"github.com/sells-group/imoveis-cli/internal/filter"
)

var (
	listingsRegion  string
	listingsFile    string
	listingsLimit   int
	listingsFormat  string
	listingsFilters filterFlags
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Load a region feed and print ranked listings",
	Example: `  imoveis-cli listings --region SP --city "São Paulo" --min-discount 30
  imoveis-cli listings --file Lista_imoveis_SP.csv --type apartment --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("listings"); err != nil {
			return err
		}
		if listingsFormat != "table" && listingsFormat != "json" {
			return eris.Errorf("invalid format %q (want table or json)", listingsFormat)
		}
		f, err := listingsFilters.filters()
		if err != nil {
			return err
		}

		p, err := initPipeline(cfg)
		if err != nil {
			return err
		}
		res, err := loadResult(cmd.Context(), p, listingsRegion, listingsFile)
		if err != nil {
			return reportFailure(cmd, err)
		}

		ranked := filter.Apply(res.Listings, f)
		summary := filter.Summarize(ranked)
		if listingsLimit > 0 && len(ranked) > listingsLimit {
			ranked = ranked[:listingsLimit]
		}

		if listingsFormat == "json" {
			return writeListingsJSON(cmd.OutOrStdout(), res, summary, ranked)
		}
		return writeListingsTable(cmd.OutOrStdout(), res, summary, ranked)
	},
}

type listingsOutput struct {
	Region    string          `json:"region"`
	RunID     string          `json:"run_id"`
	Status    string          `json:"status"`
	FetchedAt string          `json:"fetched_at"`
	Stats     feed.Stats      `json:"stats"`
	Summary   filter.Summary  `json:"summary"`
	Listings  []filter.Ranked `json:"listings"`
}

func writeListingsJSON(out io.Writer, res *feed.Result, s filter.Summary, ranked []filter.Ranked) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(listingsOutput{
		Region:    res.Region,
		RunID:     res.RunID,
		Status:    res.Status,
		FetchedAt: res.FetchedAt.Format("2006-01-02T15:04:05Z07:00"),
		Stats:     res.Stats,
		Summary:   s,
		Listings:  ranked,
	})
}

func writeListingsTable(out io.Writer, res *feed.Result, s filter.Summary, ranked []filter.Ranked) error {
	_, _ = fmt.Fprintf(out, "Region %s: %d listings loaded, %d matching (status %s)\n",
		res.Region, len(res.Listings), s.Count, res.Status)
	if s.Count > 0 {
		_, _ = fmt.Fprintf(out, "Average discount %.1f%%, max %.1f%%, median price R$ %.2f\n",
			s.AvgDiscountPct, s.MaxDiscountPct, s.MedianPrice)
	}
	if res.Stats.AppraisalFallback {
		_, _ = fmt.Fprintln(out, "Note: no appraisal column in this feed; discounts are zero.")
	}
	if res.Stats.ConversionFailures > 0 {
		_, _ = fmt.Fprintf(out, "Note: %d price cells could not be read and count as zero.\n", res.Stats.ConversionFailures)
	}
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCITY\tNEIGHBORHOOD\tTYPE\tOCCUPANCY\tPRICE\tAPPRAISAL\tDISCOUNT\tBEDS\tAREA")
	_, _ = fmt.Fprintln(w, "--\t----\t------------\t----\t---------\t-----\t---------\t--------\t----\t----")

	for _, r := range ranked {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.1f%%\t%s\t%s\n",
			r.ID,
			truncate(r.City, 24),
			truncate(r.Neighborhood, 24),
			r.PropertyType,
			r.Occupancy,
			r.SalePrice,
			r.AppraisalValue,
			r.DiscountPct,
			optInt(r.Bedrooms),
			optArea(r.LivingAreaM2),
		)
	}
	return w.Flush()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func optArea(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64) + " m2"
}

func init() {
	listingsCmd.Flags().StringVar(&listingsRegion, "region", "", "two-letter region code (e.g. SP)")
	listingsCmd.Flags().StringVar(&listingsFile, "file", "", "parse a local copy of the feed instead of downloading")
	listingsCmd.Flags().IntVar(&listingsLimit, "limit", 50, "max listings to print (0 = all)")
	listingsCmd.Flags().StringVar(&listingsFormat, "format", "table", "output format: table or json")
	listingsFilters.register(listingsCmd)
	rootCmd.AddCommand(listingsCmd)
}
