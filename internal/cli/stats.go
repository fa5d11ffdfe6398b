package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/essence-shop/essence/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View shop statistics",
	Long:  `View store-wide statistics: catalog and order counts, revenue, the best rated products and the recent order trend.`,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	manager, handle, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer manager.Close()

	overview, err := stats.New(handle.Store()).Overview(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s📊 %s Overview%s\n", HeaderStyle, cfg.Settings.AppName, Reset)
	fmt.Fprintf(out, "%s====================%s\n", DimStyle, Reset)
	fmt.Fprintln(out, FormatCountLabel("Users:", int(overview.TotalUsers)))
	fmt.Fprintln(out, FormatCountLabel("Brands:", int(overview.TotalBrands)))
	fmt.Fprintf(out, "%s %s %s\n", FormatLabel("Products:"), FormatCount(int(overview.TotalProducts)),
		FormatMeta(fmt.Sprintf("(%d active)", overview.ActiveProducts)))
	fmt.Fprintln(out, FormatCountLabel("Orders:", int(overview.TotalOrders)))
	fmt.Fprintln(out, FormatLabelValue("Revenue:", overview.Revenue.StringFixed(2)))
	fmt.Fprintln(out)

	if len(overview.OrdersByStatus) > 0 {
		fmt.Fprintf(out, "%sOrders by Status:%s\n", SuccessStyle, Reset)
		for _, sc := range overview.OrdersByStatus {
			fmt.Fprintf(out, "  %s %s\n", FormatValue(string(sc.Status)), FormatCount(int(sc.Count)))
		}
		fmt.Fprintln(out)
	}

	if len(overview.TopRated) == 0 {
		fmt.Fprintf(out, "%sNo reviews yet.%s\n", WarningStyle, Reset)
	} else {
		fmt.Fprintf(out, "%s⭐ Top Rated Products%s\n", SuccessStyle, Reset)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%sRANK\tPRODUCT\tRATING\tREVIEWS%s\n", LabelStyle, Reset)
		fmt.Fprintf(w, "%s────\t───────\t──────\t───────%s\n", DimStyle, Reset)
		for i, r := range overview.TopRated {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n",
				FormatCount(i+1),
				FormatValue(r.ProductName),
				r.AverageRating,
				FormatCount(int(r.ReviewCount)),
			)
		}
		w.Flush()
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%sOrders, last %d days:%s\n", SuccessStyle, stats.DefaultTrendDays, Reset)
	if len(overview.OrderTrends) == 0 {
		fmt.Fprintln(out, FormatMeta("  none"))
	}
	for _, p := range overview.OrderTrends {
		fmt.Fprintf(out, "  %s %s\n", FormatMeta(p.Timestamp.Format("2006-01-02")), FormatCount(p.Count))
	}
	return nil
}
