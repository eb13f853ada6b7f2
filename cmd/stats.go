package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/civicdata/crimemap/internal/model"
	"github.com/civicdata/crimemap/internal/view"
)

var statsYear int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-division summaries for a year",
	Long:  "Runs the batch aggregation and prints the per-division summary table for one year, or for all years combined.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := runBatch(cmd.Context())
		if err != nil {
			return err
		}

		bucket := model.YearBucket(statsYear)
		formatSummaries(os.Stdout, env.Tables.Summary(bucket), bucket)
		return nil
	},
}

// formatSummaries writes a tabular summary to w, sorted by division name.
func formatSummaries(out io.Writer, summary map[string]model.DivisionSummary, bucket model.YearBucket) {
	label := "ALL"
	if !bucket.IsAll() {
		label = fmt.Sprintf("%d", bucket)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "DIVISION\tTOTAL\tVIOLENT\tRATIO (%s)\n", label)

	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := summary[name]
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, s.Total, s.Violent, view.Percent(s.ViolentRatio))
	}
	_ = w.Flush()
}

func init() {
	statsCmd.Flags().IntVar(&statsYear, "year", 0, "calendar year (0 = all years)")
	rootCmd.AddCommand(statsCmd)
}
