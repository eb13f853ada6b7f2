package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/civicdata/crimemap/internal/fetcher"
)

var (
	fetchURL string
	fetchOut string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the incident dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := fetchURL
		if url == "" {
			url = cfg.Dataset.URL
		}
		if url == "" {
			return eris.New("dataset url is required (--url or CRIMEMAP_DATASET_URL)")
		}

		return fetcher.Download(cmd.Context(), url, fetchOut, fetcher.DownloadOptions{
			UserAgent:  cfg.Dataset.UserAgent,
			MaxRetries: 2,
			Limiter:    rate.NewLimiter(rate.Limit(1), 1),
		})
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "dataset URL (default from config)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "Crime_Data_from_2020_to_Present.csv", "output path")
	rootCmd.AddCommand(fetchCmd)
}
