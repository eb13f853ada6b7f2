package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/source"
)

var (
	importCSVPath string
	importDBPath  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV export into a SQLite snapshot",
	Long:  "Reads the raw CSV export and writes the records into a local SQLite snapshot, which the sqlite source driver reads at startup.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		csvSrc := source.NewCSV(importCSVPath)
		records, err := csvSrc.Records(ctx)
		if err != nil {
			return eris.Wrap(err, "import: read csv")
		}

		db, err := source.NewSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		if err := db.Replace(ctx, records); err != nil {
			return eris.Wrap(err, "import: write snapshot")
		}

		zap.L().Info("import complete",
			zap.Int("records", len(records)),
			zap.String("csv", importCSVPath),
			zap.String("db", importDBPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	importCmd.Flags().StringVar(&importDBPath, "db", "crimemap.db", "path to SQLite snapshot")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
