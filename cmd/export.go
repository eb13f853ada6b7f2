package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write aggregates to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := runBatch(cmd.Context())
		if err != nil {
			return err
		}

		if err := export.WriteReport(exportOut, env.Tables); err != nil {
			return err
		}

		zap.L().Info("export complete", zap.String("out", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "crimemap-report.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
