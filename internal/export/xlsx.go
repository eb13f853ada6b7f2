// Package export writes aggregate tables to an XLSX workbook for offline
// review.
package export

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/aggregate"
	"github.com/civicdata/crimemap/internal/model"
	"github.com/civicdata/crimemap/internal/view"
)

// WriteReport writes one summary sheet per year bucket plus the citywide
// ranking for each bucket.
func WriteReport(path string, tables *aggregate.Tables) error {
	f := xlsx.NewFile()

	buckets := []model.YearBucket{model.AllYears}
	for _, y := range tables.Years() {
		buckets = append(buckets, model.YearBucket(y))
	}

	for _, bucket := range buckets {
		if err := addSummarySheet(f, tables, bucket); err != nil {
			return err
		}
	}
	for _, bucket := range buckets {
		if err := addRankingSheet(f, tables, bucket); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}

	zap.L().Info("export: workbook written",
		zap.String("path", path),
		zap.Int("sheets", len(buckets)*2),
	)
	return nil
}

func bucketLabel(bucket model.YearBucket) string {
	if bucket.IsAll() {
		return "All Years"
	}
	return fmt.Sprintf("%d", bucket)
}

func addSummarySheet(f *xlsx.File, tables *aggregate.Tables, bucket model.YearBucket) error {
	sheet, err := f.AddSheet("Summary " + bucketLabel(bucket))
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Division", "Total", "Violent", "Violent Ratio"} {
		header.AddCell().Value = h
	}

	summary := tables.Summary(bucket)
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := summary[name]
		row := sheet.AddRow()
		row.AddCell().Value = name
		row.AddCell().SetInt(s.Total)
		row.AddCell().SetInt(s.Violent)
		row.AddCell().Value = view.Percent(s.ViolentRatio)
	}
	return nil
}

func addRankingSheet(f *xlsx.File, tables *aggregate.Tables, bucket model.YearBucket) error {
	sheet, err := f.AddSheet("Ranking " + bucketLabel(bucket))
	if err != nil {
		return eris.Wrap(err, "export: add ranking sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Crime Type", "Count", "Category"} {
		header.AddCell().Value = h
	}

	for _, r := range tables.Ranking("", bucket) {
		row := sheet.AddRow()
		row.AddCell().Value = r.Description
		row.AddCell().SetInt(r.Count)
		row.AddCell().Value = r.Category
	}
	return nil
}
