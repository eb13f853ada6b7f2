package source

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/fetcher"
	"github.com/civicdata/crimemap/internal/model"
)

// columns maps the LAPD export header to record fields. AREA NAME is
// preferred for the division; older exports carry only AREA. The fallback
// is resolved once at header time, not per row.
type columns struct {
	id, occurred, part, desc, area, areaName, lat, lon int
}

// CSV reads records from a crime-data CSV export.
type CSV struct {
	path string
}

// NewCSV returns a CSV-backed record source.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Records streams the whole file into memory.
func (c *CSV) Records(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open csv %s", c.path)
	}
	defer func() { _ = f.Close() }()

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		HasHeader:  true,
		HeaderCh:   headerCh,
		LazyQuotes: true,
	})

	var cols columns
	haveCols := false
	var records []model.Record

	for row := range rowCh {
		if !haveCols {
			// Header arrives before the first row.
			cols = mapColumns(<-headerCh)
			haveCols = true
		}
		records = append(records, rowToRecord(row, cols))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	zap.L().Info("source: csv read",
		zap.String("path", c.path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Close is a no-op; the file handle does not outlive Records.
func (c *CSV) Close() error { return nil }

func mapColumns(header []string) columns {
	cols := columns{id: -1, occurred: -1, part: -1, desc: -1, area: -1, areaName: -1, lat: -1, lon: -1}
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "DR_NO":
			cols.id = i
		case "DATE OCC":
			cols.occurred = i
		case "PART 1-2":
			cols.part = i
		case "CRM CD DESC":
			cols.desc = i
		case "AREA NAME":
			cols.areaName = i
		case "AREA":
			cols.area = i
		case "LAT":
			cols.lat = i
		case "LON":
			cols.lon = i
		}
	}
	return cols
}

func rowToRecord(row []string, cols columns) model.Record {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	division := field(cols.areaName)
	if cols.areaName < 0 {
		division = field(cols.area)
	}

	return model.Record{
		ID:           field(cols.id),
		OccurredAt:   field(cols.occurred),
		PartCode:     parsePart(field(cols.part)),
		Description:  field(cols.desc),
		DivisionName: division,
		Lat:          parseFloat(field(cols.lat)),
		Lon:          parseFloat(field(cols.lon)),
	}
}

// parsePart accepts both "1" and "1.0" style part codes.
func parsePart(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
