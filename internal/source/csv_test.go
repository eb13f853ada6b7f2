package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/crimemap/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crime.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVRecords(t *testing.T) {
	csv := "DR_NO,DATE OCC,Part 1-2,Crm Cd Desc,AREA NAME,LAT,LON\n" +
		"190101,01/08/2020 12:00:00 AM,1,ROBBERY,Central,34.05,-118.25\n" +
		"190102,02/09/2021 01:30:00 PM,2,PETTY THEFT,Topanga,34.2,-118.6\n"
	src := NewCSV(writeCSV(t, csv))
	t.Cleanup(func() { _ = src.Close() })

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, model.Record{
		ID:           "190101",
		OccurredAt:   "01/08/2020 12:00:00 AM",
		PartCode:     1,
		Description:  "ROBBERY",
		DivisionName: "Central",
		Lat:          34.05,
		Lon:          -118.25,
	}, records[0])
	assert.Equal(t, 2, records[1].PartCode)
}

func TestCSVPartCodeFloatStyle(t *testing.T) {
	csv := "DR_NO,DATE OCC,Part 1-2,Crm Cd Desc,AREA NAME,LAT,LON\n" +
		"1,01/08/2020,1.0,ROBBERY,Central,34.0,-118.0\n"
	src := NewCSV(writeCSV(t, csv))

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.PartSerious, records[0].PartCode)
}

func TestCSVAreaFallback(t *testing.T) {
	// Older exports carry AREA instead of AREA NAME.
	csv := "DR_NO,DATE OCC,Part 1-2,Crm Cd Desc,AREA,LAT,LON\n" +
		"1,01/08/2020,1,ROBBERY,Central,34.0,-118.0\n"
	src := NewCSV(writeCSV(t, csv))

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Central", records[0].DivisionName)
}

func TestCSVAreaNamePreferredOverArea(t *testing.T) {
	csv := "DR_NO,DATE OCC,Part 1-2,Crm Cd Desc,AREA,AREA NAME,LAT,LON\n" +
		"1,01/08/2020,1,ROBBERY,01,Central,34.0,-118.0\n"
	src := NewCSV(writeCSV(t, csv))

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Central", records[0].DivisionName)
}

func TestCSVShortRowAndBadNumbers(t *testing.T) {
	csv := "DR_NO,DATE OCC,Part 1-2,Crm Cd Desc,AREA NAME,LAT,LON\n" +
		"1,01/08/2020,not-a-number,ROBBERY\n"
	src := NewCSV(writeCSV(t, csv))

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].PartCode)
	assert.Zero(t, records[0].Lat)
	assert.Zero(t, records[0].Lon)
	assert.Empty(t, records[0].DivisionName)
}

func TestCSVMissingFile(t *testing.T) {
	src := NewCSV(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := src.Records(context.Background())
	assert.Error(t, err)
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(configSource("bogus", "", ""))
		assert.Error(t, err)
	})

	t.Run("default is csv", func(t *testing.T) {
		src, err := Open(configSource("", "some.csv", ""))
		require.NoError(t, err)
		_, ok := src.(*CSV)
		assert.True(t, ok)
	})
}
