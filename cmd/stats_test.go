package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicdata/crimemap/internal/model"
)

func TestFormatSummaries(t *testing.T) {
	summary := map[string]model.DivisionSummary{
		"TOPANGA": model.NewDivisionSummary(10, 0),
		"CENTRAL": model.NewDivisionSummary(4, 1),
	}

	var buf bytes.Buffer
	formatSummaries(&buf, summary, 2023)

	out := buf.String()
	assert.Contains(t, out, "RATIO (2023)")
	assert.Contains(t, out, "25.00%")
	// Sorted by division name.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("CENTRAL")), bytes.Index(buf.Bytes(), []byte("TOPANGA")))
}

func TestFormatSummariesAllYearsLabel(t *testing.T) {
	var buf bytes.Buffer
	formatSummaries(&buf, map[string]model.DivisionSummary{}, model.AllYears)
	assert.Contains(t, buf.String(), "RATIO (ALL)")
}
