// Package model defines the record and aggregate types shared across the
// ingestion, aggregation, and session packages.
package model

// PartSerious is the part code marking an incident as a serious (Part 1)
// offense. Records with any other part code are excluded before aggregation.
const PartSerious = 1

// Record is one raw incident row as delivered by a record source. String
// fields are carried verbatim; cleaning happens in the ingest package.
type Record struct {
	ID           string  `json:"id"`
	OccurredAt   string  `json:"occurred_at"`
	PartCode     int     `json:"part_code"`
	Description  string  `json:"description"`
	DivisionName string  `json:"division_name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// CleanRecord is an incident that survived cleaning: division normalized,
// year resolved, classification assigned.
type CleanRecord struct {
	Division    string `json:"division"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	Violent     bool   `json:"violent"`
}
