// Package view renders derived session state into the JSON payloads the
// map and table panels consume. Display formatting (grouped counts,
// 2-decimal percentages) lives here, at the view boundary, never in the
// aggregate tables.
package view

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/civicdata/crimemap/internal/session"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// MapEntry colors one division on the choropleth.
type MapEntry struct {
	Division     string  `json:"division"`
	Total        int     `json:"total"`
	Violent      int     `json:"violent"`
	ViolentRatio float64 `json:"violent_ratio"`
	RatioLabel   string  `json:"ratio_label"`
}

// TableRow is one ranked crime type.
type TableRow struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
	CountLabel  string `json:"count_label"`
	Category    string `json:"category"`
}

// Payload is the full derived view for one selection state.
type Payload struct {
	Selection session.Selection `json:"selection"`
	Title     string            `json:"title"`
	Map       []MapEntry        `json:"map"`
	Table     []TableRow        `json:"table"`
}

// Render converts a derived view into its JSON payload. Map entries are
// sorted by division name so output is stable across calls.
func Render(sel session.Selection, v session.View) Payload {
	entries := make([]MapEntry, 0, len(v.MapSource))
	for name, s := range v.MapSource {
		entries = append(entries, MapEntry{
			Division:     name,
			Total:        s.Total,
			Violent:      s.Violent,
			ViolentRatio: s.ViolentRatio,
			RatioLabel:   Percent(s.ViolentRatio),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Division < entries[j].Division })

	rows := make([]TableRow, 0, len(v.TableSource))
	for _, r := range v.TableSource {
		rows = append(rows, TableRow{
			Description: r.Description,
			Count:       r.Count,
			CountLabel:  printer.Sprintf("%d", r.Count),
			Category:    r.Category,
		})
	}

	return Payload{
		Selection: sel,
		Title:     v.Title,
		Map:       entries,
		Table:     rows,
	}
}

// Percent renders a ratio as a percentage with 2-decimal precision.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
