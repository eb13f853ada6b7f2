// Package session holds per-viewer selection state and derives the view
// feeding the map and ranking panels.
//
// The aggregate tables are shared and read-only; the only mutable state is
// the (year, division) selection pair, owned by exactly one viewer. Events
// are serialized per session, so the machine itself takes no locks.
package session

import (
	"fmt"

	"github.com/civicdata/crimemap/internal/aggregate"
	"github.com/civicdata/crimemap/internal/division"
	"github.com/civicdata/crimemap/internal/model"
)

// YearChangePolicy decides what happens to a division selection when the
// year filter changes and the division has zero records for the new year.
type YearChangePolicy string

const (
	// PolicyPersist keeps the division selected, showing an empty ranking.
	// This is the default.
	PolicyPersist YearChangePolicy = "persist"
	// PolicyReset falls back to the citywide view for the new year.
	PolicyReset YearChangePolicy = "reset"
)

// Selection is the observable state: year filter plus clicked division.
// An empty Division means no division is selected (citywide view).
type Selection struct {
	Year     model.YearBucket `json:"year"`
	Division string           `json:"division"`
}

// View is the derived output: which summary mapping colors the map, which
// ranking fills the table, and the table title. Deriving twice from the
// same selection yields identical output.
type View struct {
	MapSource   map[string]model.DivisionSummary `json:"map_source"`
	TableSource []model.RankingRow               `json:"table_source"`
	Title       string                           `json:"title"`
}

// Machine is the cross-filter state machine for one viewer session.
type Machine struct {
	tables    *aggregate.Tables
	policy    YearChangePolicy
	selection Selection
}

// New returns a machine in the initial state: all years, no division.
func New(tables *aggregate.Tables, policy YearChangePolicy) *Machine {
	if policy == "" {
		policy = PolicyPersist
	}
	return &Machine{tables: tables, policy: policy}
}

// Selection returns the current selection pair.
func (m *Machine) Selection() Selection {
	return m.selection
}

// SetYear applies a year-filter change. The division selection is subject
// to the configured policy: under PolicyReset it falls back to citywide
// when the division has no records in the new year.
func (m *Machine) SetYear(y model.YearBucket) {
	m.selection.Year = y

	if m.policy == PolicyReset && m.selection.Division != "" {
		if m.tables.Summary(y)[m.selection.Division].Total == 0 {
			m.selection.Division = ""
		}
	}
}

// ClickDivision applies a division click. The year filter is unchanged.
func (m *Machine) ClickDivision(d string) {
	m.selection.Division = division.Normalize(d)
}

// Derive computes the view for the current selection. Pure: no state is
// mutated and repeated calls return identical output.
func (m *Machine) Derive() View {
	return View{
		MapSource:   m.tables.Summary(m.selection.Year),
		TableSource: m.tables.Ranking(m.selection.Division, m.selection.Year),
		Title:       m.title(),
	}
}

// title renders the ranking panel heading the way the view displays it.
func (m *Machine) title() string {
	span := "All"
	years := m.tables.Years()
	if len(years) > 0 {
		span = fmt.Sprintf("All %d–%d", years[0], years[len(years)-1])
	}
	if !m.selection.Year.IsAll() {
		span = fmt.Sprintf("%d", m.selection.Year)
	}

	if m.selection.Division == "" {
		return fmt.Sprintf("Citywide Crime Ranking (%s)", span)
	}
	return fmt.Sprintf("Crime Ranking in %s (%s)", m.selection.Division, span)
}
