// Package temporal resolves raw occurrence timestamps to calendar years.
//
// Raw exports are not guaranteed to use one timestamp format across the
// whole file, so parsing cascades: the primary datetime layout is tried
// over the entire input set first; if it never succeeds the date-only
// layout is tried over the set; any value still unresolved gets a
// permissive per-value parse. Only the calendar year survives.
package temporal

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	layoutDateTime = "01/02/2006 03:04:05 PM"
	layoutDateOnly = "01/02/2006"
)

// fallbackLayouts are tried per value for inputs the dataset-wide passes
// could not resolve.
var fallbackLayouts = []string{
	layoutDateTime,
	layoutDateOnly,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"1/2/2006",
}

// ErrNoParsableDates is returned when every timestamp in the input set
// fails all parse passes. This is a fatal configuration error: the dataset
// cannot be bucketed by year at all.
var ErrNoParsableDates = eris.New("temporal: no parsable occurrence dates in dataset")

// Result is the outcome of resolving one raw timestamp.
type Result struct {
	Year int
	OK   bool
}

// ParseAll resolves a batch of raw timestamps to years. Individual
// unresolvable values yield Result{OK: false}; the record they belong to
// is dropped by the caller. The only error is ErrNoParsableDates.
func ParseAll(raws []string) ([]Result, error) {
	out := make([]Result, len(raws))

	resolved := parsePass(raws, layoutDateTime, out)
	if resolved == 0 {
		resolved = parsePass(raws, layoutDateOnly, out)
	}

	for i, raw := range raws {
		if out[i].OK {
			continue
		}
		if y, ok := parseAny(raw); ok {
			out[i] = Result{Year: y, OK: true}
			resolved++
		}
	}

	if len(raws) > 0 && resolved == 0 {
		return nil, ErrNoParsableDates
	}
	return out, nil
}

// parsePass applies one layout to every unresolved value and returns the
// number of values it resolved.
func parsePass(raws []string, layout string, out []Result) int {
	var n int
	for i, raw := range raws {
		if out[i].OK {
			continue
		}
		t, err := time.Parse(layout, strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		out[i] = Result{Year: t.Year(), OK: true}
		n++
	}
	return n
}

// parseAny is the permissive last-resort parse for a single value.
func parseAny(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
