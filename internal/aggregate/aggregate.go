// Package aggregate turns the cleaned record set into precomputed summary
// and ranking lookup tables.
//
// Everything here is a pure batch computation: the tables are built once
// from the full cleaned record set, are immutable afterwards, and any
// change to the input requires a full rebuild. Session handlers query the
// tables in O(1); nothing is recomputed per UI event.
package aggregate

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/division"
	"github.com/civicdata/crimemap/internal/model"
)

// scope identifies one ranking: a division (empty string = citywide)
// crossed with a year bucket.
type scope struct {
	Division string
	Year     model.YearBucket
}

// counter accumulates per-description counts in first-encountered order.
type counter struct {
	counts  map[string]int
	violent map[string]bool
	order   []string
}

func newCounter() *counter {
	return &counter{
		counts:  make(map[string]int),
		violent: make(map[string]bool),
	}
}

func (c *counter) add(desc string, isViolent bool) {
	if _, seen := c.counts[desc]; !seen {
		c.order = append(c.order, desc)
		c.violent[desc] = isViolent
	}
	c.counts[desc]++
}

// rows renders the counter as a ranking: count descending, ties broken by
// first-encountered order. The sort must be stable for the tie rule.
func (c *counter) rows() []model.RankingRow {
	out := make([]model.RankingRow, 0, len(c.order))
	for _, desc := range c.order {
		category := model.CategoryProperty
		if c.violent[desc] {
			category = model.CategoryViolent
		}
		out = append(out, model.RankingRow{
			Description: desc,
			Count:       c.counts[desc],
			Category:    category,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Tables holds every precomputed aggregate. Immutable once built; safe for
// concurrent reads.
type Tables struct {
	years     []int
	summaries map[model.YearBucket]map[string]model.DivisionSummary
	rankings  map[scope][]model.RankingRow
}

// Build aggregates the cleaned record set. Summaries are computed per
// division for the all-years bucket and for each observed year, then
// completed against the canonical division set so every division appears
// even with zero records. Rankings are computed citywide and per division,
// for the all-years bucket and each observed year.
func Build(records []model.CleanRecord, resolver *division.Resolver, years []int) *Tables {
	start := time.Now()

	type divYear struct {
		Division string
		Year     model.YearBucket
	}
	totals := make(map[divYear]int)
	violents := make(map[divYear]int)
	counters := make(map[scope]*counter)

	bump := func(s scope, rec model.CleanRecord) {
		c, ok := counters[s]
		if !ok {
			c = newCounter()
			counters[s] = c
		}
		c.add(rec.Description, rec.Violent)
	}

	for _, rec := range records {
		year := model.YearBucket(rec.Year)

		for _, y := range []model.YearBucket{model.AllYears, year} {
			k := divYear{Division: rec.Division, Year: y}
			totals[k]++
			if rec.Violent {
				violents[k]++
			}

			bump(scope{Division: "", Year: y}, rec)
			bump(scope{Division: rec.Division, Year: y}, rec)
		}
	}

	// Summary tables, completed per year bucket.
	buckets := make([]model.YearBucket, 0, len(years)+1)
	buckets = append(buckets, model.AllYears)
	for _, y := range years {
		buckets = append(buckets, model.YearBucket(y))
	}

	summaries := make(map[model.YearBucket]map[string]model.DivisionSummary, len(buckets))
	for _, bucket := range buckets {
		m := make(map[string]model.DivisionSummary)
		for k, total := range totals {
			if k.Year != bucket {
				continue
			}
			m[k.Division] = model.NewDivisionSummary(total, violents[k])
		}
		if bucket.IsAll() {
			resolver.WarnUnknown(m)
		}
		summaries[bucket] = resolver.Complete(m)
	}

	rankings := make(map[scope][]model.RankingRow, len(counters))
	for s, c := range counters {
		rankings[s] = c.rows()
	}

	t := &Tables{
		years:     append([]int(nil), years...),
		summaries: summaries,
		rankings:  rankings,
	}

	zap.L().Info("aggregate: tables built",
		zap.Int("records", len(records)),
		zap.Int("year_buckets", len(buckets)),
		zap.Int("rankings", len(rankings)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return t
}

// Years returns the observed year list the tables were built with.
func (t *Tables) Years() []int {
	out := make([]int, len(t.years))
	copy(out, t.years)
	return out
}

// Summary returns the per-division summary mapping for a year bucket.
// Every canonical division is present. Unknown buckets resolve to a
// zero-filled mapping, never an error.
func (t *Tables) Summary(year model.YearBucket) map[string]model.DivisionSummary {
	if m, ok := t.summaries[year]; ok {
		return m
	}
	// A bucket outside the observed set still yields a complete mapping:
	// reuse the all-years keys with zero summaries.
	m := make(map[string]model.DivisionSummary, len(t.summaries[model.AllYears]))
	for name := range t.summaries[model.AllYears] {
		m[name] = model.DivisionSummary{}
	}
	return m
}

// Ranking returns the crime-type ranking for a division and year bucket.
// An empty division means citywide. Combinations with no data resolve to
// an empty sequence, never an error.
func (t *Tables) Ranking(div string, year model.YearBucket) []model.RankingRow {
	return t.rankings[scope{Division: division.Normalize(div), Year: year}]
}
