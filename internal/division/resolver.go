// Package division normalizes division names and anchors aggregates to the
// canonical division set supplied by the boundary provider.
package division

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/model"
)

// Normalize maps a raw division name to its canonical form: trimmed and
// uppercased. Identity for divisions is the normalized name.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Resolver holds the canonical division set. The set comes from the
// boundary provider and never changes based on observed data; it is the
// anchor for zero-fill semantics.
type Resolver struct {
	canonical map[string]struct{}
	names     []string
}

// NewResolver builds a resolver from boundary feature names. The names are
// normalized and deduplicated. An empty set is a fatal configuration
// error: without it no aggregate can be completed.
func NewResolver(names []string) (*Resolver, error) {
	canonical := make(map[string]struct{}, len(names))
	for _, n := range names {
		cn := Normalize(n)
		if cn == "" {
			continue
		}
		canonical[cn] = struct{}{}
	}
	if len(canonical) == 0 {
		return nil, eris.New("division: boundary provider yielded no division names")
	}

	sorted := make([]string, 0, len(canonical))
	for n := range canonical {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	return &Resolver{canonical: canonical, names: sorted}, nil
}

// Names returns the canonical division names in sorted order.
func (r *Resolver) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Contains reports whether the normalized name is a canonical division.
func (r *Resolver) Contains(name string) bool {
	_, ok := r.canonical[Normalize(name)]
	return ok
}

// Complete returns a mapping that contains every canonical division,
// inserting a zero-valued summary for divisions absent from the input.
// Data-derived keys outside the canonical set are carried through
// untouched: they aggregate normally but will never match a boundary at
// render time.
func (r *Resolver) Complete(in map[string]model.DivisionSummary) map[string]model.DivisionSummary {
	out := make(map[string]model.DivisionSummary, len(r.canonical)+len(in))
	for k, v := range in {
		out[k] = v
	}
	for name := range r.canonical {
		if _, ok := out[name]; !ok {
			out[name] = model.DivisionSummary{}
		}
	}
	return out
}

// WarnUnknown logs one data-quality warning per non-canonical division
// observed in the data. Unknown divisions are aggregated but unreachable
// from the map view.
func (r *Resolver) WarnUnknown(observed map[string]model.DivisionSummary) {
	for name := range observed {
		if _, ok := r.canonical[name]; !ok {
			zap.L().Warn("division: name absent from boundary set, invisible on map",
				zap.String("division", name),
			)
		}
	}
}
