package model

// AllYears is the synthetic year bucket spanning every observed year.
const AllYears YearBucket = 0

// YearBucket is either a calendar year or the AllYears sentinel.
type YearBucket int

// IsAll reports whether the bucket is the all-years bucket.
func (y YearBucket) IsAll() bool { return y == AllYears }

// Category labels assigned by the classifier.
const (
	CategoryViolent  = "Violent"
	CategoryProperty = "Property"
)

// DivisionSummary holds per-division counts for one year bucket.
// ViolentRatio is Violent/Total, or 0 when Total is 0 (never NaN).
type DivisionSummary struct {
	Total        int     `json:"total"`
	Violent      int     `json:"violent"`
	ViolentRatio float64 `json:"violent_ratio"`
}

// NewDivisionSummary derives the ratio from the counts.
func NewDivisionSummary(total, violent int) DivisionSummary {
	s := DivisionSummary{Total: total, Violent: violent}
	if total > 0 {
		s.ViolentRatio = float64(violent) / float64(total)
	}
	return s
}

// RankingRow is one entry of a crime-type ranking: a description, how many
// retained records carry it within the ranking's scope, and the category
// label assigned by the same classifier that produced the violent counts.
type RankingRow struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
	Category    string `json:"category"`
}
