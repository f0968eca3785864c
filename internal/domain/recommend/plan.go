package recommend

import (
	"strings"

	"campus-marketplace/internal/domain/history"
)

const (
	// HistoryDepth is how many recent searches feed a recommendation
	HistoryDepth = 5
	// Limit caps the recommendation result size
	Limit = 6
)

// Plan is the keyword OR-filter used to bias recent items towards a user.
// There is no scoring: an item either matches one disjunct or it does not.
type Plan struct {
	Keywords    []string
	Affiliation string
	Limit       int
}

// NewPlan splits recent queries into distinct keywords in first-seen order
func NewPlan(queries []string, affiliation string) Plan {
	seen := make(map[string]struct{})
	var keywords []string
	for _, q := range queries {
		for _, kw := range strings.Fields(history.Normalize(q)) {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}

	return Plan{
		Keywords:    keywords,
		Affiliation: strings.TrimSpace(affiliation),
		Limit:       Limit,
	}
}

// Unfiltered returns true if the plan degenerates to a plain recent-items list
func (p Plan) Unfiltered() bool {
	return len(p.Keywords) == 0 && p.Affiliation == ""
}
