package matching

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// FindManualMatches scores every candidate in pool that passes filters
// against the profile with id selfID. The acting user and anyone they block
// are excluded. Results are not filtered by compatibility and are sorted by
// score, highest first, keeping pool order on ties. An unknown selfID yields
// an empty slice.
func (e *Engine) FindManualMatches(selfID string, pool []UserProfile, filters Filters) []RankedMatch {
	self, ok := lo.Find(pool, func(p UserProfile) bool {
		return p.ID == selfID
	})
	if !ok {
		return []RankedMatch{}
	}

	now := e.now()
	candidates := lo.Filter(pool, func(p UserProfile, _ int) bool {
		return p.ID != selfID &&
			!lo.Contains(self.BlockedUsers, p.ID) &&
			e.passesFilters(&p, filters, now)
	})

	matches := make([]RankedMatch, 0, len(candidates))
	for i := range candidates {
		result := e.calculate(&self, &candidates[i], now)
		breakdown := result.Breakdown
		matches = append(matches, RankedMatch{
			User:       candidates[i],
			Score:      result.TotalScore,
			Reasons:    result.Reasons,
			Compatible: result.Compatible,
			Breakdown:  &breakdown,
		})
	}

	sortByScore(matches)
	return matches
}

func (e *Engine) passesFilters(p *UserProfile, f Filters, now time.Time) bool {
	if f.LGA != "" && p.LGA != f.LGA {
		return false
	}
	if f.MinAge != 0 && e.Age(p.DOB, now) < f.MinAge {
		return false
	}
	if f.MaxAge != 0 && e.Age(p.DOB, now) > f.MaxAge {
		return false
	}
	if len(f.Hobbies) > 0 && !lo.Some(p.Hobbies, f.Hobbies) {
		return false
	}
	return true
}

func sortByScore(matches []RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
