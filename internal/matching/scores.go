package matching

import (
	"math"
	"time"

	"github.com/samber/lo"
)

const neutralScore = 50

func (e *Engine) preferenceScore(a, b *UserProfile, now time.Time) float64 {
	var score float64

	aAccepts := e.acceptsAge(a, b, now)
	bAccepts := e.acceptsAge(b, a, now)
	switch {
	case aAccepts && bAccepts:
		score += 40
	case aAccepts || bAccepts:
		score += 20
	}

	score += e.goalAlignment(a.RelationshipGoal, b.RelationshipGoal) * 30

	if a.Preferences != "" && b.Preferences != "" {
		score += textSimilarity(lower(a.Preferences), lower(b.Preferences)) * 30
	}

	return math.Min(score, 100)
}

// goalAlignment is 1 for listed pairs, 0.3 otherwise, 0.5 when either goal is missing.
func (e *Engine) goalAlignment(goalA, goalB string) float64 {
	if goalA == "" || goalB == "" {
		return 0.5
	}
	if e.regions.goalsCompatible(lower(goalA), lower(goalB)) {
		return 1.0
	}
	return 0.3
}

func hobbyScore(a, b *UserProfile) float64 {
	if len(a.Hobbies) == 0 || len(b.Hobbies) == 0 {
		return neutralScore
	}

	common := sharedHobbies(a.Hobbies, b.Hobbies)
	union := len(lo.Uniq(append(append([]string{}, a.Hobbies...), b.Hobbies...)))
	similarity := float64(len(common)) * 100 / float64(union)

	return math.Min(similarity+10, 100)
}

// sharedHobbies keeps the order of a and drops duplicates.
func sharedHobbies(a, b []string) []string {
	return lo.Filter(lo.Uniq(a), func(h string, _ int) bool {
		return lo.Contains(b, h)
	})
}

func (e *Engine) demographicScore(a, b *UserProfile, now time.Time) float64 {
	score := float64(neutralScore)

	diff := absInt(e.Age(a.DOB, now) - e.Age(b.DOB, now))
	switch {
	case diff <= 2:
		score += 30
	case diff <= 5:
		score += 20
	case diff <= 10:
		score += 10
	case diff <= 15:
		score += 5
	}

	if a.Education != "" && b.Education != "" {
		ra := e.regions.educationRank(lower(a.Education))
		rb := e.regions.educationRank(lower(b.Education))
		if ra != -1 && rb != -1 {
			switch absInt(ra - rb) {
			case 0:
				score += 20
			case 1:
				score += 10
			}
		}
	}

	if a.DisabilityDesc != "" && b.DisabilityDesc != "" {
		score += 15
	}

	return math.Min(score, 100)
}

func bioSimilarity(a, b *UserProfile) float64 {
	if a.Bio == "" || b.Bio == "" {
		return neutralScore
	}

	wa, wb := significantWords(lower(a.Bio)), significantWords(lower(b.Bio))
	common := commonWords(wa, wb)
	if len(common) == 0 {
		return 30
	}

	return math.Min(float64(len(common))*100/float64(min(len(wa), len(wb))), 100)
}
