package matching

import (
	"fmt"
	"strings"
	"time"
)

// DefaultReason is shown by callers when a result carries no reasons.
const DefaultReason = "Good potential match"

func (e *Engine) reasons(a, b *UserProfile, breakdown Breakdown, now time.Time) []string {
	reasons := []string{}

	switch {
	case breakdown.Location > 80:
		reasons = append(reasons, "You're in the same LGA")
	case breakdown.Location > 60:
		reasons = append(reasons, "You're in nearby areas")
	}

	if common := sharedHobbies(a.Hobbies, b.Hobbies); len(common) > 0 {
		reasons = append(reasons, fmt.Sprintf("Share %d hobbies: %s", len(common), strings.Join(common, ", ")))
	}

	if breakdown.Preferences > 70 {
		reasons = append(reasons, "Similar relationship goals")
	}

	if absInt(e.Age(a.DOB, now)-e.Age(b.DOB, now)) <= 3 {
		reasons = append(reasons, "Similar age range")
	}

	if bothSingleParents(a, b) {
		reasons = append(reasons, "Both single parents - shared experience")
	}

	return reasons
}
