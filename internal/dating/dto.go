package dating

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
)

type SwipeRequest struct {
	TargetID string `json:"targetId" validate:"required,max=128"`
	Action   string `json:"action" validate:"required,oneof=like pass"`
}

type SwipeResponse struct {
	Match   bool       `json:"match"`
	MatchID *uuid.UUID `json:"matchId,omitempty"`
}

type NotifyMatchRequest struct {
	MatchUserID string `json:"matchUserId" validate:"required,max=128"`
	MatchName   string `json:"matchName" validate:"required,max=255"`
}

type MatchesResponse struct {
	Matches []matching.RankedMatch `json:"matches"`
	Type    string                 `json:"type"`
}

// MatchEvent is the payload pushed to both users when a match happens
type MatchEvent struct {
	MatchID     *uuid.UUID `json:"matchId,omitempty"`
	MatchUserID string     `json:"matchUserId"`
	MatchName   string     `json:"matchName,omitempty"`
	Score       int        `json:"score,omitempty"`
}

// MatchQuery is the parsed query string of GET /api/v1/matches/{userId}
type MatchQuery struct {
	Manual  bool
	Filters matching.Filters
}

// parseMatchQuery reads manual, lga, minAge, maxAge and hobbies (comma separated)
func parseMatchQuery(r *http.Request) (MatchQuery, error) {
	q := r.URL.Query()
	var out MatchQuery

	if v := q.Get("manual"); v != "" {
		manual, err := strconv.ParseBool(v)
		if err != nil {
			return MatchQuery{}, errInvalidQuery("manual")
		}
		out.Manual = manual
	}

	out.Filters.LGA = strings.TrimSpace(q.Get("lga"))

	for name, dst := range map[string]*int{"minAge": &out.Filters.MinAge, "maxAge": &out.Filters.MaxAge} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return MatchQuery{}, errInvalidQuery(name)
		}
		*dst = n
	}

	if v := q.Get("hobbies"); v != "" {
		hobbies := lo.Map(strings.Split(v, ","), func(h string, _ int) string { return strings.TrimSpace(h) })
		out.Filters.Hobbies = lo.Compact(hobbies)
	}

	return out, nil
}

// cacheKeySuffix identifies the query for result caching
func (q MatchQuery) cacheKeySuffix() string {
	if !q.Manual || q.Filters.IsEmpty() {
		return ModeAlgorithmic
	}
	f := q.Filters
	return strings.Join([]string{
		ModeManual,
		f.LGA,
		strconv.Itoa(f.MinAge),
		strconv.Itoa(f.MaxAge),
		strings.Join(f.Hobbies, ","),
	}, "|")
}
