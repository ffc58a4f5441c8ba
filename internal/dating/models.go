package dating

import (
	"time"

	"github.com/google/uuid"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

// Swipe actions
const (
	ActionLike = "like"
	ActionPass = "pass"
)

// Discovery modes reported in MatchesResponse.Type
const (
	ModeManual      = "manual"
	ModeAlgorithmic = "algorithmic"
)

type Interaction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	TargetID  string    `json:"targetId" db:"target_id"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Match is a mutual like. user1_id < user2_id so each pair is stored once.
type Match struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	User1ID            string    `json:"user1Id" db:"user1_id"`
	User2ID            string    `json:"user2Id" db:"user2_id"`
	CompatibilityScore int       `json:"compatibilityScore" db:"compatibility_score"`
	MatchedAt          time.Time `json:"matchedAt" db:"matched_at"`
}

// OtherUser returns the member of the pair that is not userID
func (m *Match) OtherUser(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// MatchSummary is one match seen from the caller's side
type MatchSummary struct {
	ID                 uuid.UUID `json:"id"`
	UserID             string    `json:"userId"`
	Name               string    `json:"name"`
	LGA                string    `json:"lga,omitempty"`
	CompatibilityScore int       `json:"compatibilityScore"`
	MatchedAt          time.Time `json:"matchedAt"`
}

type RecentMatch struct {
	MatchSummary
	TimeAgo string `json:"timeAgo"`
}

// Activity is the caller's recent activity feed
type Activity struct {
	RecentMatches []RecentMatch `json:"recentMatches"`
}

// orderedPair puts two ids in storage order
func orderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// UserStats summarises one user's activity
type UserStats struct {
	Matches        int    `json:"matches"`
	LikesGiven     int    `json:"likesGiven"`
	LikesReceived  int    `json:"likesReceived"`
	AcceptanceRate string `json:"acceptanceRate"`
}

// AdminStats is the dashboard summary
type AdminStats struct {
	TotalUsers         int       `json:"total_users" db:"total_users"`
	MaleUsers          int       `json:"male_users" db:"male_users"`
	FemaleUsers        int       `json:"female_users" db:"female_users"`
	Age18To25          int       `json:"age_18_25" db:"age_18_25"`
	Age26To35          int       `json:"age_26_35" db:"age_26_35"`
	Age36To50          int       `json:"age_36_50" db:"age_36_50"`
	TodayRegistrations int       `json:"today_registrations" db:"today_registrations"`
	ActiveUsers        int       `json:"active_users" db:"active_users"`
	TotalMatches       int       `json:"total_matches" db:"total_matches"`
	RecentInteractions int       `json:"recent_interactions" db:"recent_interactions"`
	Timestamp          time.Time `json:"timestamp" db:"-"`
}

// GrowthPoint is the number of registrations on one day
type GrowthPoint struct {
	Day   time.Time `json:"day" db:"day"`
	Count int       `json:"count" db:"count"`
}

// AdminUser is a profile row as the admin console shows it. Age counts
// calendar years.
type AdminUser struct {
	profile.Profile
	IsAdmin bool `json:"isAdmin"`
	Age     *int `json:"age"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type UsersPage struct {
	Users      []AdminUser `json:"users"`
	Pagination Pagination  `json:"pagination"`
}
