// internal/profile/models.go

package profile

import (
	"time"

	"github.com/lib/pq"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
)

// Profile is one row of the profiles table. Nullable text columns are
// coalesced to "" and nullable age preferences to 0 by the queries.
type Profile struct {
	ID               string         `db:"id" json:"id"`
	Email            string         `db:"email" json:"email,omitempty"`
	FullName         string         `db:"full_name" json:"fullName"`
	IsAdmin          bool           `db:"is_admin" json:"-"`
	DOB              *time.Time     `db:"dob" json:"dob,omitempty"`
	Gender           string         `db:"gender" json:"gender,omitempty"`
	GenderPreference pq.StringArray `db:"gender_preference" json:"genderPreference"`
	RelationshipGoal string         `db:"relationship_goal" json:"relationshipGoal,omitempty"`
	Education        string         `db:"education" json:"education,omitempty"`
	Profession       string         `db:"profession" json:"profession,omitempty"`
	ConnectionType   string         `db:"connection_type" json:"connectionType"`
	LGA              string         `db:"lga" json:"lga,omitempty"`
	Hometown         string         `db:"hometown" json:"hometown,omitempty"`
	CurrentLGA       string         `db:"current_lga" json:"currentLga,omitempty"`
	City             string         `db:"city" json:"city,omitempty"`
	ConnectionReason string         `db:"connection_reason" json:"connectionReason,omitempty"`
	Hobbies          pq.StringArray `db:"hobbies" json:"hobbies"`
	Bio              string         `db:"bio" json:"bio,omitempty"`
	Preferences      string         `db:"preferences" json:"preferences,omitempty"`
	DisabilityDesc   string         `db:"disability_desc" json:"disabilityDesc,omitempty"`
	MinAgePreference int            `db:"min_age_preference" json:"minAgePreference,omitempty"`
	MaxAgePreference int            `db:"max_age_preference" json:"maxAgePreference,omitempty"`
	LastActive       *time.Time     `db:"last_active" json:"lastActive,omitempty"`
	CreatedAt        *time.Time     `db:"created_at" json:"createdAt,omitempty"`
}

// ToMatchProfile converts the row into the engine's input shape.
// blocked is the set of ids this user has blocked.
func (p *Profile) ToMatchProfile(blocked []string) matching.UserProfile {
	return matching.UserProfile{
		ID:               p.ID,
		DOB:              matching.DateFromPtr(p.DOB),
		Gender:           p.Gender,
		GenderPreference: []string(p.GenderPreference),
		RelationshipGoal: p.RelationshipGoal,
		Education:        p.Education,
		Profession:       p.Profession,
		ConnectionType:   p.ConnectionType,
		LGA:              p.LGA,
		Hometown:         p.Hometown,
		CurrentLGA:       p.CurrentLGA,
		City:             p.City,
		ConnectionReason: p.ConnectionReason,
		Hobbies:          []string(p.Hobbies),
		Bio:              p.Bio,
		Preferences:      p.Preferences,
		DisabilityDesc:   p.DisabilityDesc,
		MinAgePreference: p.MinAgePreference,
		MaxAgePreference: p.MaxAgePreference,
		BlockedUsers:     blocked,
	}
}

// UpdateProfileRequest is the body of PUT /api/v1/profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName         *string   `json:"fullName" validate:"omitempty,min=1,max=255"`
	DOB              *string   `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender           *string   `json:"gender" validate:"omitempty,oneof=male female"`
	GenderPreference []string  `json:"genderPreference" validate:"omitempty,dive,oneof=male female"`
	RelationshipGoal *string   `json:"relationshipGoal" validate:"omitempty,max=50"`
	Education        *string   `json:"education" validate:"omitempty,max=50"`
	Profession       *string   `json:"profession" validate:"omitempty,max=255"`
	ConnectionType   *string   `json:"connectionType" validate:"omitempty,oneof=native non-native"`
	LGA              *string   `json:"lga" validate:"omitempty,max=100"`
	Hometown         *string   `json:"hometown" validate:"omitempty,max=255"`
	CurrentLGA       *string   `json:"currentLga" validate:"omitempty,max=100"`
	City             *string   `json:"city" validate:"omitempty,max=100"`
	ConnectionReason *string   `json:"connectionReason" validate:"omitempty,max=2000"`
	Hobbies          []string  `json:"hobbies" validate:"omitempty,max=30,dive,min=1,max=50"`
	Bio              *string   `json:"bio" validate:"omitempty,max=2000"`
	Preferences      *string   `json:"preferences" validate:"omitempty,max=2000"`
	DisabilityDesc   *string   `json:"disabilityDesc" validate:"omitempty,max=2000"`
	MinAgePreference *int      `json:"minAgePreference" validate:"omitempty,min=18,max=70"`
	MaxAgePreference *int      `json:"maxAgePreference" validate:"omitempty,min=18,max=70"`
}

// BlockedUsersResponse lists ids the caller has blocked
type BlockedUsersResponse struct {
	BlockedUsers []string `json:"blockedUsers"`
}
