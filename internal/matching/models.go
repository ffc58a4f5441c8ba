package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Connection types. Anything other than ConnectionNative is treated as non-native.
const (
	ConnectionNative    = "native"
	ConnectionNonNative = "non-native"
)

// Sentinel values of UserProfile.CurrentLGA for people living outside the state.
const (
	OutsideNigeria = "outside_nigeria"
	OtherNigeria   = "other_nigeria"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that accepts "2006-01-02" or RFC 3339 in JSON.
// The zero value means the date is unknown.
type Date struct {
	time.Time
}

// NewDate returns a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromPtr converts an optional database timestamp.
func DateFromPtr(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return Date{*t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

// UserProfile is the view of a user the engine scores. Empty strings and
// zero ages mean "not provided".
type UserProfile struct {
	ID  string `json:"id"`
	DOB Date   `json:"dob"`

	Gender           string   `json:"gender,omitempty"`
	GenderPreference []string `json:"genderPreference,omitempty"`
	RelationshipGoal string   `json:"relationshipGoal,omitempty"`
	Education        string   `json:"education,omitempty"`
	Profession       string   `json:"profession,omitempty"`

	ConnectionType   string `json:"connectionType,omitempty"`
	LGA              string `json:"lga,omitempty"`
	Hometown         string `json:"hometown,omitempty"`
	CurrentLGA       string `json:"currentLga,omitempty"`
	City             string `json:"city,omitempty"`
	ConnectionReason string `json:"connectionReason,omitempty"`

	Hobbies        []string `json:"hobbies,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Preferences    string   `json:"preferences,omitempty"`
	DisabilityDesc string   `json:"disabilityDesc,omitempty"`

	MinAgePreference int `json:"minAgePreference,omitempty"`
	MaxAgePreference int `json:"maxAgePreference,omitempty"`

	BlockedUsers []string `json:"blockedUsers,omitempty"`
}

// IsNative reports whether the profile counts as native. An empty type defaults to native.
func (p *UserProfile) IsNative() bool {
	return p.ConnectionType == "" || p.ConnectionType == ConnectionNative
}

// Breakdown holds the per-dimension sub-scores, each in [0, 100].
type Breakdown struct {
	Location      float64 `json:"location"`
	Preferences   float64 `json:"preferences"`
	Hobbies       float64 `json:"hobbies"`
	Demographics  float64 `json:"demographics"`
	BioSimilarity float64 `json:"bioSimilarity"`
}

type CompatibilityResult struct {
	TotalScore int       `json:"totalScore"`
	Breakdown  Breakdown `json:"breakdown"`
	Compatible bool      `json:"compatible"`
	Reasons    []string  `json:"reasons"`
}

// Dealbreaker reports whether the pair was rejected outright.
func (r CompatibilityResult) Dealbreaker() bool {
	return len(r.Reasons) == 1 && r.Reasons[0] == DealbreakerReason && r.TotalScore == 0
}

type RankedMatch struct {
	User       UserProfile `json:"user"`
	Score      int         `json:"score"`
	Reasons    []string    `json:"reasons"`
	Compatible bool        `json:"compatible"`
	Breakdown  *Breakdown  `json:"breakdown,omitempty"`
}

// Filters narrows a manual search. Zero values are ignored.
type Filters struct {
	LGA     string   `json:"lga,omitempty" validate:"omitempty,max=64"`
	MinAge  int      `json:"minAge,omitempty" validate:"omitempty,min=0,max=120"`
	MaxAge  int      `json:"maxAge,omitempty" validate:"omitempty,min=0,max=120"`
	Hobbies []string `json:"hobbies,omitempty" validate:"omitempty,max=20,dive,max=64"`
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.LGA == "" && f.MinAge == 0 && f.MaxAge == 0 && len(f.Hobbies) == 0
}
