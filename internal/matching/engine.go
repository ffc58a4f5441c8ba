package matching

import (
	"math"
	"strings"
	"time"
)

const (
	millisPerYear     = 1000 * 60 * 60 * 24 * 365.25
	DealbreakerReason = "Dealbreaker detected"
)

// Engine scores pairs of profiles. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	cfg     Config
	regions *Regions
	now     func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now. Tests use it to pin ages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithRegions(r *Regions) Option {
	return func(e *Engine) {
		e.regions = r
	}
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		regions: defaultRegions,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Calculate scores self against other. Missing fields fall back to neutral
// values; it never fails.
func (e *Engine) Calculate(self, other *UserProfile) CompatibilityResult {
	return e.calculate(orEmpty(self), orEmpty(other), e.now())
}

func (e *Engine) calculate(a, b *UserProfile, now time.Time) CompatibilityResult {
	w := e.cfg.Weights
	breakdown := Breakdown{
		Location:      e.locationScore(a, b),
		Preferences:   e.preferenceScore(a, b, now),
		Hobbies:       hobbyScore(a, b),
		Demographics:  e.demographicScore(a, b, now),
		BioSimilarity: bioSimilarity(a, b),
	}

	score := (breakdown.Location*w.Location +
		breakdown.Preferences*w.Preferences +
		breakdown.Hobbies*w.Hobbies +
		breakdown.Demographics*w.Demographics +
		breakdown.BioSimilarity*w.BioSimilarity) / 100

	if e.hasDealbreaker(a, b, now) {
		return CompatibilityResult{
			TotalScore: 0,
			Breakdown:  breakdown,
			Compatible: false,
			Reasons:    []string{DealbreakerReason},
		}
	}

	score = math.Min(score+e.bonuses(a, b, now), 100)

	return CompatibilityResult{
		TotalScore: int(math.Round(score)),
		Breakdown:  breakdown,
		Compatible: score >= e.cfg.CompatibleThreshold,
		Reasons:    e.reasons(a, b, breakdown, now),
	}
}

// Age returns whole years since dob at now, or the default age when dob is unknown.
func (e *Engine) Age(dob Date, now time.Time) int {
	if dob.IsZero() {
		return e.cfg.DefaultAge
	}
	elapsed := float64(now.Sub(dob.Time).Milliseconds())
	return int(math.Floor(elapsed / millisPerYear))
}

// acceptsAge reports whether target's age falls inside user's preferred range.
func (e *Engine) acceptsAge(user, target *UserProfile, now time.Time) bool {
	age := e.Age(target.DOB, now)
	minAge, maxAge := user.MinAgePreference, user.MaxAgePreference
	if minAge == 0 {
		minAge = e.cfg.DefaultMinAgePreference
	}
	if maxAge == 0 {
		maxAge = e.cfg.DefaultMaxAgePreference
	}
	return age >= minAge && age <= maxAge
}

func (e *Engine) hasDealbreaker(a, b *UserProfile, now time.Time) bool {
	if !e.acceptsAge(a, b, now) || !e.acceptsAge(b, a, now) {
		return true
	}
	return e.regions.goalsConflict(lower(a.RelationshipGoal), lower(b.RelationshipGoal))
}

func (e *Engine) bonuses(a, b *UserProfile, now time.Time) float64 {
	var bonus float64

	if isAcademic(a.Profession) && isAcademic(b.Profession) {
		bonus += e.cfg.AcademicBonus
	}

	if bothSingleParents(a, b) {
		bonus += e.cfg.SingleParentBonus
	}

	if e.professionalAge(e.Age(a.DOB, now)) && e.professionalAge(e.Age(b.DOB, now)) {
		bonus += e.cfg.ProfessionalBonus
	}

	return bonus
}

func (e *Engine) professionalAge(age int) bool {
	return age >= e.cfg.ProfessionalMinAge && age <= e.cfg.ProfessionalMaxAge
}

func isAcademic(profession string) bool {
	p := lower(profession)
	return strings.Contains(p, "student") || strings.Contains(p, "lecturer")
}

// bothSingleParents compares case-sensitively.
func bothSingleParents(a, b *UserProfile) bool {
	return a.RelationshipGoal == "single_parent" && b.RelationshipGoal == "single_parent"
}

func orEmpty(p *UserProfile) *UserProfile {
	if p == nil {
		return &UserProfile{}
	}
	return p
}

func lower(s string) string {
	return strings.ToLower(s)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
