package dating

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

var fixedNow = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *matching.Engine {
	return matching.NewEngine(matching.DefaultConfig(), matching.WithClock(func() time.Time { return fixedNow }))
}

func dob(year int) *time.Time {
	t := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// testProfiles: ada is the acting user; ben is a strong match, cal has a
// conflicting goal, eno lives in Eket.
func testProfiles() []*profile.Profile {
	return []*profile.Profile{
		{ID: "ada", FullName: "Ada", DOB: dob(1995), Gender: "female", GenderPreference: []string{"male"},
			RelationshipGoal: "marriage", ConnectionType: "native", LGA: "Uyo", Hometown: "Uyo",
			Hobbies: []string{"music", "reading"}, Bio: "I enjoy music and reading novels",
			MinAgePreference: 25, MaxAgePreference: 40},
		{ID: "ben", FullName: "Ben", DOB: dob(1993), Gender: "male", GenderPreference: []string{"female"},
			RelationshipGoal: "marriage", ConnectionType: "native", LGA: "Uyo", Hometown: "Uyo",
			Hobbies: []string{"music", "football"}, Bio: "Music lover and novels reader",
			MinAgePreference: 25, MaxAgePreference: 40},
		{ID: "cal", FullName: "Cal", DOB: dob(1994), Gender: "male",
			RelationshipGoal: "casual dating", ConnectionType: "native", LGA: "Uyo", Hometown: "Uyo",
			Hobbies: []string{"music"}},
		{ID: "eno", FullName: "Eno", DOB: dob(1992), Gender: "male",
			RelationshipGoal: "serious relationship", ConnectionType: "native", LGA: "Eket", Hometown: "Eket",
			Hobbies: []string{"reading"}},
	}
}

// fakeProfiles is an in-memory ProfileStore
type fakeProfiles struct {
	profiles map[string]*profile.Profile
	blocks   map[[2]string]bool
	touched  []string
	poolCall int
}

func newFakeProfiles(ps ...*profile.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: map[string]*profile.Profile{}, blocks: map[[2]string]bool{}}
	for _, p := range ps {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) block(a, b string) { f.blocks[[2]string{a, b}] = true }

func (f *fakeProfiles) IsBlocked(_ context.Context, a, b string) (bool, error) {
	return f.blocks[[2]string{a, b}] || f.blocks[[2]string{b, a}], nil
}

func (f *fakeProfiles) GetProfile(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) blockedBy(id string) []string {
	var out []string
	for pair := range f.blocks {
		if pair[0] == id {
			out = append(out, pair[1])
		}
	}
	return out
}

func (f *fakeProfiles) MatchProfile(ctx context.Context, id string) (matching.UserProfile, error) {
	p, err := f.GetProfile(ctx, id)
	if err != nil {
		return matching.UserProfile{}, err
	}
	return p.ToMatchProfile(f.blockedBy(id)), nil
}

// MatchPool returns everyone except self and blocked pairs, in id order
func (f *fakeProfiles) MatchPool(ctx context.Context, id string, limit int) (matching.UserProfile, []matching.UserProfile, error) {
	f.poolCall++
	self, err := f.MatchProfile(ctx, id)
	if err != nil {
		return matching.UserProfile{}, nil, err
	}
	var pool []matching.UserProfile
	for _, pid := range []string{"ada", "ben", "cal", "eno"} {
		p, ok := f.profiles[pid]
		if !ok || pid == id || len(pool) >= limit {
			continue
		}
		if blocked, _ := f.IsBlocked(ctx, id, pid); blocked {
			continue
		}
		pool = append(pool, p.ToMatchProfile(nil))
	}
	return self, pool, nil
}

func (f *fakeProfiles) TouchLastActive(_ context.Context, id string) {
	f.touched = append(f.touched, id)
}

func (f *fakeProfiles) ListProfiles(_ context.Context, limit, offset int) ([]profile.Profile, int, error) {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []profile.Profile{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, *f.profiles[ids[i]])
	}
	return out, len(ids), nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, id string, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	p, err := f.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	return p, nil
}

func (f *fakeProfiles) DeleteProfile(_ context.Context, id string) error {
	if _, ok := f.profiles[id]; !ok {
		return profile.ErrProfileNotFound
	}
	delete(f.profiles, id)
	return nil
}

// fakeRepo is an in-memory Repository
type fakeRepo struct {
	mu           sync.Mutex
	interactions []Interaction
	matches      []Match
	stats        AdminStats
	err          error
}

func (r *fakeRepo) RecordInteraction(_ context.Context, in *Interaction) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	in.ID = uuid.New()
	in.CreatedAt = fixedNow
	r.interactions = append(r.interactions, *in)
	return nil
}

func (r *fakeRepo) HasLiked(_ context.Context, userID, targetID string) (bool, error) {
	for _, in := range r.interactions {
		if in.UserID == userID && in.TargetID == targetID && in.Action == ActionLike {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CountRecentSwipes(_ context.Context, userID string, since time.Time) (int, error) {
	n := 0
	for _, in := range r.interactions {
		if in.UserID == userID && in.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) PruneInteractions(_ context.Context, action string, before time.Time) (int64, error) {
	var kept []Interaction
	var n int64
	for _, in := range r.interactions {
		if in.Action == action && in.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, in)
	}
	r.interactions = kept
	return n, nil
}

func (r *fakeRepo) CreateMatch(_ context.Context, m *Match) (*Match, bool, error) {
	m.User1ID, m.User2ID = orderedPair(m.User1ID, m.User2ID)
	for _, existing := range r.matches {
		if existing.User1ID == m.User1ID && existing.User2ID == m.User2ID {
			return &existing, false, nil
		}
	}
	m.ID = uuid.New()
	m.MatchedAt = fixedNow
	r.matches = append(r.matches, *m)
	return m, true, nil
}

func (r *fakeRepo) GetUserMatches(_ context.Context, userID string) ([]Match, error) {
	out := []Match{}
	for _, m := range r.matches {
		if m.User1ID == userID || m.User2ID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetUserStats(_ context.Context, userID string) (*UserStats, error) {
	return &UserStats{AcceptanceRate: "0%"}, nil
}

func (r *fakeRepo) GetAdminStats(context.Context) (*AdminStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	s := r.stats
	return &s, nil
}

func (r *fakeRepo) GetRegistrationGrowth(_ context.Context, days int) ([]GrowthPoint, error) {
	out := make([]GrowthPoint, days)
	for i := range out {
		out[i] = GrowthPoint{Day: fixedNow.AddDate(0, 0, i-days+1)}
	}
	return out, nil
}

type notification struct {
	userID, userName, otherID, otherName string
	event                                MatchEvent
}

type recordingNotifier struct {
	sent []notification
}

func (n *recordingNotifier) NotifyMatch(userID, userName, otherID, otherName string, event MatchEvent) {
	n.sent = append(n.sent, notification{userID, userName, otherID, otherName, event})
}

// memoryCache is a MatchCache backed by a map
type memoryCache struct {
	entries     map[string]*MatchesResponse
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]*MatchesResponse{}}
}

func (c *memoryCache) Get(_ context.Context, userID, query string) (*MatchesResponse, bool, error) {
	resp, ok := c.entries[userID+"/"+query]
	return resp, ok, nil
}

func (c *memoryCache) Set(_ context.Context, userID, query string, resp *MatchesResponse) error {
	c.entries[userID+"/"+query] = resp
	return nil
}

func (c *memoryCache) InvalidateUser(_ context.Context, userID string) error {
	c.invalidated = append(c.invalidated, userID)
	for k := range c.entries {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+"/" {
			delete(c.entries, k)
		}
	}
	return nil
}
