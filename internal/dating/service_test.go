package dating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

type serviceFixture struct {
	svc      *Service
	profiles *fakeProfiles
	repo     *fakeRepo
	cache    *memoryCache
	notifier *recordingNotifier
}

func newServiceFixture(opts Options) *serviceFixture {
	f := &serviceFixture{
		profiles: newFakeProfiles(testProfiles()...),
		repo:     &fakeRepo{},
		cache:    newMemoryCache(),
		notifier: &recordingNotifier{},
	}
	if opts.MaxCandidatePool == 0 {
		opts.MaxCandidatePool = 100
	}
	f.svc = NewService(newTestEngine(), f.profiles, f.repo, f.cache, f.notifier, opts)
	f.svc.safety.now = func() time.Time { return fixedNow }
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func matchIDs(ms []matching.RankedMatch) []string {
	return lo.Map(ms, func(m matching.RankedMatch, _ int) string { return m.User.ID })
}

func TestGetMatches_Algorithmic(t *testing.T) {
	f := newServiceFixture(Options{})

	resp, err := f.svc.GetMatches(context.Background(), "ada", MatchQuery{})
	require.NoError(t, err)

	assert.Equal(t, ModeAlgorithmic, resp.Type)
	ids := matchIDs(resp.Matches)
	assert.Contains(t, ids, "ben")
	assert.NotContains(t, ids, "cal", "conflicting goals never rank")
	assert.NotContains(t, ids, "ada")
	for i, m := range resp.Matches {
		assert.True(t, m.Compatible)
		assert.NotEmpty(t, m.Reasons)
		if i > 0 {
			assert.LessOrEqual(t, m.Score, resp.Matches[i-1].Score)
		}
	}
}

func TestGetMatches_ManualNeedsFilters(t *testing.T) {
	f := newServiceFixture(Options{})

	resp, err := f.svc.GetMatches(context.Background(), "ada", MatchQuery{Manual: true})
	require.NoError(t, err)
	assert.Equal(t, ModeAlgorithmic, resp.Type)
}

func TestGetMatches_Manual(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	resp, err := f.svc.GetMatches(ctx, "ada", MatchQuery{Manual: true, Filters: matching.Filters{LGA: "Eket"}})
	require.NoError(t, err)
	assert.Equal(t, ModeManual, resp.Type)
	assert.Equal(t, []string{"eno"}, matchIDs(resp.Matches))

	resp, err = f.svc.GetMatches(ctx, "ada", MatchQuery{Manual: true, Filters: matching.Filters{Hobbies: []string{"music"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ben", "cal"}, matchIDs(resp.Matches), "manual results keep incompatible candidates")
	assert.Equal(t, []string{matching.DealbreakerReason}, resp.Matches[1].Reasons)
}

func TestGetMatches_ExcludesBlocked(t *testing.T) {
	f := newServiceFixture(Options{})
	f.profiles.block("ben", "ada")

	resp, err := f.svc.GetMatches(context.Background(), "ada", MatchQuery{})
	require.NoError(t, err)
	assert.NotContains(t, matchIDs(resp.Matches), "ben")
}

func TestGetMatches_Cached(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	first, err := f.svc.GetMatches(ctx, "ada", MatchQuery{})
	require.NoError(t, err)
	second, err := f.svc.GetMatches(ctx, "ada", MatchQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.profiles.poolCall)
	assert.Equal(t, first, second)

	_, err = f.svc.GetMatches(ctx, "ada", MatchQuery{Manual: true, Filters: matching.Filters{LGA: "Eket"}})
	require.NoError(t, err)
	assert.Equal(t, 2, f.profiles.poolCall, "different filters use a different cache entry")
}

func TestGetMatches_UnknownUser(t *testing.T) {
	f := newServiceFixture(Options{})

	_, err := f.svc.GetMatches(context.Background(), "ghost", MatchQuery{})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestCompatibility(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	r, err := f.svc.Compatibility(ctx, "ada", "ben")
	require.NoError(t, err)
	assert.True(t, r.Compatible)

	r, err = f.svc.Compatibility(ctx, "ada", "cal")
	require.NoError(t, err)
	assert.True(t, r.Dealbreaker())

	_, err = f.svc.Compatibility(ctx, "ada", "ghost")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestSwipe_MutualLikeCreatesMatch(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	resp, err := f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
	require.NoError(t, err)
	assert.False(t, resp.Match)
	assert.Empty(t, f.notifier.sent)

	resp, err = f.svc.Swipe(ctx, "ben", &SwipeRequest{TargetID: "ada", Action: ActionLike})
	require.NoError(t, err)
	require.True(t, resp.Match)
	require.NotNil(t, resp.MatchID)

	require.Len(t, f.repo.matches, 1)
	m := f.repo.matches[0]
	assert.Equal(t, "ada", m.User1ID)
	assert.Equal(t, "ben", m.User2ID)
	assert.Equal(t, *resp.MatchID, m.ID)

	expected := newTestEngine()
	ada, _ := f.profiles.MatchProfile(ctx, "ada")
	ben, _ := f.profiles.MatchProfile(ctx, "ben")
	assert.Equal(t, expected.Calculate(&ben, &ada).TotalScore, m.CompatibilityScore)

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, "ben", n.userID)
	assert.Equal(t, "Ben", n.userName)
	assert.Equal(t, "ada", n.otherID)
	assert.Equal(t, "Ada", n.otherName)
	assert.Equal(t, resp.MatchID, n.event.MatchID)

	assert.Contains(t, f.cache.invalidated, "ada")
	assert.Contains(t, f.cache.invalidated, "ben")
	assert.Equal(t, []string{"ada", "ben"}, f.profiles.touched)
}

func TestSwipe_RepeatLikeDoesNotRenotify(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	_, err := f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
	require.NoError(t, err)
	first, err := f.svc.Swipe(ctx, "ben", &SwipeRequest{TargetID: "ada", Action: ActionLike})
	require.NoError(t, err)
	require.True(t, first.Match)
	require.Len(t, f.notifier.sent, 1)

	before := testutil.ToFloat64(matchesTotal)
	for i := 0; i < 3; i++ {
		resp, err := f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
		require.NoError(t, err)
		assert.True(t, resp.Match, "the pair is still matched")
		assert.Equal(t, first.MatchID, resp.MatchID)
	}

	assert.Len(t, f.repo.matches, 1)
	assert.Len(t, f.notifier.sent, 1)
	assert.Equal(t, before, testutil.ToFloat64(matchesTotal))
}

func TestSwipe_PassNeverMatches(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	_, err := f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
	require.NoError(t, err)
	resp, err := f.svc.Swipe(ctx, "ben", &SwipeRequest{TargetID: "ada", Action: ActionPass})
	require.NoError(t, err)

	assert.False(t, resp.Match)
	assert.Empty(t, f.repo.matches)
	assert.Len(t, f.repo.interactions, 2)
}

func TestSwipe_Rejections(t *testing.T) {
	f := newServiceFixture(Options{SwipeLimitPerHour: 2})
	f.profiles.block("cal", "ada")
	ctx := context.Background()

	_, err := f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ada", Action: ActionLike})
	assert.ErrorIs(t, err, ErrCannotSwipeSelf)

	_, err = f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "cal", Action: ActionLike})
	assert.ErrorIs(t, err, ErrUserBlocked)

	_, err = f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ghost", Action: ActionLike})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	_, err = f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionPass})
	require.NoError(t, err)
	_, err = f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "eno", Action: ActionPass})
	require.NoError(t, err)
	_, err = f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
	assert.ErrorIs(t, err, ErrTooManySwipes)
}

func TestSwipe_RepositoryError(t *testing.T) {
	f := newServiceFixture(Options{})
	f.repo.err = errors.New("db down")

	_, err := f.svc.Swipe(context.Background(), "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
	assert.EqualError(t, err, "db down")
}

func TestNotifyMatch(t *testing.T) {
	f := newServiceFixture(Options{})
	f.profiles.block("ada", "cal")
	ctx := context.Background()

	require.NoError(t, f.svc.NotifyMatch(ctx, "ada", &NotifyMatchRequest{MatchUserID: "ben", MatchName: "Benny"}))
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification{userID: "ada", userName: "Ada", otherID: "ben", otherName: "Benny"}, f.notifier.sent[0])

	assert.ErrorIs(t, f.svc.NotifyMatch(ctx, "ada", &NotifyMatchRequest{MatchUserID: "cal", MatchName: "Cal"}), ErrUserBlocked)
	assert.ErrorIs(t, f.svc.NotifyMatch(ctx, "ada", &NotifyMatchRequest{MatchUserID: "ghost", MatchName: "x"}), profile.ErrProfileNotFound)
	assert.ErrorIs(t, f.svc.NotifyMatch(ctx, "ada", &NotifyMatchRequest{MatchUserID: "ada", MatchName: "x"}), ErrCannotSwipeSelf)
}

func TestUserMatches(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()

	_, _ = f.svc.Swipe(ctx, "ada", &SwipeRequest{TargetID: "ben", Action: ActionLike})
	_, _ = f.svc.Swipe(ctx, "ben", &SwipeRequest{TargetID: "ada", Action: ActionLike})

	matches, err := f.svc.UserMatches(ctx, "ben")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "ada", matches[0].UserID)
	assert.Equal(t, "Ada", matches[0].Name)
	assert.Equal(t, "Uyo", matches[0].LGA)
	assert.Equal(t, f.repo.matches[0].ID, matches[0].ID)

	matches, err = f.svc.UserMatches(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "ben", matches[0].UserID)

	matches, err = f.svc.UserMatches(ctx, "eno")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestActivity(t *testing.T) {
	f := newServiceFixture(Options{})
	ctx := context.Background()
	at := func(d time.Duration) time.Time { return fixedNow.Add(-d) }
	f.repo.matches = []Match{
		{ID: uuid.New(), User1ID: "ada", User2ID: "ben", CompatibilityScore: 80, MatchedAt: at(30 * time.Second)},
		{ID: uuid.New(), User1ID: "ada", User2ID: "eno", CompatibilityScore: 60, MatchedAt: at(3 * time.Hour)},
		{ID: uuid.New(), User1ID: "ada", User2ID: "cal", CompatibilityScore: 40, MatchedAt: at(10 * 24 * time.Hour)},
	}

	activity, err := f.svc.Activity(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, activity.RecentMatches, 2)
	assert.Equal(t, "ben", activity.RecentMatches[0].UserID)
	assert.Equal(t, "Just now", activity.RecentMatches[0].TimeAgo)
	assert.Equal(t, "eno", activity.RecentMatches[1].UserID)
	assert.Equal(t, "3 hours ago", activity.RecentMatches[1].TimeAgo)

	activity, err = f.svc.Activity(ctx, "ben")
	require.NoError(t, err)
	assert.Len(t, activity.RecentMatches, 1)

	_, err = f.svc.Activity(ctx, "ghost")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestActivity_Limit(t *testing.T) {
	f := newServiceFixture(Options{})
	for i := 0; i < 8; i++ {
		f.repo.matches = append(f.repo.matches, Match{ID: uuid.New(), User1ID: "ada", User2ID: "ben", MatchedAt: fixedNow.Add(-time.Duration(i) * time.Hour)})
	}

	activity, err := f.svc.Activity(context.Background(), "ada")
	require.NoError(t, err)
	assert.Len(t, activity.RecentMatches, activityLimit)
}

func TestTimeAgo(t *testing.T) {
	then := time.Date(2025, time.December, 20, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", timeAgo(fixedNow.Add(-10*time.Second), fixedNow))
	assert.Equal(t, "2 days ago", timeAgo(fixedNow.Add(-49*time.Hour), fixedNow))
	assert.Equal(t, "Dec 20, 2025", timeAgo(then, fixedNow))
}

func TestAcceptanceRate(t *testing.T) {
	assert.Equal(t, "0%", acceptanceRate(5, 0))
	assert.Equal(t, "50%", acceptanceRate(1, 2))
	assert.Equal(t, "67%", acceptanceRate(2, 3))
}

func TestScheduler_PrunePasses(t *testing.T) {
	repo := &fakeRepo{interactions: []Interaction{
		{UserID: "a", TargetID: "b", Action: ActionPass, CreatedAt: fixedNow.AddDate(0, 0, -40)},
		{UserID: "a", TargetID: "c", Action: ActionPass, CreatedAt: fixedNow.AddDate(0, 0, -2)},
		{UserID: "a", TargetID: "d", Action: ActionLike, CreatedAt: fixedNow.AddDate(0, 0, -40)},
	}}
	s := NewScheduler(repo, NewMetricsCollector(repo))
	s.now = func() time.Time { return fixedNow }

	require.NoError(t, s.PrunePasses(context.Background()))
	assert.Len(t, repo.interactions, 2)
}

func TestMetricsCollector(t *testing.T) {
	repo := &fakeRepo{stats: AdminStats{ActiveUsers: 3, TotalMatches: 2}}
	require.NoError(t, NewMetricsCollector(repo).Collect(context.Background()))

	repo.err = errors.New("db down")
	assert.Error(t, NewMetricsCollector(repo).Collect(context.Background()))
}

func TestAdminGrowthClamp(t *testing.T) {
	a := NewAdminService(&fakeRepo{}, newFakeProfiles())
	ctx := context.Background()

	points, err := a.GetGrowth(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, points, defaultGrowthDays)

	points, err = a.GetGrowth(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, points, maxGrowthDays)
}

func TestAdminUsers(t *testing.T) {
	profiles := newFakeProfiles(testProfiles()...)
	profiles.profiles["ada"].IsAdmin = true
	a := NewAdminService(&fakeRepo{}, profiles)
	a.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	recent, err := a.RecentUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.True(t, recent[0].IsAdmin)
	require.NotNil(t, recent[0].Age)
	assert.Equal(t, 31, *recent[0].Age)

	page, err := a.ListUsers(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Page: 2, Limit: 3, Total: 4, TotalPages: 2}, page.Pagination)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "eno", page.Users[0].ID)

	page, err = a.ListUsers(ctx, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, maxPageSize, page.Pagination.Limit)

	updated, err := a.UpdateUser(ctx, "ben", &profile.UpdateProfileRequest{FullName: lo.ToPtr("Benedict")})
	require.NoError(t, err)
	assert.Equal(t, "Benedict", updated.FullName)

	assert.ErrorIs(t, a.DeleteUser(ctx, "ada", "ada"), ErrCannotDeleteSelf)
	require.NoError(t, a.DeleteUser(ctx, "ada", "cal"))
	assert.NotContains(t, profiles.profiles, "cal")
	assert.ErrorIs(t, a.DeleteUser(ctx, "ada", "cal"), profile.ErrProfileNotFound)
}
