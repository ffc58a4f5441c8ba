package dating

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

var (
	ErrCannotSwipeSelf = errors.New("cannot swipe on yourself")
	ErrUserBlocked     = errors.New("user is blocked")
	ErrTooManySwipes   = errors.New("too many swipes, please slow down")
	ErrForbidden       = errors.New("not allowed to access another user's data")
	ErrInvalidQuery    = errors.New("invalid query parameter")
)

func errInvalidQuery(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, name)
}

// ProfileStore is the part of the profile service discovery needs
type ProfileStore interface {
	BlockChecker
	GetProfile(ctx context.Context, id string) (*profile.Profile, error)
	MatchProfile(ctx context.Context, id string) (matching.UserProfile, error)
	MatchPool(ctx context.Context, id string, limit int) (matching.UserProfile, []matching.UserProfile, error)
	TouchLastActive(ctx context.Context, id string)
}

// Notifier delivers realtime match events
type Notifier interface {
	NotifyMatch(userID, userName, otherID, otherName string, event MatchEvent)
}

type Options struct {
	MaxCandidatePool  int
	SwipeLimitPerHour int
}

type Service struct {
	engine   *matching.Engine
	profiles ProfileStore
	repo     Repository
	cache    MatchCache
	notifier Notifier
	safety   *SafetyService
	opts     Options
	now      func() time.Time
}

func NewService(engine *matching.Engine, profiles ProfileStore, repo Repository, cache MatchCache, notifier Notifier, opts Options) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		engine:   engine,
		profiles: profiles,
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		safety:   NewSafetyService(repo, profiles, opts.SwipeLimitPerHour),
		opts:     opts,
		now:      time.Now,
	}
}

// GetMatches runs discovery for userID. Manual mode applies only when at least
// one filter is set; otherwise the compatible candidates are ranked.
func (s *Service) GetMatches(ctx context.Context, userID string, q MatchQuery) (*MatchesResponse, error) {
	start := time.Now()
	key := q.cacheKeySuffix()

	if cached, ok, err := s.cache.Get(ctx, userID, key); err != nil {
		zap.L().Warn("match cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		RecordRanking(cached.Type, true, time.Since(start))
		return cached, nil
	}

	self, pool, err := s.profiles.MatchPool(ctx, userID, s.opts.MaxCandidatePool)
	if err != nil {
		return nil, err
	}

	var resp MatchesResponse
	if q.Manual && !q.Filters.IsEmpty() {
		everyone := append([]matching.UserProfile{self}, pool...)
		resp = MatchesResponse{
			Matches: s.engine.FindManualMatches(self.ID, everyone, q.Filters),
			Type:    ModeManual,
		}
	} else {
		ranked, err := s.engine.RankCompatible(ctx, &self, pool)
		if err != nil {
			return nil, err
		}
		resp = MatchesResponse{Matches: ranked, Type: ModeAlgorithmic}
	}

	resp.Matches = lo.Map(resp.Matches, func(m matching.RankedMatch, _ int) matching.RankedMatch {
		m.Reasons = withDefaultReason(m.Reasons)
		return m
	})

	if err := s.cache.Set(ctx, userID, key, &resp); err != nil {
		zap.L().Warn("match cache write failed", zap.String("user_id", userID), zap.Error(err))
	}

	RecordRanking(resp.Type, false, time.Since(start))
	zap.L().Info("matches computed",
		zap.String("user_id", userID),
		zap.String("type", resp.Type),
		zap.Int("pool", len(pool)),
		zap.Int("matches", len(resp.Matches)))

	return &resp, nil
}

// Compatibility scores two stored users
func (s *Service) Compatibility(ctx context.Context, userID, otherID string) (*matching.CompatibilityResult, error) {
	self, err := s.profiles.MatchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.profiles.MatchProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	result := s.engine.Calculate(&self, &other)
	RecordCompatibility(result.TotalScore, result.Compatible, result.Dealbreaker())
	result.Reasons = withDefaultReason(result.Reasons)
	return &result, nil
}

// Swipe records a like or pass. A like answered by an earlier like from the
// target creates a match and notifies both users.
func (s *Service) Swipe(ctx context.Context, userID string, req *SwipeRequest) (*SwipeResponse, error) {
	if err := s.safety.VerifySwipe(ctx, userID, req.TargetID); err != nil {
		return nil, err
	}
	target, err := s.profiles.GetProfile(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}

	interaction := &Interaction{UserID: userID, TargetID: req.TargetID, Action: req.Action}
	if err := s.repo.RecordInteraction(ctx, interaction); err != nil {
		return nil, err
	}
	RecordSwipe(req.Action)
	s.profiles.TouchLastActive(ctx, userID)
	s.invalidate(ctx, userID)

	if req.Action != ActionLike {
		return &SwipeResponse{Match: false}, nil
	}

	reciprocal, err := s.repo.HasLiked(ctx, req.TargetID, userID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return &SwipeResponse{Match: false}, nil
	}

	match, err := s.createMatch(ctx, userID, target)
	if err != nil {
		return nil, err
	}
	return &SwipeResponse{Match: true, MatchID: &match.ID}, nil
}

func (s *Service) createMatch(ctx context.Context, userID string, target *profile.Profile) (*Match, error) {
	self, err := s.profiles.MatchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	other := target.ToMatchProfile(nil)
	result := s.engine.Calculate(&self, &other)
	RecordCompatibility(result.TotalScore, result.Compatible, result.Dealbreaker())

	match, created, err := s.repo.CreateMatch(ctx, &Match{
		User1ID:            userID,
		User2ID:            target.ID,
		CompatibilityScore: result.TotalScore,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return match, nil
	}
	RecordMatch()
	s.invalidate(ctx, target.ID)

	zap.L().Info("match created",
		zap.String("match_id", match.ID.String()),
		zap.String("user_id", userID),
		zap.String("target_id", target.ID),
		zap.Int("score", match.CompatibilityScore))

	if s.notifier != nil {
		userName := s.displayName(ctx, userID)
		s.notifier.NotifyMatch(userID, userName, target.ID, target.FullName, MatchEvent{
			MatchID: &match.ID,
			Score:   match.CompatibilityScore,
		})
	}
	return match, nil
}

// NotifyMatch pushes a new_match event to the caller and the named user
func (s *Service) NotifyMatch(ctx context.Context, userID string, req *NotifyMatchRequest) error {
	if userID == req.MatchUserID {
		return ErrCannotSwipeSelf
	}
	if _, err := s.profiles.GetProfile(ctx, req.MatchUserID); err != nil {
		return err
	}
	if err := s.safety.VerifyContact(ctx, userID, req.MatchUserID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyMatch(userID, s.displayName(ctx, userID), req.MatchUserID, req.MatchName, MatchEvent{})
	}
	return nil
}

// UserMatches lists the caller's mutual matches, newest first
func (s *Service) UserMatches(ctx context.Context, userID string) ([]MatchSummary, error) {
	matches, err := s.repo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]MatchSummary, 0, len(matches))
	for i := range matches {
		out = append(out, s.summarize(ctx, userID, &matches[i]))
	}
	return out, nil
}

// Activity lists up to five matches made in the last week
func (s *Service) Activity(ctx context.Context, userID string) (*Activity, error) {
	if _, err := s.profiles.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	matches, err := s.repo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recent := []RecentMatch{}
	for i := range matches {
		m := &matches[i]
		if now.Sub(m.MatchedAt) > activityWindow {
			continue
		}
		recent = append(recent, RecentMatch{
			MatchSummary: s.summarize(ctx, userID, m),
			TimeAgo:      timeAgo(m.MatchedAt, now),
		})
		if len(recent) == activityLimit {
			break
		}
	}
	return &Activity{RecentMatches: recent}, nil
}

func (s *Service) summarize(ctx context.Context, userID string, m *Match) MatchSummary {
	other := m.OtherUser(userID)
	sum := MatchSummary{
		ID:                 m.ID,
		UserID:             other,
		CompatibilityScore: m.CompatibilityScore,
		MatchedAt:          m.MatchedAt,
	}
	if p, err := s.profiles.GetProfile(ctx, other); err == nil {
		sum.Name = p.FullName
		sum.LGA = p.LGA
	}
	return sum
}

// UserStats summarises matches and likes for one user
func (s *Service) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	if _, err := s.profiles.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetUserStats(ctx, userID)
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		zap.L().Warn("display name lookup failed", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	return p.FullName
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		zap.L().Warn("match cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func withDefaultReason(reasons []string) []string {
	if len(reasons) == 0 {
		return []string{matching.DefaultReason}
	}
	return reasons
}

// acceptanceRate is likes given over likes received, as a rounded percentage
const (
	activityWindow = 7 * 24 * time.Hour
	activityLimit  = 5
)

func timeAgo(then, now time.Time) string {
	switch d := now.Sub(then); {
	case d < time.Minute:
		return "Just now"
	case d < activityWindow:
		return humanize.RelTime(then, now, "ago", "from now")
	}
	return then.Format("Jan 2, 2006")
}

func acceptanceRate(given, received int) string {
	if received == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(given)/float64(received)*100)))
}
