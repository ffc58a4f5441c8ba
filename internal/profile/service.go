// internal/profile/service.go

package profile

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/matching"
)

var (
	ErrCannotBlockSelf  = errors.New("cannot block yourself")
	ErrInvalidAgeRange  = errors.New("minAgePreference must not exceed maxAgePreference")
	ErrCannotModifyUser = errors.New("cannot modify another user's profile")
)

// Invalidator drops cached match results that depend on a user's profile
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

// Service holds profile business logic
type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService creates a profile service. cache may be nil.
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetProfile returns the stored profile row
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

// ViewProfile returns id as seen by viewerID. A block in either direction
// hides the profile, and only the owner sees the email address.
func (s *Service) ViewProfile(ctx context.Context, viewerID, id string) (*Profile, error) {
	if viewerID != id {
		blocked, err := s.repo.IsBlocked(ctx, viewerID, id)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, ErrProfileNotFound
		}
	}

	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID != id {
		p.Email = ""
	}
	return p, nil
}

// ListProfiles pages through every profile, newest first
func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int, error) {
	return s.repo.ListProfiles(ctx, limit, offset)
}

// MatchProfile returns the engine view of a user, blocked list included
func (s *Service) MatchProfile(ctx context.Context, id string) (matching.UserProfile, error) {
	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return matching.UserProfile{}, err
	}
	blocked, err := s.repo.GetBlockedUsers(ctx, id)
	if err != nil {
		return matching.UserProfile{}, err
	}
	return p.ToMatchProfile(blocked), nil
}

// MatchPool loads the user and up to limit candidates for them
func (s *Service) MatchPool(ctx context.Context, id string, limit int) (matching.UserProfile, []matching.UserProfile, error) {
	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return matching.UserProfile{}, nil, err
	}
	blocked, err := s.repo.GetBlockedUsers(ctx, id)
	if err != nil {
		return matching.UserProfile{}, nil, err
	}

	rows, err := s.repo.FindCandidates(ctx, p, limit)
	if err != nil {
		return matching.UserProfile{}, nil, err
	}

	pool := lo.Map(rows, func(row Profile, _ int) matching.UserProfile {
		return row.ToMatchProfile(nil)
	})
	return p.ToMatchProfile(blocked), pool, nil
}

// UpdateProfile applies a partial update for the caller's own profile
func (s *Service) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*Profile, error) {
	if req.MinAgePreference != nil || req.MaxAgePreference != nil {
		current, err := s.repo.GetProfile(ctx, id)
		if err != nil {
			return nil, err
		}
		minAge, maxAge := current.MinAgePreference, current.MaxAgePreference
		if req.MinAgePreference != nil {
			minAge = *req.MinAgePreference
		}
		if req.MaxAgePreference != nil {
			maxAge = *req.MaxAgePreference
		}
		if minAge != 0 && maxAge != 0 && minAge > maxAge {
			return nil, ErrInvalidAgeRange
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// DeleteProfile removes the caller's profile
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if err := s.repo.DeleteProfile(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// BlockUser records that userID blocked blockedID
func (s *Service) BlockUser(ctx context.Context, userID, blockedID string) error {
	if userID == blockedID {
		return ErrCannotBlockSelf
	}
	if _, err := s.repo.GetProfile(ctx, blockedID); err != nil {
		return err
	}
	if err := s.repo.BlockUser(ctx, userID, blockedID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.invalidate(ctx, blockedID)
	return nil
}

// UnblockUser removes a block
func (s *Service) UnblockUser(ctx context.Context, userID, blockedID string) error {
	if err := s.repo.UnblockUser(ctx, userID, blockedID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.invalidate(ctx, blockedID)
	return nil
}

// GetBlockedUsers lists who userID has blocked
func (s *Service) GetBlockedUsers(ctx context.Context, userID string) ([]string, error) {
	return s.repo.GetBlockedUsers(ctx, userID)
}

// IsBlocked reports a block in either direction
func (s *Service) IsBlocked(ctx context.Context, userID, targetID string) (bool, error) {
	return s.repo.IsBlocked(ctx, userID, targetID)
}

// IsAdmin satisfies auth.AdminChecker
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.repo.IsAdmin(ctx, userID)
}

// TouchLastActive records activity; failures are logged and swallowed
func (s *Service) TouchLastActive(ctx context.Context, userID string) {
	if err := s.repo.TouchLastActive(ctx, userID); err != nil {
		zap.L().Warn("failed to update last_active", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		zap.L().Warn("failed to invalidate match cache", zap.String("user_id", userID), zap.Error(err))
	}
}
