package dating

import (
	"context"
	"time"
)

// BlockChecker reports a block in either direction between two users
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID, targetID string) (bool, error)
}

// SafetyService gates swipes before they are recorded
type SafetyService struct {
	repo         Repository
	blocks       BlockChecker
	limitPerHour int
	now          func() time.Time
}

func NewSafetyService(repo Repository, blocks BlockChecker, limitPerHour int) *SafetyService {
	return &SafetyService{repo: repo, blocks: blocks, limitPerHour: limitPerHour, now: time.Now}
}

// VerifySwipe rejects self-swipes, blocked pairs and users over the hourly limit.
// A limit of 0 or less disables rate limiting.
func (s *SafetyService) VerifySwipe(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrCannotSwipeSelf
	}

	blocked, err := s.blocks.IsBlocked(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}

	if s.limitPerHour <= 0 {
		return nil
	}
	count, err := s.repo.CountRecentSwipes(ctx, userID, s.now().Add(-time.Hour))
	if err != nil {
		return err
	}
	if count >= s.limitPerHour {
		return ErrTooManySwipes
	}
	return nil
}

// VerifyContact rejects interactions between blocked users
func (s *SafetyService) VerifyContact(ctx context.Context, userID, targetID string) error {
	blocked, err := s.blocks.IsBlocked(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}
	return nil
}
