// internal/dating/admin.go

package dating

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/profile"
)

const (
	defaultGrowthDays  = 30
	maxGrowthDays      = 365
	defaultRecentUsers = 10
	defaultPageSize    = 20
	maxPageSize        = 100
)

var ErrCannotDeleteSelf = errors.New("cannot delete yourself")

// UserDirectory is the profile store as the admin console uses it
type UserDirectory interface {
	ListProfiles(ctx context.Context, limit, offset int) ([]profile.Profile, int, error)
	UpdateProfile(ctx context.Context, id string, req *profile.UpdateProfileRequest) (*profile.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

type AdminService struct {
	repo  Repository
	users UserDirectory
	now   func() time.Time
}

func NewAdminService(repo Repository, users UserDirectory) *AdminService {
	return &AdminService{repo: repo, users: users, now: time.Now}
}

func (a *AdminService) GetStats(ctx context.Context) (*AdminStats, error) {
	return a.repo.GetAdminStats(ctx)
}

// GetGrowth returns daily registrations; days is clamped to [1, 365] and defaults to 30
func (a *AdminService) GetGrowth(ctx context.Context, days int) ([]GrowthPoint, error) {
	switch {
	case days <= 0:
		days = defaultGrowthDays
	case days > maxGrowthDays:
		days = maxGrowthDays
	}
	return a.repo.GetRegistrationGrowth(ctx, days)
}

// RecentUsers returns the newest registrations
func (a *AdminService) RecentUsers(ctx context.Context, limit int) ([]AdminUser, error) {
	limit = clampPageSize(limit, defaultRecentUsers)
	rows, _, err := a.users.ListProfiles(ctx, limit, 0)
	if err != nil {
		return nil, err
	}
	return a.adminUsers(rows), nil
}

// ListUsers pages through every user, newest first. page starts at 1.
func (a *AdminService) ListUsers(ctx context.Context, page, limit int) (*UsersPage, error) {
	if page < 1 {
		page = 1
	}
	limit = clampPageSize(limit, defaultPageSize)

	rows, total, err := a.users.ListProfiles(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &UsersPage{
		Users: a.adminUsers(rows),
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// UpdateUser applies a partial profile update on behalf of an admin
func (a *AdminService) UpdateUser(ctx context.Context, id string, req *profile.UpdateProfileRequest) (*AdminUser, error) {
	p, err := a.users.UpdateProfile(ctx, id, req)
	if err != nil {
		return nil, err
	}
	u := a.adminUser(*p)
	return &u, nil
}

// DeleteUser removes another user's profile. Admins cannot delete themselves.
func (a *AdminService) DeleteUser(ctx context.Context, adminID, id string) error {
	if adminID == id {
		return ErrCannotDeleteSelf
	}
	if err := a.users.DeleteProfile(ctx, id); err != nil {
		return err
	}
	zap.L().Info("user deleted by admin", zap.String("admin_id", adminID), zap.String("user_id", id))
	return nil
}

func (a *AdminService) adminUsers(rows []profile.Profile) []AdminUser {
	return lo.Map(rows, func(p profile.Profile, _ int) AdminUser { return a.adminUser(p) })
}

func (a *AdminService) adminUser(p profile.Profile) AdminUser {
	u := AdminUser{Profile: p, IsAdmin: p.IsAdmin}
	if p.DOB != nil {
		u.Age = lo.ToPtr(a.now().Year() - p.DOB.Year())
	}
	return u
}

func clampPageSize(limit, fallback int) int {
	switch {
	case limit <= 0:
		return fallback
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}
