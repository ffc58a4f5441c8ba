// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"
)

// ErrProfileNotFound is returned when no profile row exists for an id
var ErrProfileNotFound = errors.New("profile not found")

// Repository is the profile store used by the services
type Repository interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	FindCandidates(ctx context.Context, self *Profile, limit int) ([]Profile, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	TouchLastActive(ctx context.Context, id string) error
	IsAdmin(ctx context.Context, id string) (bool, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int, error)

	BlockUser(ctx context.Context, userID, blockedID string) error
	UnblockUser(ctx context.Context, userID, blockedID string) error
	GetBlockedUsers(ctx context.Context, userID string) ([]string, error)
	IsBlocked(ctx context.Context, userID, targetID string) (bool, error)
}

// Default age preference bounds applied when a profile leaves them unset
const (
	defaultMinAge = 25
	defaultMaxAge = 40
)

const profileColumns = `
	id, COALESCE(email, '') AS email, full_name, is_admin, dob,
	COALESCE(gender, '') AS gender, gender_preference,
	COALESCE(relationship_goal, '') AS relationship_goal,
	COALESCE(education, '') AS education,
	COALESCE(profession, '') AS profession,
	connection_type,
	COALESCE(lga, '') AS lga,
	COALESCE(hometown, '') AS hometown,
	COALESCE(current_lga, '') AS current_lga,
	COALESCE(city, '') AS city,
	COALESCE(connection_reason, '') AS connection_reason,
	hobbies,
	COALESCE(bio, '') AS bio,
	COALESCE(preferences, '') AS preferences,
	COALESCE(disability_desc, '') AS disability_desc,
	COALESCE(min_age_preference, 0) AS min_age_preference,
	COALESCE(max_age_preference, 0) AS max_age_preference,
	last_active, created_at`

// PostgresRepository implements Repository with sqlx
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetProfile loads one profile by id
func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, eris.Wrap(err, "profile: get")
	}
	return &p, nil
}

// FindCandidates returns other profiles whose age falls inside self's age
// preference and whose gender is in self's gender preference, when one is set.
// Profiles without a date of birth have no age and are never candidates, and
// pairs with a block in either direction are left out.
func (r *PostgresRepository) FindCandidates(ctx context.Context, self *Profile, limit int) ([]Profile, error) {
	minAge, maxAge := self.MinAgePreference, self.MaxAgePreference
	if minAge == 0 {
		minAge = defaultMinAge
	}
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}

	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE id <> $1
		  AND dob IS NOT NULL
		  AND EXTRACT(YEAR FROM AGE(dob)) BETWEEN $2 AND $3
		  AND (cardinality($4::text[]) = 0 OR gender = ANY($4::text[]))
		  AND NOT EXISTS (
			SELECT 1 FROM blocked_users b
			WHERE (b.user_id = $1 AND b.blocked_id = profiles.id)
			   OR (b.user_id = profiles.id AND b.blocked_id = $1)
		  )
		ORDER BY last_active DESC NULLS LAST, id
		LIMIT $5`

	prefs := []string(self.GenderPreference)
	if prefs == nil {
		prefs = []string{}
	}

	var out []Profile
	if err := r.db.SelectContext(ctx, &out, query, self.ID, minAge, maxAge, pq.Array(prefs), limit); err != nil {
		return nil, eris.Wrap(err, "profile: find candidates")
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of req and returns the fresh row
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*Profile, error) {
	u := &updateBuilder{}

	u.setString("full_name", req.FullName)
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, eris.Wrap(err, "profile: parse dob")
		}
		u.set("dob", dob)
	}
	u.setString("gender", req.Gender)
	if req.GenderPreference != nil {
		u.set("gender_preference", pq.Array(req.GenderPreference))
	}
	u.setString("relationship_goal", req.RelationshipGoal)
	u.setString("education", req.Education)
	u.setString("profession", req.Profession)
	u.setString("connection_type", req.ConnectionType)
	u.setString("lga", req.LGA)
	u.setString("hometown", req.Hometown)
	u.setString("current_lga", req.CurrentLGA)
	u.setString("city", req.City)
	u.setString("connection_reason", req.ConnectionReason)
	if req.Hobbies != nil {
		u.set("hobbies", pq.Array(req.Hobbies))
	}
	u.setString("bio", req.Bio)
	u.setString("preferences", req.Preferences)
	u.setString("disability_desc", req.DisabilityDesc)
	if req.MinAgePreference != nil {
		u.set("min_age_preference", *req.MinAgePreference)
	}
	if req.MaxAgePreference != nil {
		u.set("max_age_preference", *req.MaxAgePreference)
	}

	query, args := u.build(id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "profile: update")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrProfileNotFound
	}

	return r.GetProfile(ctx, id)
}

// DeleteProfile removes a profile; blocks, swipes and matches cascade
func (r *PostgresRepository) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "profile: delete")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// TouchLastActive stamps last_active with the database clock
func (r *PostgresRepository) TouchLastActive(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET last_active = NOW() WHERE id = $1`, id)
	return eris.Wrap(err, "profile: touch last active")
}

// IsAdmin reports the is_admin flag; unknown users are not admins
func (r *PostgresRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	var isAdmin bool
	err := r.db.GetContext(ctx, &isAdmin, `SELECT is_admin FROM profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "profile: is admin")
	}
	return isAdmin, nil
}

// ListProfiles returns one page of profiles, newest first, with the total row count
func (r *PostgresRepository) ListProfiles(ctx context.Context, limit, offset int) ([]Profile, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM profiles`); err != nil {
		return nil, 0, eris.Wrap(err, "profile: count")
	}

	out := []Profile{}
	query := `SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY created_at DESC NULLS LAST, id
		LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &out, query, limit, offset); err != nil {
		return nil, 0, eris.Wrap(err, "profile: list")
	}
	return out, total, nil
}

// BlockUser blocks a user; blocking twice is a no-op
func (r *PostgresRepository) BlockUser(ctx context.Context, userID, blockedID string) error {
	query := `
		INSERT INTO blocked_users (user_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, blocked_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID, blockedID)
	return eris.Wrap(err, "profile: block user")
}

// UnblockUser unblocks a user
func (r *PostgresRepository) UnblockUser(ctx context.Context, userID, blockedID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blocked_users WHERE user_id = $1 AND blocked_id = $2`, userID, blockedID)
	return eris.Wrap(err, "profile: unblock user")
}

// GetBlockedUsers returns the ids userID has blocked
func (r *PostgresRepository) GetBlockedUsers(ctx context.Context, userID string) ([]string, error) {
	blocked := []string{}
	query := `SELECT blocked_id FROM blocked_users WHERE user_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &blocked, query, userID); err != nil {
		return nil, eris.Wrap(err, "profile: get blocked users")
	}
	return blocked, nil
}

// IsBlocked reports whether either user has blocked the other
func (r *PostgresRepository) IsBlocked(ctx context.Context, userID, targetID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocked_users
			WHERE (user_id = $1 AND blocked_id = $2)
			   OR (user_id = $2 AND blocked_id = $1)
		)`

	if err := r.db.GetContext(ctx, &exists, query, userID, targetID); err != nil {
		return false, eris.Wrap(err, "profile: is blocked")
	}
	return exists, nil
}

// updateBuilder assembles a dynamic UPDATE with positional args
type updateBuilder struct {
	clauses []string
	args    []interface{}
}

func (u *updateBuilder) set(column string, value interface{}) {
	u.args = append(u.args, value)
	u.clauses = append(u.clauses, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

func (u *updateBuilder) setString(column string, value *string) {
	if value != nil {
		u.set(column, *value)
	}
}

func (u *updateBuilder) build(id string) (string, []interface{}) {
	clauses := append(u.clauses, "updated_at = NOW()")
	args := append(u.args, id)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d`, strings.Join(clauses, ", "), len(args))
	return query, args
}
