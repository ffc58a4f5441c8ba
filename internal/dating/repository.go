package dating

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
)

// Repository stores swipes and matches and answers the stats queries
type Repository interface {
	RecordInteraction(ctx context.Context, in *Interaction) error
	HasLiked(ctx context.Context, userID, targetID string) (bool, error)
	CountRecentSwipes(ctx context.Context, userID string, since time.Time) (int, error)
	PruneInteractions(ctx context.Context, action string, before time.Time) (int64, error)

	CreateMatch(ctx context.Context, m *Match) (*Match, bool, error)
	GetUserMatches(ctx context.Context, userID string) ([]Match, error)

	GetUserStats(ctx context.Context, userID string) (*UserStats, error)
	GetAdminStats(ctx context.Context) (*AdminStats, error)
	GetRegistrationGrowth(ctx context.Context, days int) ([]GrowthPoint, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// RecordInteraction stores one swipe. ID and CreatedAt are filled in when empty.
func (r *PostgresRepository) RecordInteraction(ctx context.Context, in *Interaction) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO interactions (id, user_id, target_id, action, created_at)
		VALUES (:id, :user_id, :target_id, :action, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, in)
	return eris.Wrap(err, "dating: record interaction")
}

// HasLiked reports whether userID has ever liked targetID
func (r *PostgresRepository) HasLiked(ctx context.Context, userID, targetID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM interactions
			WHERE user_id = $1 AND target_id = $2 AND action = 'like'
		)`

	if err := r.db.GetContext(ctx, &exists, query, userID, targetID); err != nil {
		return false, eris.Wrap(err, "dating: has liked")
	}
	return exists, nil
}

func (r *PostgresRepository) CountRecentSwipes(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND created_at > $2`

	if err := r.db.GetContext(ctx, &n, query, userID, since); err != nil {
		return 0, eris.Wrap(err, "dating: count recent swipes")
	}
	return n, nil
}

// PruneInteractions deletes swipes of one kind older than before
func (r *PostgresRepository) PruneInteractions(ctx context.Context, action string, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interactions WHERE action = $1 AND created_at < $2`, action, before)
	if err != nil {
		return 0, eris.Wrap(err, "dating: prune interactions")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CreateMatch inserts the pair once. When the pair already exists the stored
// match is returned unchanged and created is false.
func (r *PostgresRepository) CreateMatch(ctx context.Context, m *Match) (*Match, bool, error) {
	m.User1ID, m.User2ID = orderedPair(m.User1ID, m.User2ID)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MatchedAt.IsZero() {
		m.MatchedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO matches (id, user1_id, user2_id, compatibility_score, matched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING id, user1_id, user2_id, compatibility_score, matched_at`

	var out Match
	created := true
	err := r.db.GetContext(ctx, &out, query, m.ID, m.User1ID, m.User2ID, m.CompatibilityScore, m.MatchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		created = false
		err = r.db.GetContext(ctx, &out, `
			SELECT id, user1_id, user2_id, compatibility_score, matched_at
			FROM matches WHERE user1_id = $1 AND user2_id = $2`, m.User1ID, m.User2ID)
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "dating: create match")
	}
	return &out, created, nil
}

// GetUserMatches lists a user's matches, newest first
func (r *PostgresRepository) GetUserMatches(ctx context.Context, userID string) ([]Match, error) {
	matches := []Match{}
	query := `
		SELECT id, user1_id, user2_id, compatibility_score, matched_at
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY matched_at DESC`

	if err := r.db.SelectContext(ctx, &matches, query, userID); err != nil {
		return nil, eris.Wrap(err, "dating: get user matches")
	}
	return matches, nil
}

func (r *PostgresRepository) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	var row struct {
		Matches       int `db:"matches"`
		LikesGiven    int `db:"likes_given"`
		LikesReceived int `db:"likes_received"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM matches WHERE user1_id = $1 OR user2_id = $1) AS matches,
			(SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND action = 'like') AS likes_given,
			(SELECT COUNT(*) FROM interactions WHERE target_id = $1 AND action = 'like') AS likes_received`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, eris.Wrap(err, "dating: get user stats")
	}

	return &UserStats{
		Matches:        row.Matches,
		LikesGiven:     row.LikesGiven,
		LikesReceived:  row.LikesReceived,
		AcceptanceRate: acceptanceRate(row.LikesGiven, row.LikesReceived),
	}, nil
}

// GetAdminStats computes the dashboard counters in one round trip.
// Age bands use the difference of calendar years.
func (r *PostgresRepository) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	query := `
		WITH ages AS (
			SELECT EXTRACT(YEAR FROM NOW()) - EXTRACT(YEAR FROM dob) AS age
			FROM profiles WHERE dob IS NOT NULL
		)
		SELECT
			(SELECT COUNT(*) FROM profiles) AS total_users,
			(SELECT COUNT(*) FROM profiles WHERE gender = 'male') AS male_users,
			(SELECT COUNT(*) FROM profiles WHERE gender = 'female') AS female_users,
			(SELECT COUNT(*) FROM ages WHERE age BETWEEN 18 AND 25) AS age_18_25,
			(SELECT COUNT(*) FROM ages WHERE age > 25 AND age <= 35) AS age_26_35,
			(SELECT COUNT(*) FROM ages WHERE age > 35 AND age <= 50) AS age_36_50,
			(SELECT COUNT(*) FROM profiles WHERE created_at >= CURRENT_DATE) AS today_registrations,
			(SELECT COUNT(*) FROM profiles WHERE last_active >= NOW() - INTERVAL '7 days') AS active_users,
			(SELECT COUNT(*) FROM matches) AS total_matches,
			(SELECT COUNT(*) FROM interactions WHERE created_at >= NOW() - INTERVAL '24 hours') AS recent_interactions`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, eris.Wrap(err, "dating: get admin stats")
	}
	stats.Timestamp = time.Now().UTC()
	return &stats, nil
}

// GetRegistrationGrowth returns one point per day for the last days days, oldest first
func (r *PostgresRepository) GetRegistrationGrowth(ctx context.Context, days int) ([]GrowthPoint, error) {
	points := []GrowthPoint{}
	query := `
		SELECT d::date AS day, COUNT(p.id) AS count
		FROM generate_series(CURRENT_DATE - ($1::int - 1), CURRENT_DATE, INTERVAL '1 day') AS d
		LEFT JOIN profiles p ON p.created_at::date = d::date
		GROUP BY d
		ORDER BY d`

	if err := r.db.SelectContext(ctx, &points, query, days); err != nil {
		return nil, eris.Wrap(err, "dating: get registration growth")
	}
	return points, nil
}
