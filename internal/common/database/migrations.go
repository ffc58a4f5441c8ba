package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// migrations are idempotent and run in order at startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		email VARCHAR(255) UNIQUE,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		dob DATE,
		gender VARCHAR(20),
		gender_preference TEXT[],
		relationship_goal VARCHAR(50),
		education VARCHAR(50),
		profession VARCHAR(255),
		connection_type VARCHAR(20) NOT NULL DEFAULT 'native',
		lga VARCHAR(100),
		hometown VARCHAR(255),
		current_lga VARCHAR(100),
		city VARCHAR(100),
		connection_reason TEXT,
		hobbies TEXT[],
		bio TEXT,
		preferences TEXT,
		disability_desc TEXT,
		min_age_preference INTEGER,
		max_age_preference INTEGER,
		last_active TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profiles_lga ON profiles(lga)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_dob ON profiles(dob)`,

	`CREATE TABLE IF NOT EXISTS blocked_users (
		user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		blocked_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, blocked_id)
	)`,

	`CREATE TABLE IF NOT EXISTS interactions (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		target_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		action VARCHAR(10) NOT NULL CHECK (action IN ('like', 'pass')),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_interactions_pair ON interactions(user_id, target_id)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		user1_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		user2_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		compatibility_score INTEGER NOT NULL DEFAULT 0,
		matched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user1_id, user2_id)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		sender_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		receiver_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_match ON messages(match_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(receiver_id) WHERE NOT read`,
}

// Migrate creates the tables the API needs
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "migrate: statement %d", i)
		}
	}
	zap.L().Info("database migrations applied", zap.Int("statements", len(migrations)))
	return nil
}
