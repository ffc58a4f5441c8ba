// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
)

type Repository interface {
	GetParticipants(ctx context.Context, conversationID uuid.UUID) (*Participants, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error)
	CreateMessage(ctx context.Context, m *Message) error
	MarkRead(ctx context.Context, conversationID uuid.UUID, readerID string) (int64, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetParticipants loads the match behind a conversation
func (r *PostgresRepository) GetParticipants(ctx context.Context, conversationID uuid.UUID) (*Participants, error) {
	var p Participants
	query := `SELECT id, user1_id, user2_id, matched_at FROM matches WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "messaging: get participants")
	}
	return &p, nil
}

type conversationRow struct {
	ID            uuid.UUID      `db:"id"`
	MatchedAt     time.Time      `db:"matched_at"`
	OtherUserID   string         `db:"other_user_id"`
	OtherUserName string         `db:"other_user_name"`
	UnreadCount   int            `db:"unread_count"`
	LastID        uuid.NullUUID  `db:"last_id"`
	LastSenderID  sql.NullString `db:"last_sender_id"`
	LastReceiver  sql.NullString `db:"last_receiver_id"`
	LastContent   sql.NullString `db:"last_content"`
	LastRead      sql.NullBool   `db:"last_read"`
	LastCreatedAt sql.NullTime   `db:"last_created_at"`
}

func (row *conversationRow) conversation() Conversation {
	c := Conversation{
		ID:            row.ID,
		OtherUserID:   row.OtherUserID,
		OtherUserName: row.OtherUserName,
		UnreadCount:   row.UnreadCount,
		MatchedAt:     row.MatchedAt,
	}
	if row.LastID.Valid {
		c.LastMessage = &Message{
			ID:             row.LastID.UUID,
			ConversationID: row.ID,
			SenderID:       row.LastSenderID.String,
			ReceiverID:     row.LastReceiver.String,
			Content:        row.LastContent.String,
			Read:           row.LastRead.Bool,
			CreatedAt:      row.LastCreatedAt.Time,
		}
	}
	return c
}

// ListConversations returns every match of userID with its latest message and
// the caller's unread count. Conversations with recent messages come first.
func (r *PostgresRepository) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	var rows []conversationRow
	query := `
		SELECT m.id, m.matched_at,
			o.other_user_id,
			COALESCE(p.full_name, '') AS other_user_name,
			(SELECT COUNT(*) FROM messages u
				WHERE u.match_id = m.id AND u.receiver_id = $1 AND NOT u.read) AS unread_count,
			lm.id AS last_id, lm.sender_id AS last_sender_id, lm.receiver_id AS last_receiver_id,
			lm.content AS last_content, lm.read AS last_read, lm.created_at AS last_created_at
		FROM matches m
		CROSS JOIN LATERAL (
			SELECT CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END AS other_user_id
		) o
		LEFT JOIN profiles p ON p.id = o.other_user_id
		LEFT JOIN LATERAL (
			SELECT id, sender_id, receiver_id, content, read, created_at
			FROM messages
			WHERE match_id = m.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON TRUE
		WHERE m.user1_id = $1 OR m.user2_id = $1
		ORDER BY lm.created_at DESC NULLS LAST, m.matched_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, eris.Wrap(err, "messaging: list conversations")
	}

	out := make([]Conversation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].conversation())
	}
	return out, nil
}

// ListMessages returns the latest limit messages of a conversation, oldest first
func (r *PostgresRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error) {
	messages := []Message{}
	query := `
		SELECT id, match_id, sender_id, receiver_id, content, read, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &messages, query, conversationID, limit); err != nil {
		return nil, eris.Wrap(err, "messaging: list messages")
	}
	slices.Reverse(messages)
	return messages, nil
}

// CreateMessage stores m. ID and CreatedAt are filled in when empty.
func (r *PostgresRepository) CreateMessage(ctx context.Context, m *Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO messages (id, match_id, sender_id, receiver_id, content, read, created_at)
		VALUES (:id, :match_id, :sender_id, :receiver_id, :content, :read, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, m)
	return eris.Wrap(err, "messaging: create message")
}

// MarkRead flags every unread message sent to readerID in the conversation
func (r *PostgresRepository) MarkRead(ctx context.Context, conversationID uuid.UUID, readerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read = TRUE
		WHERE match_id = $1 AND receiver_id = $2 AND NOT read`, conversationID, readerID)
	if err != nil {
		return 0, eris.Wrap(err, "messaging: mark read")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
