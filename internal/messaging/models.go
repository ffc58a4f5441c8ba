// internal/messaging/models.go

package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Frame types relayed over the realtime socket
const (
	FrameMessage     = "message"
	FrameTyping      = "typing"
	FrameReadReceipt = "read_receipt"
)

// Message is one chat message. A conversation is the match it belongs to.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"match_id" json:"conversationId"`
	SenderID       string    `db:"sender_id" json:"senderId"`
	ReceiverID     string    `db:"receiver_id" json:"receiverId"`
	Content        string    `db:"content" json:"content"`
	Read           bool      `db:"read" json:"read"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Participants are the two sides of a match
type Participants struct {
	ID        uuid.UUID `db:"id"`
	User1ID   string    `db:"user1_id"`
	User2ID   string    `db:"user2_id"`
	MatchedAt time.Time `db:"matched_at"`
}

// Other returns the participant who is not userID. ok is false when
// userID is not part of the conversation.
func (p *Participants) Other(userID string) (other string, ok bool) {
	switch userID {
	case p.User1ID:
		return p.User2ID, true
	case p.User2ID:
		return p.User1ID, true
	}
	return "", false
}

type Conversation struct {
	ID            uuid.UUID `json:"id"`
	OtherUserID   string    `json:"otherUserId"`
	OtherUserName string    `json:"otherUserName"`
	LastMessage   *Message  `json:"lastMessage"`
	UnreadCount   int       `json:"unreadCount"`
	MatchedAt     time.Time `json:"matchedAt"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required,uuid"`
	Content        string `json:"content" validate:"required,max=2000"`
}

// ConversationFrame addresses typing and read_receipt frames
type ConversationFrame struct {
	ConversationID string `json:"conversationId" validate:"required,uuid"`
}

type TypingEvent struct {
	ConversationID uuid.UUID `json:"conversationId"`
	UserID         string    `json:"userId"`
}

type ReadReceipt struct {
	ConversationID uuid.UUID `json:"conversationId"`
	ReaderID       string    `json:"readerId"`
	Count          int64     `json:"count"`
}
