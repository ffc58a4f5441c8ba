// internal/messaging/service.go

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/utils"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a participant in this conversation")
	ErrUserBlocked          = errors.New("cannot message this user")
	ErrEmptyMessage         = errors.New("message content is empty")
	ErrInvalidFrame         = errors.New("invalid frame")
	ErrFrameFailed          = errors.New("could not process frame")
)

var messagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "akwa_messages_total",
		Help: "Chat messages stored",
	},
)

// BlockChecker reports whether either user has blocked the other
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID, targetID string) (bool, error)
}

// Relay pushes realtime frames to every open socket of a user
type Relay interface {
	Send(userID, msgType string, data interface{})
}

type Service struct {
	repo   Repository
	blocks BlockChecker
	relay  Relay
	now    func() time.Time
}

func NewService(repo Repository, blocks BlockChecker, relay Relay) *Service {
	return &Service{repo: repo, blocks: blocks, relay: relay, now: time.Now}
}

// Conversations lists the caller's conversations, one per match
func (s *Service) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// Messages returns the latest messages of a conversation the caller belongs to.
// limit defaults to 50 and is capped at 200.
func (s *Service) Messages(ctx context.Context, userID string, conversationID uuid.UUID, limit int) ([]Message, error) {
	if _, _, err := s.participant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = defaultMessageLimit
	case limit > maxMessageLimit:
		limit = maxMessageLimit
	}
	return s.repo.ListMessages(ctx, conversationID, limit)
}

// MarkRead marks the caller's unread messages as read and sends a
// read_receipt to the other participant
func (s *Service) MarkRead(ctx context.Context, userID string, conversationID uuid.UUID) (int64, error) {
	_, other, err := s.participant(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}
	s.relay.Send(other, FrameReadReceipt, ReadReceipt{ConversationID: conversationID, ReaderID: userID, Count: n})
	return n, nil
}

// Send stores a message from senderID and relays it to the receiver
func (s *Service) Send(ctx context.Context, senderID string, req *SendMessageRequest) (*Message, error) {
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	_, receiver, err := s.participant(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blocks.IsBlocked(ctx, senderID, receiver)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrUserBlocked
	}

	m := &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiver,
		Content:        content,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	messagesTotal.Inc()

	s.relay.Send(receiver, FrameMessage, m)
	return m, nil
}

// Typing tells the other participant that userID is typing
func (s *Service) Typing(ctx context.Context, userID string, conversationID uuid.UUID) error {
	_, other, err := s.participant(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	blocked, err := s.blocks.IsBlocked(ctx, userID, other)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}
	s.relay.Send(other, FrameTyping, TypingEvent{ConversationID: conversationID, UserID: userID})
	return nil
}

// HandleFrame executes a command a client sent over its socket. Errors
// returned are safe to show to the client.
func (s *Service) HandleFrame(ctx context.Context, userID, frameType string, data json.RawMessage) error {
	var err error
	switch frameType {
	case FrameMessage:
		var req SendMessageRequest
		if err = decodeFrame(data, &req); err == nil {
			_, err = s.Send(ctx, userID, &req)
		}

	case FrameTyping, FrameReadReceipt:
		var req ConversationFrame
		if err = decodeFrame(data, &req); err != nil {
			break
		}
		id, perr := uuid.Parse(req.ConversationID)
		if perr != nil {
			err = ErrInvalidFrame
			break
		}
		if frameType == FrameTyping {
			err = s.Typing(ctx, userID, id)
		} else {
			_, err = s.MarkRead(ctx, userID, id)
		}

	default:
		err = ErrInvalidFrame
	}
	return publicError(userID, frameType, err)
}

func decodeFrame(data json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return ErrInvalidFrame
	}
	if err := utils.ValidateStruct(v); err != nil {
		return ErrInvalidFrame
	}
	return nil
}

func publicError(userID, frameType string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrConversationNotFound, ErrNotParticipant, ErrUserBlocked, ErrEmptyMessage, ErrInvalidFrame,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	zap.L().Error("frame failed", zap.String("user_id", userID), zap.String("type", frameType), zap.Error(err))
	return ErrFrameFailed
}

// participant loads the conversation and returns the other side
func (s *Service) participant(ctx context.Context, userID string, conversationID uuid.UUID) (*Participants, string, error) {
	p, err := s.repo.GetParticipants(ctx, conversationID)
	if err != nil {
		return nil, "", err
	}
	other, ok := p.Other(userID)
	if !ok {
		return nil, "", ErrNotParticipant
	}
	return p, other, nil
}
