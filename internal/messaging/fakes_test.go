package messaging

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	fixedNow = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	adaBen = uuid.MustParse("7d0e7d5e-3c8b-4e0f-9d55-2f1f8f6a0b01")
	adaCal = uuid.MustParse("7d0e7d5e-3c8b-4e0f-9d55-2f1f8f6a0b02")
)

// memoryRepo is an in-memory Repository
type memoryRepo struct {
	mu           sync.Mutex
	participants map[uuid.UUID]*Participants
	messages     []Message
	names        map[string]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		participants: map[uuid.UUID]*Participants{
			adaBen: {ID: adaBen, User1ID: "ada", User2ID: "ben", MatchedAt: fixedNow.Add(-48 * time.Hour)},
			adaCal: {ID: adaCal, User1ID: "ada", User2ID: "cal", MatchedAt: fixedNow.Add(-24 * time.Hour)},
		},
		names: map[string]string{"ada": "Ada", "ben": "Ben", "cal": "Cal"},
	}
}

func (m *memoryRepo) GetParticipants(_ context.Context, id uuid.UUID) (*Participants, error) {
	p, ok := m.participants[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return p, nil
}

func (m *memoryRepo) ListConversations(_ context.Context, userID string) ([]Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Conversation{}
	for _, p := range m.participants {
		other, ok := p.Other(userID)
		if !ok {
			continue
		}
		c := Conversation{ID: p.ID, OtherUserID: other, OtherUserName: m.names[other], MatchedAt: p.MatchedAt}
		for i := range m.messages {
			msg := m.messages[i]
			if msg.ConversationID != p.ID {
				continue
			}
			c.LastMessage = &msg
			if msg.ReceiverID == userID && !msg.Read {
				c.UnreadCount++
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchedAt.After(out[j].MatchedAt) })
	return out, nil
}

func (m *memoryRepo) ListMessages(_ context.Context, id uuid.UUID, limit int) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Message{}
	for _, msg := range m.messages {
		if msg.ConversationID == id {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memoryRepo) CreateMessage(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memoryRepo) MarkRead(_ context.Context, id uuid.UUID, readerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.ConversationID == id && msg.ReceiverID == readerID && !msg.Read {
			msg.Read = true
			n++
		}
	}
	return n, nil
}

type blockSet map[[2]string]bool

func (b blockSet) IsBlocked(_ context.Context, u, t string) (bool, error) {
	return b[[2]string{u, t}] || b[[2]string{t, u}], nil
}

type relayed struct {
	userID  string
	msgType string
	data    interface{}
}

type recordingRelay struct {
	mu   sync.Mutex
	sent []relayed
}

func (r *recordingRelay) Send(userID, msgType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, relayed{userID: userID, msgType: msgType, data: data})
}

type fixture struct {
	svc    *Service
	repo   *memoryRepo
	blocks blockSet
	relay  *recordingRelay
}

func newFixture() *fixture {
	f := &fixture{repo: newMemoryRepo(), blocks: blockSet{}, relay: &recordingRelay{}}
	f.svc = NewService(f.repo, f.blocks, f.relay)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}
