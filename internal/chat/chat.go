// Package chat runs the scripted chat widget: conversations, messages and a
// delayed bot reply to every user message.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// DefaultDelay is how long the bot waits before replying.
const DefaultDelay = time.Second

var (
	ErrNameRequired         = errors.New("chat: conversation name is required")
	ErrEmptyMessage         = errors.New("chat: message is empty")
	ErrConversationNotFound = errors.New("chat: conversation not found")
)

// Option configures a Service.
type Option func(*Service)

// WithResponder replaces the random responder.
func WithResponder(r Responder) Option { return func(s *Service) { s.responder = r } }

// WithDelay sets the reply delay.
func WithDelay(d time.Duration) Option { return func(s *Service) { s.delay = d } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// Service owns chat mutations and the pending bot replies. Each reply is a
// goroutine waiting on a timer or its conversation's cancellation.
type Service struct {
	store     *store.Store
	responder Responder
	delay     time.Duration
	logger    *zap.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	scopes map[string]scope // per conversation
	closed bool
	wg     sync.WaitGroup
}

type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService returns a Service writing to s.
func NewService(s *store.Store, opts ...Option) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &Service{
		store:     s,
		responder: NewRandomResponder(0),
		delay:     DefaultDelay,
		logger:    zap.NewNop(),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		scopes:    make(map[string]scope),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateConversation stores a new, empty conversation.
func (s *Service) CreateConversation(name string) (store.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Conversation{}, ErrNameRequired
	}
	now := s.now()
	return store.AddItem(s.store, store.Conversations, store.Conversation{
		Name:            name,
		CreatedAt:       now,
		LastMessageTime: now,
	})
}

// SendMessage appends a user message to the conversation, updates its last
// message, and schedules one bot reply. A *store.PersistError is returned
// alongside the message when the write failed; the reply is still scheduled.
func (s *Service) SendMessage(convID, content string) (store.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return store.Message{}, ErrEmptyMessage
	}
	msg, err := s.appendMessage(convID, content, store.SenderUser)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return store.Message{}, err
	}
	s.scheduleReply(convID, content)
	return msg, err
}

// appendMessage adds a message and updates the conversation summary in one
// store mutation.
func (s *Service) appendMessage(convID, content, sender string) (store.Message, error) {
	var msg store.Message
	err := store.Modify(s.store, store.ChatSection, func(c store.Chat) (store.Chat, error) {
		idx := -1
		for i := range c.Conversations {
			if c.Conversations[i].ID == convID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return c, fmt.Errorf("%w: %s", ErrConversationNotFound, convID)
		}
		id, err := store.FreshID(s.store, store.Messages, c.Messages)
		if err != nil {
			return c, err
		}
		now := s.now()
		msg = store.Message{
			ID:             id,
			ConversationID: convID,
			Content:        content,
			Sender:         sender,
			Timestamp:      now,
		}
		c.Messages = append(c.Messages, msg)
		c.Conversations[idx].LastMessage = content
		c.Conversations[idx].LastMessageTime = now
		return c, nil
	})
	return msg, err
}

func (s *Service) scheduleReply(convID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	sc, ok := s.scopes[convID]
	if !ok {
		ctx, cancel := context.WithCancel(s.ctx)
		sc = scope{ctx: ctx, cancel: cancel}
		s.scopes[convID] = sc
	}
	s.wg.Add(1)
	go s.reply(sc.ctx, convID, content)
}

func (s *Service) reply(ctx context.Context, convID, content string) {
	defer s.wg.Done()
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.logger.Debug("reply cancelled", zap.String("conversation", convID))
		return
	case <-timer.C:
	}

	text := s.responder.Reply(content)
	if _, err := s.appendMessage(convID, text, store.SenderBot); err != nil {
		switch {
		case errors.Is(err, ErrConversationNotFound):
			s.logger.Debug("conversation gone before reply", zap.String("conversation", convID))
			s.dropScope(convID)
		case errors.Is(err, store.ErrPersist):
			// kept in memory; the store has already reported it
		default:
			s.logger.Warn("append reply", zap.String("conversation", convID), zap.Error(err))
		}
	}
}

// dropScope cancels and forgets the reply scope of a conversation.
func (s *Service) dropScope(convID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scopes[convID]; ok {
		sc.cancel()
		delete(s.scopes, convID)
	}
}

// DeleteConversation cancels pending replies for id and removes the
// conversation with all of its messages.
func (s *Service) DeleteConversation(id string) (bool, error) {
	s.dropScope(id)

	found := false
	err := store.Modify(s.store, store.ChatSection, func(c store.Chat) (store.Chat, error) {
		convs := c.Conversations[:0]
		for _, conv := range c.Conversations {
			if conv.ID == id {
				found = true
				continue
			}
			convs = append(convs, conv)
		}
		msgs := c.Messages[:0]
		for _, m := range c.Messages {
			if m.ConversationID != id {
				msgs = append(msgs, m)
			}
		}
		c.Conversations, c.Messages = convs, msgs
		return c, nil
	})
	if err != nil && !errors.Is(err, store.ErrPersist) {
		return false, err
	}
	return found, err
}

// Conversations returns conversations whose name contains search, in
// stored order.
func (s *Service) Conversations(search string) []store.Conversation {
	return FilterConversations(store.Items(s.store, store.Conversations), search)
}

// Messages returns the messages of one conversation in stored order.
func (s *Service) Messages(convID string) []store.Message {
	return MessagesOf(store.Items(s.store, store.Messages), convID)
}

// FilterConversations keeps the conversations whose name contains search,
// ignoring case.
func FilterConversations(convs []store.Conversation, search string) []store.Conversation {
	needle := strings.ToLower(strings.TrimSpace(search))
	var out []store.Conversation
	for _, c := range convs {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}

// MessagesOf keeps the messages belonging to convID.
func MessagesOf(msgs []store.Message, convID string) []store.Message {
	var out []store.Message
	for _, m := range msgs {
		if m.ConversationID == convID {
			out = append(out, m)
		}
	}
	return out
}

// Wait blocks until every scheduled reply has been delivered or cancelled.
func (s *Service) Wait() { s.wg.Wait() }

// Close cancels all pending replies and waits for their goroutines.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
