package chat

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var clock = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

const canned = "Thanks for sharing that with me."

func newService(t *testing.T, delay time.Duration) (*Service, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), store.WithIDs(store.NewSequenceIDs("m")))
	s.Initialize()
	svc := NewService(s,
		WithDelay(delay),
		WithClock(func() time.Time { return clock }),
		WithResponder(ResponderFunc(func(string) string { return canned })),
	)
	t.Cleanup(svc.Close)
	return svc, s
}

func TestSendMessage_BotReplies(t *testing.T) {
	svc, s := newService(t, 5*time.Millisecond)

	conv, err := svc.CreateConversation("  General ")
	require.NoError(t, err)
	assert.Equal(t, "General", conv.Name)
	assert.Empty(t, conv.LastMessage)

	msg, err := svc.SendMessage(conv.ID, "I had a long day")
	require.NoError(t, err)
	assert.Equal(t, store.SenderUser, msg.Sender)
	assert.Equal(t, conv.ID, msg.ConversationID)

	got, ok := store.Find(s, store.Conversations, conv.ID)
	require.True(t, ok)
	assert.Equal(t, "I had a long day", got.LastMessage)

	svc.Wait()

	msgs := svc.Messages(conv.ID)
	require.Len(t, msgs, 2)
	assert.Equal(t, store.SenderUser, msgs[0].Sender)
	assert.Equal(t, store.SenderBot, msgs[1].Sender)
	assert.Equal(t, canned, msgs[1].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	got, _ = store.Find(s, store.Conversations, conv.ID)
	assert.Equal(t, canned, got.LastMessage)
}

func TestSendMessage_OneReplyPerMessage(t *testing.T) {
	svc, _ := newService(t, time.Millisecond)
	conv, err := svc.CreateConversation("General")
	require.NoError(t, err)

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.SendMessage(conv.ID, text)
		require.NoError(t, err)
	}
	svc.Wait()

	bots := 0
	for _, m := range svc.Messages(conv.ID) {
		if m.Sender == store.SenderBot {
			bots++
		}
	}
	assert.Equal(t, 3, bots)
}

func TestSendMessage_Validation(t *testing.T) {
	svc, s := newService(t, time.Millisecond)

	_, err := svc.CreateConversation("   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	conv, err := svc.CreateConversation("General")
	require.NoError(t, err)

	_, err = svc.SendMessage(conv.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage("nope", "hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	svc.Wait()
	assert.Empty(t, s.State().Chat.Messages)
}

func TestDeleteConversation_CancelsPendingReply(t *testing.T) {
	svc, s := newService(t, time.Hour)

	keep, err := svc.CreateConversation("Keep")
	require.NoError(t, err)
	drop, err := svc.CreateConversation("Drop")
	require.NoError(t, err)
	_, err = svc.SendMessage(keep.ID, "staying")
	require.NoError(t, err)
	_, err = svc.SendMessage(drop.ID, "leaving")
	require.NoError(t, err)

	found, err := svc.DeleteConversation(drop.ID)
	require.NoError(t, err)
	assert.True(t, found)

	st := s.State()
	require.Len(t, st.Chat.Conversations, 1)
	assert.Equal(t, keep.ID, st.Chat.Conversations[0].ID)
	require.Len(t, st.Chat.Messages, 1)
	assert.Equal(t, keep.ID, st.Chat.Messages[0].ConversationID)

	found, err = svc.DeleteConversation(drop.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReply_DoesNotResurrectDeletedConversation(t *testing.T) {
	svc, s := newService(t, 5*time.Millisecond)
	conv, err := svc.CreateConversation("Ephemeral")
	require.NoError(t, err)
	_, err = svc.SendMessage(conv.ID, "hello")
	require.NoError(t, err)

	// removed behind the service's back, so the reply is not cancelled
	err = store.ReplaceSection(s, store.ChatSection, store.Chat{})
	require.NoError(t, err)

	svc.Wait()
	st := s.State()
	assert.Empty(t, st.Chat.Conversations)
	assert.Empty(t, st.Chat.Messages)
}

func TestReply_ForgetsScopeOfDeletedConversation(t *testing.T) {
	svc, s := newService(t, 5*time.Millisecond)
	conv, err := svc.CreateConversation("Gone")
	require.NoError(t, err)
	_, err = svc.SendMessage(conv.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceSection(s, store.ChatSection, store.Chat{}))
	svc.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.scopes)
}

// repeatIDs hands out ids in order, then numbered fallbacks.
type repeatIDs struct {
	mu   sync.Mutex
	ids  []string
	next int
}

func (r *repeatIDs) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	if r.next <= len(r.ids) {
		return r.ids[r.next-1]
	}
	return fmt.Sprintf("fallback-%d", r.next)
}

func TestSendMessage_RetriesDuplicateMessageID(t *testing.T) {
	s := store.New(store.NewMemoryBackend(), store.WithIDs(&repeatIDs{ids: []string{"c1", "m1", "m1", "m2"}}))
	s.Initialize()
	svc := NewService(s,
		WithDelay(time.Millisecond),
		WithResponder(ResponderFunc(func(string) string { return canned })),
	)
	defer svc.Close()

	conv, err := svc.CreateConversation("General")
	require.NoError(t, err)
	msg, err := svc.SendMessage(conv.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	svc.Wait()

	msgs := svc.Messages(conv.ID)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestClose_CancelsEverything(t *testing.T) {
	svc, s := newService(t, time.Hour)
	conv, err := svc.CreateConversation("General")
	require.NoError(t, err)
	_, err = svc.SendMessage(conv.ID, "hello")
	require.NoError(t, err)

	svc.Close()
	assert.Len(t, s.State().Chat.Messages, 1)

	// after Close messages are stored but never answered
	_, err = svc.SendMessage(conv.ID, "anyone?")
	require.NoError(t, err)
	svc.Wait()
	assert.Len(t, s.State().Chat.Messages, 2)
}

func TestConversations_Search(t *testing.T) {
	svc, _ := newService(t, time.Millisecond)
	for _, name := range []string{"Work", "Family", "Homework"} {
		_, err := svc.CreateConversation(name)
		require.NoError(t, err)
	}
	names := func(cs []store.Conversation) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Work", "Family", "Homework"}, names(svc.Conversations("")))
	assert.Equal(t, []string{"Work", "Homework"}, names(svc.Conversations("WORK")))
	assert.Empty(t, svc.Conversations("zzz"))
}

func TestRandomResponder(t *testing.T) {
	r := NewRandomResponder(42)
	seen := make(map[string]bool)
	for range 1000 {
		reply := r.Reply("anything")
		require.True(t, slices.Contains(Replies, reply), "unexpected reply %q", reply)
		seen[reply] = true
	}
	assert.Len(t, seen, len(Replies))
	assert.Len(t, Replies, 10)

	assert.Contains(t, Replies, NewRandomResponder(0).Reply("x"))
}
