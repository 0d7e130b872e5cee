package chat

import (
	"math/rand/v2"
	"sync"
)

// Replies is the fixed set of scripted bot replies.
var Replies = []string{
	"That's interesting! Tell me more about that.",
	"I understand. How does that make you feel?",
	"Thanks for sharing that with me.",
	"That sounds important to you. Can you elaborate?",
	"I see. What would you like to do about that?",
	"How has that been affecting you lately?",
	"That's a great point. What are your thoughts on it?",
	"I appreciate you opening up about that.",
	"What do you think the next step should be?",
	"That's quite thoughtful of you to consider.",
}

// Responder produces the bot's reply to a user message.
type Responder interface {
	Reply(message string) string
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(string) string

// Reply calls f(message).
func (f ResponderFunc) Reply(message string) string { return f(message) }

// RandomResponder picks one of Replies uniformly at random, ignoring the
// message.
type RandomResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomResponder seeds the generator; seed 0 draws a random seed.
func NewRandomResponder(seed uint64) *RandomResponder {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomResponder{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Reply returns a random entry of Replies. It is safe for concurrent use.
func (r *RandomResponder) Reply(string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Replies[r.rng.IntN(len(Replies))]
}
