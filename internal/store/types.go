package store

import "time"

// State is the root object held by the Store. Every field is a section.
type State struct {
	Tasks    []Task         `json:"tasks" yaml:"tasks"`
	Journal  []JournalEntry `json:"journal" yaml:"journal"`
	Finances Finances       `json:"finances" yaml:"finances"`
	Period   Period         `json:"period" yaml:"period"`
	Chat     Chat           `json:"chat" yaml:"chat"`
}

// Finances groups transactions and budgets.
type Finances struct {
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
	Budgets      []Budget      `json:"budgets" yaml:"budgets"`
}

// Period groups recorded cycles and symptoms.
type Period struct {
	Cycles   []Cycle   `json:"cycles" yaml:"cycles"`
	Symptoms []Symptom `json:"symptoms" yaml:"symptoms"`
}

// Chat groups conversations and their messages.
type Chat struct {
	Conversations []Conversation `json:"conversations" yaml:"conversations"`
	Messages      []Message      `json:"messages" yaml:"messages"`
}

// Task is one entry in the to-do list.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Priority    string    `json:"priority" yaml:"priority"` // "low", "medium", "high"
	DueDate     string    `json:"dueDate" yaml:"dueDate"`   // YYYY-MM-DD or ""
	Completed   bool      `json:"completed" yaml:"completed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// JournalEntry is one dated journal page.
type JournalEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Mood      string    `json:"mood" yaml:"mood"`
	Tags      string    `json:"tags" yaml:"tags"` // comma separated
	Date      string    `json:"date" yaml:"date"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Transaction is a single income or expense.
type Transaction struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Amount      float64   `json:"amount" yaml:"amount"`
	Type        string    `json:"type" yaml:"type"` // "income" or "expense"
	Category    string    `json:"category" yaml:"category"`
	Date        string    `json:"date" yaml:"date"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Budget caps spending in one category over a period.
type Budget struct {
	ID        string    `json:"id" yaml:"id"`
	Category  string    `json:"category" yaml:"category"`
	Amount    float64   `json:"amount" yaml:"amount"`
	Period    string    `json:"period" yaml:"period"` // "weekly", "monthly", "yearly"
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Cycle is one recorded menstrual cycle.
type Cycle struct {
	ID        string    `json:"id" yaml:"id"`
	StartDate string    `json:"startDate" yaml:"startDate"`
	EndDate   string    `json:"endDate" yaml:"endDate"` // "" while the period is ongoing
	Flow      string    `json:"flow" yaml:"flow"`
	Symptoms  []string  `json:"symptoms" yaml:"symptoms"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Symptom is a symptom logged on a given day.
type Symptom struct {
	ID        string    `json:"id" yaml:"id"`
	Date      string    `json:"date" yaml:"date"`
	Type      string    `json:"type" yaml:"type"`
	Severity  string    `json:"severity" yaml:"severity"`
	Notes     string    `json:"notes" yaml:"notes"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Conversation is a named chat thread.
type Conversation struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
	LastMessage     string    `json:"lastMessage" yaml:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime" yaml:"lastMessageTime"`
}

// Message is a single chat message in a conversation.
type Message struct {
	ID             string    `json:"id" yaml:"id"`
	ConversationID string    `json:"conversationId" yaml:"conversationId"`
	Content        string    `json:"content" yaml:"content"`
	Sender         string    `json:"sender" yaml:"sender"` // "user" or "bot"
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
}

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// DefaultState returns the empty State: five sections, all containers empty
// (never nil) so the JSON form always carries arrays.
func DefaultState() State {
	var s State
	s.normalize()
	return s
}

// normalize replaces nil slices with empty ones.
func (s *State) normalize() {
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Journal == nil {
		s.Journal = []JournalEntry{}
	}
	if s.Finances.Transactions == nil {
		s.Finances.Transactions = []Transaction{}
	}
	if s.Finances.Budgets == nil {
		s.Finances.Budgets = []Budget{}
	}
	if s.Period.Cycles == nil {
		s.Period.Cycles = []Cycle{}
	}
	if s.Period.Symptoms == nil {
		s.Period.Symptoms = []Symptom{}
	}
	if s.Chat.Conversations == nil {
		s.Chat.Conversations = []Conversation{}
	}
	if s.Chat.Messages == nil {
		s.Chat.Messages = []Message{}
	}
	for i := range s.Period.Cycles {
		if s.Period.Cycles[i].Symptoms == nil {
			s.Period.Cycles[i].Symptoms = []string{}
		}
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Tasks:   cloneSlice(s.Tasks),
		Journal: cloneSlice(s.Journal),
		Finances: Finances{
			Transactions: cloneSlice(s.Finances.Transactions),
			Budgets:      cloneSlice(s.Finances.Budgets),
		},
		Period: Period{
			Cycles:   make([]Cycle, len(s.Period.Cycles)),
			Symptoms: cloneSlice(s.Period.Symptoms),
		},
		Chat: Chat{
			Conversations: cloneSlice(s.Chat.Conversations),
			Messages:      cloneSlice(s.Chat.Messages),
		},
	}
	for i, c := range s.Period.Cycles {
		out.Period.Cycles[i] = cloneCycle(c)
	}
	out.normalize()
	return out
}

func cloneCycle(c Cycle) Cycle {
	c.Symptoms = cloneSlice(c.Symptoms)
	return c
}

// cloneSlice copies a slice of value records. Only Cycle holds a nested
// slice and is handled by cloneCycle.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
