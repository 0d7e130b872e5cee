package store

// ListKey names a list section whose records have type T. Each list section
// has exactly one key, fixed at compile time, so the shape of a section is
// never inspected at runtime.
type ListKey[T any] struct {
	name  string
	list  func(*State) *[]T
	id    func(*T) *string
	clone func(T) T
}

// Name returns the dotted section path, e.g. "finances.transactions".
func (k ListKey[T]) Name() string { return k.name }

func (k ListKey[T]) copyRecord(v T) T {
	if k.clone == nil {
		return v
	}
	return k.clone(v)
}

// SectionKey names a top-level section of State holding a value of type T.
// It is what ReplaceSection and Modify accept.
type SectionKey[T any] struct {
	name  string
	get   func(*State) *T
	clone func(T) T
}

// Name returns the top-level section name, e.g. "chat".
func (k SectionKey[T]) Name() string { return k.name }

// List sections.
var (
	Tasks = ListKey[Task]{
		name: "tasks",
		list: func(s *State) *[]Task { return &s.Tasks },
		id:   func(r *Task) *string { return &r.ID },
	}
	Journal = ListKey[JournalEntry]{
		name: "journal",
		list: func(s *State) *[]JournalEntry { return &s.Journal },
		id:   func(r *JournalEntry) *string { return &r.ID },
	}
	Transactions = ListKey[Transaction]{
		name: "finances.transactions",
		list: func(s *State) *[]Transaction { return &s.Finances.Transactions },
		id:   func(r *Transaction) *string { return &r.ID },
	}
	Budgets = ListKey[Budget]{
		name: "finances.budgets",
		list: func(s *State) *[]Budget { return &s.Finances.Budgets },
		id:   func(r *Budget) *string { return &r.ID },
	}
	Cycles = ListKey[Cycle]{
		name:  "period.cycles",
		list:  func(s *State) *[]Cycle { return &s.Period.Cycles },
		id:    func(r *Cycle) *string { return &r.ID },
		clone: cloneCycle,
	}
	Symptoms = ListKey[Symptom]{
		name: "period.symptoms",
		list: func(s *State) *[]Symptom { return &s.Period.Symptoms },
		id:   func(r *Symptom) *string { return &r.ID },
	}
	Conversations = ListKey[Conversation]{
		name: "chat.conversations",
		list: func(s *State) *[]Conversation { return &s.Chat.Conversations },
		id:   func(r *Conversation) *string { return &r.ID },
	}
	Messages = ListKey[Message]{
		name: "chat.messages",
		list: func(s *State) *[]Message { return &s.Chat.Messages },
		id:   func(r *Message) *string { return &r.ID },
	}
)

// Top-level sections.
var (
	TasksSection = SectionKey[[]Task]{
		name:  "tasks",
		get:   func(s *State) *[]Task { return &s.Tasks },
		clone: cloneSlice[Task],
	}
	JournalSection = SectionKey[[]JournalEntry]{
		name:  "journal",
		get:   func(s *State) *[]JournalEntry { return &s.Journal },
		clone: cloneSlice[JournalEntry],
	}
	FinancesSection = SectionKey[Finances]{
		name: "finances",
		get:  func(s *State) *Finances { return &s.Finances },
		clone: func(f Finances) Finances {
			return Finances{Transactions: cloneSlice(f.Transactions), Budgets: cloneSlice(f.Budgets)}
		},
	}
	PeriodSection = SectionKey[Period]{
		name: "period",
		get:  func(s *State) *Period { return &s.Period },
		clone: func(p Period) Period {
			out := Period{Symptoms: cloneSlice(p.Symptoms)}
			if p.Cycles != nil {
				out.Cycles = make([]Cycle, len(p.Cycles))
				for i, c := range p.Cycles {
					out.Cycles[i] = cloneCycle(c)
				}
			}
			return out
		},
	}
	ChatSection = SectionKey[Chat]{
		name: "chat",
		get:  func(s *State) *Chat { return &s.Chat },
		clone: func(c Chat) Chat {
			return Chat{Conversations: cloneSlice(c.Conversations), Messages: cloneSlice(c.Messages)}
		},
	}
)

// SectionNames lists the top-level sections in persisted order.
var SectionNames = []string{"tasks", "journal", "finances", "period", "chat"}
