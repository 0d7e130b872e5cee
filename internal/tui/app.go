package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/chat"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui/panels"
)

// Deps are the collaborators of the UI. Store is required; Chat may be nil,
// which disables the chat page actions.
type Deps struct {
	Store    *store.Store
	Chat     *chat.Service
	Events   <-chan Event // from Subscribe
	Warnings <-chan error
	Accent   string
	Title    string
	Location string // shown in the header
	Now      func() time.Time
}

// Model is the root bubbletea model for the organiser TUI.
type Model struct {
	// Collaborators
	store    *store.Store
	chat     *chat.Service
	events   <-chan Event
	warnings <-chan error
	now      func() time.Time

	// Latest snapshot of the store
	state store.State
	dirty bool

	// Components
	tabs       components.TabBar
	list       panels.RecordList
	transcript components.Transcript
	form       components.Form
	search     textinput.Model
	input      textinput.Model // chat message

	// Navigation
	page     Page
	mode     Mode
	filters  map[Page]string
	openConv string // conversation shown while in ModeChat

	// Layout
	layout Layout
	theme  Theme
	width  int
	height int

	// Header and footer
	title    string
	location string
	clock    time.Time
	status   string
	warning  string
}

// New creates the TUI Model.
func New(d Deps) Model {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	th := NewTheme(d.Accent)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Type a message"
	input.CharLimit = 2000

	m := Model{
		store:      d.Store,
		chat:       d.Chat,
		events:     d.Events,
		warnings:   d.Warnings,
		now:        now,
		state:      d.Store.State(),
		dirty:      d.Store.Dirty(),
		tabs:       components.NewTabBar(pageLabels(), th.TitleStyle()),
		list:       panels.NewRecordList(1, 1, th.TitleStyle()),
		transcript: components.NewTranscript(1, 1),
		search:     search,
		input:      input,
		page:       PageDashboard,
		mode:       ModeBrowse,
		filters:    make(map[Page]string),
		theme:      th,
		title:      d.Title,
		location:   d.Location,
		clock:      now(),
	}
	m = m.resize(MinWidth, MinHeight)
	return m.refresh()
}

// Init returns the initial commands: store listeners + clock ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), waitForWarning(m.warnings), tickCmd())
}

// Page returns the page shown.
func (m Model) Page() Page { return m.page }

// Mode returns what the keyboard currently drives.
func (m Model) Mode() Mode { return m.mode }

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return stateChangedMsg(ev)
	}
}

// waitForWarning blocks on the warning channel.
func waitForWarning(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return warningMsg{err: err}
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height).refresh(), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case stateChangedMsg:
		return m.handleStateChanged(msg)
	case eventsClosedMsg:
		return m, nil
	case warningMsg:
		m.warning = msg.err.Error()
		m.dirty = m.store.Dirty()
		return m, waitForWarning(m.warnings)
	case tickMsg:
		m.clock = time.Time(msg)
		return m, tickCmd()
	case actionDoneMsg:
		return m.handleActionDone(msg)
	case components.FormSubmittedMsg:
		return m, submitForm(m.store, m.chat, msg.ID, msg.Values, m.now())
	case components.FormCancelledMsg:
		m.mode = ModeBrowse
		m.status = ""
		return m, nil
	}
	return m, nil
}

func (m Model) handleStateChanged(msg stateChangedMsg) (tea.Model, tea.Cmd) {
	m.state = msg.State
	m.dirty = m.store.Dirty()
	if !m.dirty {
		m.warning = ""
	}
	if msg.Change.Op == store.OpReload {
		m.status = "reloaded from disk"
	}
	if m.mode == ModeChat && !m.conversationExists(m.openConv) {
		m.mode = ModeBrowse
		m.openConv = ""
		m.input.Blur()
		m.status = "conversation was deleted"
	}
	return m.refresh(), waitForEvent(m.events)
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	persistOnly := msg.err == nil || errors.Is(msg.err, store.ErrPersist)
	if msg.form != "" && m.mode == ModeForm && m.form.ID() == msg.form {
		if !persistOnly {
			m.form = m.form.SetError(msg.err.Error())
			return m, nil
		}
		m.mode = ModeBrowse
	}
	if persistOnly {
		m.status = msg.status
	} else {
		m.status = errorStyle.Render(msg.err.Error())
	}
	// Pick up the change right away; the event for it may still be queued.
	m.state = m.store.State()
	m.dirty = m.store.Dirty()
	return m.refresh(), nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeChat:
		return m.handleChatKey(msg)
	}

	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		return m.setPage(m.page.Next()), nil
	case "shift+tab":
		return m.setPage(m.page.Prev()), nil
	case "1", "2", "3", "4", "5", "6":
		return m.setPage(Page(key[0] - '1')), nil
	case "down":
		key = "j"
	case "up":
		key = "k"
	case "space":
		key = " "
	}
	if !hasKey(m.page, key) {
		return m, nil
	}

	m.status = ""
	switch key {
	case "j", "k":
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	case "a":
		return m.openForm(m.addKind(), "")
	case "b":
		return m.openForm(formBudget, "")
	case "s":
		return m.openForm(formSymptom, "")
	case "e":
		if sel, ok := m.list.Selected(); ok {
			return m.openForm(m.addKind(), sel.ID)
		}
	case " ":
		if sel, ok := m.list.Selected(); ok {
			return m, m.toggleTask(sel.ID)
		}
	case "d":
		if sel, ok := m.list.Selected(); ok {
			return m, m.deleteSelected(sel.ID)
		}
	case "/":
		m.mode = ModeSearch
		m.search.SetValue(m.filters[m.page])
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case "enter":
		if sel, ok := m.list.Selected(); ok && m.chat != nil {
			return m.openConversation(sel.ID)
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filters[m.page] = ""
		m.search.SetValue("")
		m.search.Blur()
		m.mode = ModeBrowse
		return m.refresh(), nil
	case "enter":
		m.search.Blur()
		m.mode = ModeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filters[m.page] = m.search.Value()
	return m.refresh(), cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeBrowse
		m.openConv = ""
		m.input.Blur()
		m.transcript = m.transcript.Reset()
		return m, nil
	case "enter":
		content := m.input.Value()
		m.input.Reset()
		return m, m.sendMessage(m.openConv, content)
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setPage switches page and leaves any search or chat input.
func (m Model) setPage(p Page) Model {
	m.page = p
	m.tabs = m.tabs.SetActive(int(p))
	m.status = ""
	return m.refresh()
}

// addKind returns the form a on the current page opens.
func (m Model) addKind() formKind {
	switch m.page {
	case PageTasks:
		return formTask
	case PageJournal:
		return formJournal
	case PageFinance:
		return formTransaction
	case PagePeriod:
		return formCycle
	default:
		return formConversation
	}
}

func (m Model) openForm(kind formKind, recordID string) (tea.Model, tea.Cmd) {
	var (
		title  string
		fields []components.Field
	)
	if recordID != "" {
		var ok bool
		title, fields, ok = editFormFor(kind, recordID, m.state)
		if !ok {
			return m, nil
		}
	} else {
		title, fields = formFor(kind, m.now())
	}
	bodyW, _ := innerDims(m.layout.Body)
	m.form = components.NewForm(formID(kind, recordID), m.theme.TitleStyle().Render(title), fields, bodyW)
	m.mode = ModeForm
	return m, textinput.Blink
}

func (m Model) openConversation(id string) (tea.Model, tea.Cmd) {
	m.mode = ModeChat
	m.openConv = id
	m.input.Reset()
	m.transcript = m.transcript.Reset()
	m = m.refresh()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) conversationExists(id string) bool {
	for _, c := range m.state.Chat.Conversations {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (m Model) toggleTask(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		t, found, err := tasks.Toggle(s, id)
		if !found && err == nil {
			return actionDoneMsg{}
		}
		state := "pending"
		if t.Completed {
			state = "completed"
		}
		return actionDoneMsg{status: fmt.Sprintf("%q marked %s", t.Title, state), err: err}
	}
}

func (m Model) deleteSelected(id string) tea.Cmd {
	s, svc, page := m.store, m.chat, m.page
	return func() tea.Msg {
		var (
			found bool
			err   error
		)
		switch page {
		case PageTasks:
			found, err = store.DeleteItem(s, store.Tasks, id)
		case PageJournal:
			found, err = store.DeleteItem(s, store.Journal, id)
		case PageFinance:
			found, err = store.DeleteItem(s, store.Transactions, id)
		case PagePeriod:
			found, err = store.DeleteItem(s, store.Cycles, id)
		case PageChat:
			if svc == nil {
				return actionDoneMsg{}
			}
			found, err = svc.DeleteConversation(id)
		}
		if !found && err == nil {
			return actionDoneMsg{}
		}
		return actionDoneMsg{status: "deleted", err: err}
	}
}

func (m Model) sendMessage(convID, content string) tea.Cmd {
	svc := m.chat
	return func() tea.Msg {
		_, err := svc.SendMessage(convID, content)
		if errors.Is(err, chat.ErrEmptyMessage) {
			return actionDoneMsg{}
		}
		return actionDoneMsg{err: err}
	}
}

// resize recomputes component sizes for a terminal of w×h.
func (m Model) resize(w, h int) Model {
	m.width, m.height = w, h
	m.layout = Calculate(w, h)
	if m.layout.TooSmall {
		return m
	}
	bodyW, bodyH := innerDims(m.layout.Body)
	left, right := splitBody(bodyW)
	m.tabs = m.tabs.SetWidth(w)
	m.list = m.list.SetSize(left, bodyH-1)
	m.transcript = m.transcript.SetSize(right, bodyH-2)
	m.input.Width = right - 4
	m.search.Width = left - 4
	return m
}

// splitBody divides the body width between the list column and the detail
// column, leaving one column for the separator.
func splitBody(w int) (left, right int) {
	left = w * 45 / 100
	right = w - left - 1
	return left, right
}

// refresh rebuilds the list rows and transcript from the current state.
func (m Model) refresh() Model {
	m.list = m.list.SetRows(rowsFor(m.page, m.state, m.filters[m.page], m.now())).
		SetEmptyText(emptyText(m.page, m.filters[m.page]))
	if m.mode == ModeChat {
		_, right := splitBody(m.bodyWidth())
		msgs := chat.MessagesOf(m.state.Chat.Messages, m.openConv)
		m.transcript = m.transcript.SetLines(messageLines(msgs, right))
	}
	return m
}

func (m Model) bodyWidth() int {
	w, _ := innerDims(m.layout.Body)
	return w
}

func emptyText(p Page, filter string) string {
	if filter != "" {
		return "No matches"
	}
	switch p {
	case PageTasks:
		return "No tasks yet. Press a to add one."
	case PageJournal:
		return "No entries yet. Press a to write one."
	case PageFinance:
		return "No transactions yet. Press a to add one."
	case PagePeriod:
		return "No cycles yet. Press a to track one."
	case PageChat:
		return "No conversations yet. Press a to start one."
	}
	return ""
}

// View renders the full TUI.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.", m.width, m.height, MinWidth, MinHeight)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		Title:    m.title,
		Page:     m.page.String(),
		Location: m.location,
		Dirty:    m.dirty,
		Clock:    m.clock,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	footer := panels.RenderFooter(panels.FooterProps{
		Page:    m.page.String(),
		Mode:    m.mode.String(),
		Search:  m.filters[m.page],
		Status:  m.status,
		Warning: m.warning,
	}, m.layout.Footer.Width)

	bodyW, bodyH := innerDims(m.layout.Body)
	body := m.theme.BodyBorderStyle().
		Width(bodyW).Height(bodyH).
		Render(m.bodyView(bodyW, bodyH))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.tabs.View(), body, footer)
}

// bodyView renders the inside of the body border.
func (m Model) bodyView(w, h int) string {
	if m.mode == ModeForm {
		return m.form.View()
	}
	if m.page == PageDashboard {
		return dashboardView(m.state, m.now(), w, m.theme)
	}

	left, right := splitBody(w)
	leftCol := lipgloss.JoinVertical(lipgloss.Left, m.searchLine(), m.list.View())

	var detail string
	sel, _ := m.list.Selected()
	now := m.now()
	switch m.page {
	case PageTasks:
		detail = taskDetail(m.state, sel.ID, now, right, m.theme)
	case PageJournal:
		detail = journalDetail(m.state, sel.ID, now, right, m.theme)
	case PageFinance:
		detail = financeDetail(m.state, now, m.theme)
	case PagePeriod:
		detail = periodDetail(m.state, now, m.theme)
	case PageChat:
		detail = m.chatDetail()
	}

	leftCol = lipgloss.NewStyle().Width(left).Height(h).MaxHeight(h).Render(leftCol)
	sep := dimStyle.Render(lipgloss.JoinVertical(lipgloss.Left, repeatLines("│", h)...))
	detail = lipgloss.NewStyle().Width(right).Height(h).MaxHeight(h).Render(detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftCol, sep, detail)
}

func (m Model) searchLine() string {
	switch {
	case m.mode == ModeSearch:
		return m.search.View()
	case m.page == PagePeriod:
		return m.theme.TitleStyle().Render("Cycles")
	case m.filters[m.page] != "":
		return dimStyle.Render("/ " + m.filters[m.page])
	default:
		return dimStyle.Render("/ to search")
	}
}

func (m Model) chatDetail() string {
	if m.mode != ModeChat {
		return dimStyle.Render("Press enter to open a conversation")
	}
	name := ""
	for _, c := range m.state.Chat.Conversations {
		if c.ID == m.openConv {
			name = c.Name
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.TitleStyle().Render(name),
		m.transcript.View(),
		m.input.View(),
	)
}

func repeatLines(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
