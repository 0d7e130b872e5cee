package tui

// Page identifies the page shown in the body.
type Page int

const (
	PageDashboard Page = iota
	PageTasks
	PageJournal
	PageFinance
	PagePeriod
	PageChat
)

// pageCount is the number of pages on the tab bar.
const pageCount = 6

// Next returns the next page in tab order.
func (p Page) Next() Page {
	return (p + 1) % pageCount
}

// Prev returns the previous page in tab order.
func (p Page) Prev() Page {
	return (p + pageCount - 1) % pageCount
}

// String returns the tab label of the page.
func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageTasks:
		return "Tasks"
	case PageJournal:
		return "Journal"
	case PageFinance:
		return "Finance"
	case PagePeriod:
		return "Period"
	case PageChat:
		return "Chat"
	default:
		return "unknown"
	}
}

// pageLabels returns the tab bar labels in page order.
func pageLabels() []string {
	labels := make([]string, pageCount)
	for i := range pageCount {
		labels[i] = Page(i).String()
	}
	return labels
}

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeBrowse Mode = iota // page navigation and list keys
	ModeSearch             // typing into the search filter
	ModeForm               // filling an add form
	ModeChat               // typing into an open conversation
)

// String returns the footer label of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeSearch:
		return "search"
	case ModeForm:
		return "form"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}
