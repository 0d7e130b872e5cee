package tui

// GlobalKeyBindings lists the keys the root model handles in browse mode
// before dispatching to the page.
var GlobalKeyBindings = []string{"tab", "shift+tab", "1", "2", "3", "4", "5", "6", "q", "ctrl+c"}

// pageKeys maps each Page to the keys that page handles in browse mode.
var pageKeys = map[Page][]string{
	PageDashboard: {},
	PageTasks:     {"j", "k", "a", "e", " ", "d", "/"},
	PageJournal:   {"j", "k", "a", "e", "d", "/"},
	PageFinance:   {"j", "k", "a", "b", "d", "/"},
	PagePeriod:    {"j", "k", "a", "s", "d"},
	PageChat:      {"j", "k", "a", "d", "/", "enter"},
}

// IsGlobalKey reports whether key is a global keybinding (handled before page dispatch).
func IsGlobalKey(key string) bool {
	for _, k := range GlobalKeyBindings {
		if k == key {
			return true
		}
	}
	return false
}

// PageKeys returns the list of keys handled by the given page.
func PageKeys(p Page) []string {
	return pageKeys[p]
}

// hasKey reports whether page p handles key.
func hasKey(p Page, key string) bool {
	for _, k := range pageKeys[p] {
		if k == key {
			return true
		}
	}
	return false
}
