package tui

import "testing"

func TestIsGlobalKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"tab", true},
		{"shift+tab", true},
		{"1", true},
		{"6", true},
		{"q", true},
		{"ctrl+c", true},
		// Not global
		{"7", false},
		{"j", false},
		{"a", false},
		{"d", false},
		{"/", false},
		{" ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := IsGlobalKey(tt.key)
			if got != tt.want {
				t.Errorf("IsGlobalKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestPageKeys(t *testing.T) {
	tests := []struct {
		page Page
		must []string
	}{
		{PageTasks, []string{"j", "k", "a", "e", " ", "d", "/"}},
		{PageJournal, []string{"a", "e", "d", "/"}},
		{PageFinance, []string{"a", "b", "d", "/"}},
		{PagePeriod, []string{"a", "s", "d"}},
		{PageChat, []string{"a", "d", "/", "enter"}},
	}

	for _, tt := range tests {
		t.Run(tt.page.String(), func(t *testing.T) {
			keys := PageKeys(tt.page)
			for _, k := range tt.must {
				if !hasKey(tt.page, k) {
					t.Errorf("PageKeys(%s) = %v, missing %q", tt.page, keys, k)
				}
			}
		})
	}

	if len(PageKeys(PageDashboard)) != 0 {
		t.Errorf("dashboard should have no page keys, got %v", PageKeys(PageDashboard))
	}
}

func TestPageKeys_NoOverlapWithGlobal(t *testing.T) {
	for p := range pageCount {
		for _, k := range PageKeys(Page(p)) {
			if IsGlobalKey(k) {
				t.Errorf("page %s key %q shadows a global key", Page(p), k)
			}
		}
	}
}
