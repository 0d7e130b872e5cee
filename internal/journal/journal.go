// Package journal implements dated journal entries on top of the shared store.
package journal

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// DateLayout is the layout of entry dates.
const DateLayout = "2006-01-02"

// Moods in display order.
var Moods = []string{"great", "good", "neutral", "sad", "stressed"}

// AllMoods disables mood filtering.
const AllMoods = "all"

var (
	ErrTitleRequired   = errors.New("journal: title is required")
	ErrContentRequired = errors.New("journal: content is required")
)

// Draft is the user-editable part of an entry.
type Draft struct {
	Title   string
	Content string
	Mood    string
	Tags    string
	Date    string
}

// Validate normalizes d in place, filling mood and date defaults.
func (d *Draft) Validate(now time.Time) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Tags = strings.TrimSpace(d.Tags)
	d.Date = strings.TrimSpace(d.Date)
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.Content == "" {
		return ErrContentRequired
	}
	if d.Mood == "" {
		d.Mood = "neutral"
	}
	if !slices.Contains(Moods, d.Mood) {
		return fmt.Errorf("journal: unknown mood %q", d.Mood)
	}
	if d.Date == "" {
		d.Date = now.Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("journal: date %q: want YYYY-MM-DD", d.Date)
	}
	return nil
}

// New builds an entry from d.
func New(d Draft, now time.Time) (store.JournalEntry, error) {
	if err := d.Validate(now); err != nil {
		return store.JournalEntry{}, err
	}
	return store.JournalEntry{
		Title:     d.Title,
		Content:   d.Content,
		Mood:      d.Mood,
		Tags:      d.Tags,
		Date:      d.Date,
		CreatedAt: now,
	}, nil
}

// Add validates d and stores the entry.
func Add(s *store.Store, d Draft, now time.Time) (store.JournalEntry, error) {
	e, err := New(d, now)
	if err != nil {
		return store.JournalEntry{}, err
	}
	return store.AddItem(s, store.Journal, e)
}

// Edit replaces the editable fields of entry id.
func Edit(s *store.Store, id string, d Draft, now time.Time) (store.JournalEntry, bool, error) {
	if err := d.Validate(now); err != nil {
		return store.JournalEntry{}, false, err
	}
	return store.UpdateItem(s, store.Journal, id, store.Patch{
		"title":   d.Title,
		"content": d.Content,
		"mood":    d.Mood,
		"tags":    d.Tags,
		"date":    d.Date,
	})
}

// Filter returns entries whose title, content or tags contain search and
// whose mood matches, newest date first. Entries sharing a date keep their
// stored order.
func Filter(entries []store.JournalEntry, search, mood string) []store.JournalEntry {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]store.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Content), needle) &&
			!strings.Contains(strings.ToLower(e.Tags), needle) {
			continue
		}
		if mood != "" && mood != AllMoods && e.Mood != mood {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// ThisWeek counts entries dated within the seven days before now.
func ThisWeek(entries []store.JournalEntry, now time.Time) int {
	weekAgo := now.AddDate(0, 0, -7)
	n := 0
	for _, e := range entries {
		d, err := time.ParseInLocation(DateLayout, e.Date, now.Location())
		if err != nil {
			continue
		}
		if !d.Before(weekAgo) {
			n++
		}
	}
	return n
}

// Tags splits an entry's comma separated tags, dropping blanks.
func Tags(e store.JournalEntry) []string {
	var out []string
	for _, tag := range strings.Split(e.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
