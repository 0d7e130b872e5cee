package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Transcript is a scrollable message view that wraps bubbles/viewport.
// While following (the default) new content keeps the view at the bottom;
// scrolling up with a key or the mouse stops following until the bottom is
// reached again.
type Transcript struct {
	vp     viewport.Model
	lines  []string // rendered (pre-styled) lines
	follow bool
	width  int
	height int
}

// NewTranscript creates a Transcript with the given dimensions.
func NewTranscript(w, h int) Transcript {
	return Transcript{
		vp:     viewport.New(w, h),
		follow: true,
		width:  w,
		height: h,
	}
}

// SetLines replaces the content with the given pre-rendered lines.
func (v Transcript) SetLines(lines []string) Transcript {
	v.lines = make([]string, len(lines))
	copy(v.lines, lines)
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Reset clears the content and resumes following.
func (v Transcript) Reset() Transcript {
	v.follow = true
	return v.SetLines(nil)
}

// SetSize resizes the view.
func (v Transcript) SetSize(w, h int) Transcript {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether the view sticks to the newest line.
func (v Transcript) Following() bool {
	return v.follow
}

// Update handles scroll keys and mouse events.
func (v Transcript) Update(msg tea.Msg) (Transcript, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		v.follow = v.vp.AtBottom()
	}
	return v, cmd
}

// View renders the visible part of the transcript.
func (v Transcript) View() string {
	return v.vp.View()
}
