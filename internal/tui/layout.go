package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed region geometry for a given terminal size.
type Layout struct {
	Header, Tabs, Footer Rect
	Body                 Rect
	TooSmall             bool // true when terminal is below the minimum 80×24
}

// Minimum terminal size.
const (
	MinWidth  = 80
	MinHeight = 24
)

// Calculate computes the layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
// Rows from the top: header (1), tab bar (1), body (rest), footer (1).
func Calculate(width, height int) Layout {
	if width < MinWidth || height < MinHeight {
		return Layout{TooSmall: true}
	}

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Tabs:     Rect{X: 0, Y: 1, Width: width, Height: 1},
		Body:     Rect{X: 0, Y: 2, Width: width, Height: height - 3},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		TooSmall: false,
	}
}

// innerDims returns the content dimensions for a rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
