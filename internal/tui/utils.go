package tui

import (
	"github.com/charmbracelet/glamour"
)

// panelFocus is shared by the links view panels.
// 0=search box, 1=list panel, 2=right/detail panel
type panelFocus int

const (
	panelFocusSearch panelFocus = iota
	panelFocusList
	panelFocusDetail
)

// cycleFocusForward advances focus in the order search → list → detail → search.
func cycleFocusForward(f panelFocus) panelFocus { return (f + 1) % 3 }

// cycleFocusBackward retreats focus in the reverse order.
func cycleFocusBackward(f panelFocus) panelFocus { return (f + 2) % 3 }

// panelBorderColor returns the border colour for a panel depending on whether
// it currently holds focus (active=green, inactive=dim).
func panelBorderColor(focused bool) string {
	if focused {
		return "10"
	}
	return "8"
}

// renderMarkdown renders markdown for the detail viewport, falling back to the
// raw text when the renderer cannot be built.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
