package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mccwk.com/rl/internal/links"
	"mccwk.com/rl/internal/manager"
)

// addResultMsg carries the outcome of a link submission.
type addResultMsg struct {
	item links.LinkItem
	err  error
}

// AddLinkModel is the add-link modal: a URL field plus an optional title that
// overrides whatever the enricher produces.
type AddLinkModel struct {
	mgr *manager.Manager

	urlInput   textinput.Model
	titleInput textinput.Model
	focusTitle bool
	busy       bool
	errText    string
}

func NewAddLinkModel(mgr *manager.Manager) AddLinkModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com/article"
	urlInput.Width = 60
	urlInput.Focus()

	titleInput := textinput.New()
	titleInput.Placeholder = "(optional, skips AI title)"
	titleInput.Width = 60

	return AddLinkModel{
		mgr:        mgr,
		urlInput:   urlInput,
		titleInput: titleInput,
	}
}

func (m AddLinkModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AddLinkModel) Update(msg tea.Msg) (AddLinkModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focusTitle = !m.focusTitle
			if m.focusTitle {
				m.urlInput.Blur()
				m.titleInput.Focus()
			} else {
				m.titleInput.Blur()
				m.urlInput.Focus()
			}
			return m, nil

		case "enter":
			rawURL := strings.TrimSpace(m.urlInput.Value())
			if rawURL == "" {
				m.errText = "URL is required"
				return m, nil
			}
			m.busy = true
			m.errText = ""
			return m, m.submit(rawURL, strings.TrimSpace(m.titleInput.Value()))
		}

	case addResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return m, cmd
}

func (m AddLinkModel) submit(rawURL, title string) tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		item, err := mgr.Add(ctx, rawURL, title)
		return addResultMsg{item: item, err: err}
	}
}

func (m AddLinkModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	s := titleStyle.Render("Add Link") + "\n\n"
	s += "URL:\n" + m.urlInput.View() + "\n\n"
	s += "Title:\n" + m.titleInput.View() + "\n"

	if m.busy {
		s += "\n" + dimStyle.Render("Generating metadata...")
	}
	if m.errText != "" {
		s += "\n" + errStyle.Render(m.errText)
	}

	s += "\n\n" + dimStyle.Render("Enter: save • Tab: switch field • Esc: cancel")
	return s
}

// editResultMsg carries the outcome of a title edit.
type editResultMsg struct {
	err error
}

// EditTitleModel is the rename modal for an existing link.
type EditTitleModel struct {
	mgr  *manager.Manager
	item links.LinkItem

	input   textinput.Model
	errText string
}

func NewEditTitleModel(mgr *manager.Manager, item links.LinkItem) EditTitleModel {
	input := textinput.New()
	input.Width = 60
	input.SetValue(item.Title)
	input.CursorEnd()
	input.Focus()

	return EditTitleModel{mgr: mgr, item: item, input: input}
}

func (m EditTitleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m EditTitleModel) Update(msg tea.Msg) (EditTitleModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.errText = "title cannot be empty"
			return m, nil
		}
		mgr := m.mgr
		id := m.item.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return editResultMsg{err: mgr.EditTitle(ctx, id, title)}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m EditTitleModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	s := titleStyle.Render("Edit Title") + "\n\n"
	s += dimStyle.Render(m.item.URL) + "\n\n"
	s += m.input.View() + "\n"
	if m.errText != "" {
		s += "\n" + errStyle.Render(m.errText)
	}
	s += "\n\n" + dimStyle.Render("Enter: save • Esc: cancel")
	return s
}
