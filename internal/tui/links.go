package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"mccwk.com/rl/internal/links"
	"mccwk.com/rl/internal/manager"
	"mccwk.com/rl/internal/session"
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmEmptyTrash
)

// filterOrder drives the tab bar and Ctrl+F cycling.
var filterOrder = []links.Filter{links.FilterAll, links.FilterUnread, links.FilterRead, links.FilterTrash}

// LinksModel is the main view: filter tabs with counts, search, the link
// list, and a detail panel.
type LinksModel struct {
	mgr    *manager.Manager
	acct   session.Account
	remote bool

	filter  links.Filter
	visible []links.LinkItem
	counts  links.Counts
	cursor  int

	searchInput textinput.Model
	focus       panelFocus

	detailViewport viewport.Model
	viewportReady  bool

	addModel AddLinkModel
	showAdd  bool

	editModel EditTitleModel
	showEdit  bool

	confirm   confirmAction
	confirmID string

	width  int
	height int
}

func NewLinksModel(mgr *manager.Manager, acct session.Account, remote bool) LinksModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search title or URL..."
	searchInput.Width = 50
	searchInput.Prompt = "🔍 "
	searchInput.Focus()

	return LinksModel{
		mgr:         mgr,
		acct:        acct,
		remote:      remote,
		filter:      links.FilterAll,
		searchInput: searchInput,
		focus:       panelFocusSearch,
	}
}

func (m LinksModel) Init() tea.Cmd {
	return tea.Batch(m.loadLinks(), textinput.Blink)
}

type linksLoadedMsg struct{ err error }

// mutatedMsg reports the outcome of any lifecycle mutation.
type mutatedMsg struct {
	err    error
	notice string
}

func (m LinksModel) loadLinks() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return linksLoadedMsg{err: m.mgr.Load(ctx)}
	}
}

func (m LinksModel) mutate(notice string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return mutatedMsg{err: fn(ctx), notice: notice}
	}
}

func (m LinksModel) Update(msg tea.Msg) (LinksModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDetail()
		return m, nil

	case linksLoadedMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errMsg{err: msg.err} }
		}
		m.refresh()
		return m, nil

	case mutatedMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errMsg{err: msg.err} }
		}
		m.refresh()
		if msg.notice != "" {
			return m, notifyCmd("info", msg.notice)
		}
		return m, nil

	case addResultMsg:
		m.addModel, cmd = m.addModel.Update(msg)
		if msg.err == nil {
			m.showAdd = false
			m.refresh()
			return m, notifyCmd("success", "Link saved: "+msg.item.Title)
		}
		return m, cmd

	case editResultMsg:
		m.showEdit = false
		if msg.err != nil {
			return m, func() tea.Msg { return errMsg{err: msg.err} }
		}
		m.refresh()
		return m, notifyCmd("info", "Title updated")
	}

	if m.showAdd {
		return m.updateAddModal(msg)
	}
	if m.showEdit {
		return m.updateEditModal(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}

	return m, nil
}

func (m LinksModel) updateAddModal(msg tea.Msg) (LinksModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && !m.addModel.busy {
		m.showAdd = false
		return m, nil
	}
	var cmd tea.Cmd
	m.addModel, cmd = m.addModel.Update(msg)
	return m, cmd
}

func (m LinksModel) updateEditModal(msg tea.Msg) (LinksModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.showEdit = false
		return m, nil
	}
	var cmd tea.Cmd
	m.editModel, cmd = m.editModel.Update(msg)
	return m, cmd
}

func (m LinksModel) handleKey(msg tea.KeyMsg) (LinksModel, tea.Cmd) {
	// A pending destructive action swallows every key: y commits, anything
	// else cancels.
	if m.confirm != confirmNone {
		action := m.confirm
		id := m.confirmID
		m.confirm = confirmNone
		m.confirmID = ""
		if msg.String() != "y" {
			return m, notifyCmd("info", "Cancelled")
		}
		switch action {
		case confirmDelete:
			return m, m.mutate("Link permanently deleted", func(ctx context.Context) error {
				return m.mgr.PermanentDelete(ctx, id)
			})
		case confirmEmptyTrash:
			return m, m.mutate("Trash emptied", func(ctx context.Context) error {
				return m.mgr.EmptyTrash(ctx)
			})
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.setFocus(cycleFocusForward(m.focus))
		return m, nil
	case "shift+tab":
		m.setFocus(cycleFocusBackward(m.focus))
		return m, nil
	case "ctrl+f":
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		m.refresh()
		return m, nil
	case "ctrl+a":
		m.addModel = NewAddLinkModel(m.mgr)
		m.showAdd = true
		return m, m.addModel.Init()
	case "ctrl+q":
		return m, func() tea.Msg { return signedOutMsg{} }
	}

	switch m.focus {
	case panelFocusList:
		return m.handleListKey(msg)

	case panelFocusDetail:
		switch msg.String() {
		case "up", "k":
			if m.viewportReady {
				m.detailViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.viewportReady {
				m.detailViewport.ScrollDown(1)
			}
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			if m.viewportReady {
				var cmd tea.Cmd
				m.detailViewport, cmd = m.detailViewport.Update(msg)
				return m, cmd
			}
		case "esc":
			m.setFocus(panelFocusSearch)
		}
		return m, nil

	default: // panelFocusSearch
		switch msg.String() {
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		case "enter", "ctrl+o":
			return m, m.openSelected()
		case "esc":
			m.searchInput.SetValue("")
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.refresh()
		return m, cmd
	}
}

func (m LinksModel) handleListKey(msg tea.KeyMsg) (LinksModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", "o", "ctrl+o":
		return m, m.openSelected()
	case "r":
		if item, ok := m.selected(); ok {
			return m, m.mutate("", func(ctx context.Context) error {
				return m.mgr.ToggleRead(ctx, item.ID)
			})
		}
	case "e":
		if item, ok := m.selected(); ok {
			m.editModel = NewEditTitleModel(m.mgr, item)
			m.showEdit = true
			return m, m.editModel.Init()
		}
	case "d":
		if item, ok := m.selected(); ok && !item.IsDeleted {
			return m, m.mutate("Moved to trash", func(ctx context.Context) error {
				return m.mgr.MoveToTrash(ctx, item.ID)
			})
		}
	case "u":
		if item, ok := m.selected(); ok && item.IsDeleted {
			return m, m.mutate("Restored from trash", func(ctx context.Context) error {
				return m.mgr.Restore(ctx, item.ID)
			})
		}
	case "x":
		if item, ok := m.selected(); ok {
			m.confirm = confirmDelete
			m.confirmID = item.ID
		}
	case "X":
		if m.filter == links.FilterTrash && m.counts.Trashed > 0 {
			m.confirm = confirmEmptyTrash
		}
	case "esc":
		m.setFocus(panelFocusSearch)
	}
	return m, nil
}

func (m *LinksModel) setFocus(f panelFocus) {
	m.focus = f
	if f == panelFocusSearch {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

func (m *LinksModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.updateDetailView()
}

func (m LinksModel) selected() (links.LinkItem, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return links.LinkItem{}, false
	}
	return m.visible[m.cursor], true
}

func (m LinksModel) openSelected() tea.Cmd {
	item, ok := m.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		_ = browser.OpenURL(item.URL)
		return nil
	}
}

// refresh recomputes the projected list and counts from the manager's
// in-memory collection.
func (m *LinksModel) refresh() {
	m.visible = m.mgr.View(m.filter, m.searchInput.Value())
	m.counts = m.mgr.Counts()
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
	m.updateDetailView()
}

func (m *LinksModel) resizeDetail() {
	leftWidth := m.leftWidth()
	rightWidth := m.width - leftWidth - 8
	detailHeight := m.height - 12
	if detailHeight < 5 {
		detailHeight = 5
	}
	if !m.viewportReady {
		m.detailViewport = viewport.New(rightWidth-4, detailHeight)
		m.viewportReady = true
	} else {
		m.detailViewport.Width = rightWidth - 4
		m.detailViewport.Height = detailHeight
	}
	m.updateDetailView()
}

func (m LinksModel) leftWidth() int {
	w := int(float64(m.width) * 0.4)
	if w < 32 {
		w = 32
	}
	return w
}

func (m *LinksModel) updateDetailView() {
	if !m.viewportReady {
		return
	}
	item, ok := m.selected()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}

	var doc strings.Builder
	doc.WriteString("# " + item.Title + "\n\n")
	if item.Description != "" {
		doc.WriteString(item.Description + "\n\n")
	}
	if item.Summary != "" {
		doc.WriteString("**Summary:** " + item.Summary + "\n\n")
	}
	doc.WriteString("---\n\n")
	doc.WriteString("Saved " + time.UnixMilli(item.CreatedAt).Format("2006-01-02 15:04") + "\n")
	if item.IsRead {
		doc.WriteString("\nStatus: read\n")
	} else {
		doc.WriteString("\nStatus: unread\n")
	}
	if item.IsDeleted {
		doc.WriteString("\nIn trash\n")
	}

	m.detailViewport.SetContent(renderMarkdown(doc.String(), m.detailViewport.Width))
	m.detailViewport.GotoTop()
}

func (m LinksModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showAdd {
		return m.renderModal(m.addModel.View())
	}
	if m.showEdit {
		return m.renderModal(m.editModel.View())
	}

	header := m.renderHeader()
	leftWidth := m.leftWidth()
	rightWidth := m.width - leftWidth - 8

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	trashedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	searchBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(panelBorderColor(m.focus == panelFocusSearch))).
		Padding(0, 1).
		Width(leftWidth - 4)
	leftContent := searchBoxStyle.Render(m.searchInput.View()) + "\n\n"

	if len(m.visible) == 0 {
		if m.searchInput.Value() != "" {
			leftContent += dimStyle.Render("No links match your search.\n")
		} else if m.filter == links.FilterTrash {
			leftContent += dimStyle.Render("Trash is empty.\n")
		} else {
			leftContent += dimStyle.Render("No links yet. Add one with Ctrl+A!\n")
		}
	} else {
		maxLinks := m.height - 15
		if maxLinks < 3 {
			maxLinks = 3
		}
		startIdx := 0
		if m.cursor >= maxLinks {
			startIdx = m.cursor - maxLinks + 1
		}
		endIdx := startIdx + maxLinks
		if endIdx > len(m.visible) {
			endIdx = len(m.visible)
		}

		for i := startIdx; i < endIdx; i++ {
			item := m.visible[i]
			cursor := "  "
			if i == m.cursor {
				cursor = "• "
			}
			marker := "○ "
			if item.IsRead {
				marker = "✓ "
			}
			if item.IsDeleted {
				marker = "✗ "
			}
			title := item.Title
			if title == "" {
				title = item.URL
			}
			title = truncate(title, leftWidth-10)
			line := cursor + marker + title
			switch {
			case i == m.cursor:
				leftContent += selectedStyle.Render(line) + "\n"
			case item.IsDeleted:
				leftContent += trashedStyle.Render(line) + "\n"
			default:
				leftContent += line + "\n"
			}
		}
		if len(m.visible) > maxLinks {
			leftContent += "\n" + dimStyle.Render(fmt.Sprintf("  [%d/%d links]", m.cursor+1, len(m.visible)))
		}
	}

	leftPanel := lipgloss.NewStyle().
		Width(leftWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(panelBorderColor(m.focus == panelFocusList))).
		Padding(1).
		Render(leftContent)

	var rightContent string
	if item, ok := m.selected(); ok {
		rightContent = titleStyle.Render("Details") + "\n\n" +
			lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(item.URL) + "\n\n" +
			m.detailViewport.View()
	} else {
		rightContent = dimStyle.Render("Select a link to view details...")
	}
	rightPanel := lipgloss.NewStyle().
		Width(rightWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(panelBorderColor(m.focus == panelFocusDetail))).
		Padding(1).
		Render(rightContent)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, "  ", rightPanel)

	return header + "\n" + mainContent + "\n" + m.renderFooter()
}

func (m LinksModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	mode := "local only"
	if m.remote {
		mode = "cloud sync"
	}
	title := titleStyle.Render("rl · Read It Later") +
		dimStyle.Render(fmt.Sprintf(" %s · %s", m.acct.Email, mode))

	labels := map[links.Filter]string{
		links.FilterAll:    fmt.Sprintf("All [%d]", m.counts.Total),
		links.FilterUnread: fmt.Sprintf("Unread [%d]", m.counts.Unread),
		links.FilterRead:   fmt.Sprintf("Read [%d]", m.counts.Read),
		links.FilterTrash:  fmt.Sprintf("Trash [%d]", m.counts.Trashed),
	}

	var tabs []string
	for _, f := range filterOrder {
		style := lipgloss.NewStyle().Padding(0, 2)
		if f == m.filter {
			style = style.Bold(true).Foreground(lipgloss.Color("10")).Background(lipgloss.Color("236"))
		} else {
			style = style.Foreground(lipgloss.Color("243"))
		}
		tabs = append(tabs, style.Render(labels[f]))
	}

	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m LinksModel) renderFooter() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	switch m.confirm {
	case confirmDelete:
		return warnStyle.Render("Delete permanently? This cannot be undone. y: confirm • any other key: cancel")
	case confirmEmptyTrash:
		return warnStyle.Render(fmt.Sprintf("Empty trash (%d links)? This cannot be undone. y: confirm • any other key: cancel", m.counts.Trashed))
	}

	var help string
	switch m.focus {
	case panelFocusList:
		if m.filter == links.FilterTrash {
			help = "u: restore • x: delete • X: empty trash • ↑/↓: navigate • Ctrl+F: filter • Tab: panels"
		} else {
			help = "r: read/unread • e: edit title • d: trash • Enter/o: open • Ctrl+F: filter • Ctrl+A: add"
		}
	case panelFocusDetail:
		help = "↑/↓/PgUp/PgDn: scroll • Tab: panels • Esc: search"
	default:
		help = "type to search • Tab: panels • ↑/↓: navigate • Ctrl+F: filter • Ctrl+A: add • Ctrl+Q: sign out"
	}
	return helpStyle.Render(help)
}

func (m LinksModel) renderModal(content string) string {
	modalWidth := m.width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	if modalWidth < 50 {
		modalWidth = 50
	}
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("10")).
		Padding(1).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func nextFilter(f links.Filter) links.Filter {
	for i, cur := range filterOrder {
		if cur == f {
			return filterOrder[(i+1)%len(filterOrder)]
		}
	}
	return links.FilterAll
}
