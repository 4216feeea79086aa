package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.dalton.dog/bubbleup"
	"gorm.io/gorm"

	"mccwk.com/rl/internal/config"
	"mccwk.com/rl/internal/enrich"
	"mccwk.com/rl/internal/logging"
	"mccwk.com/rl/internal/manager"
	"mccwk.com/rl/internal/session"
	"mccwk.com/rl/internal/store"
)

type view int

const (
	viewAuth view = iota
	viewLinks
)

// logPanelHeight is the total screen rows reserved for the log panel
// (including its border and title) when it is visible.
const logPanelHeight = 12

// notifyMsg is sent by sub-models to surface a user-visible notification.
type notifyMsg struct {
	level   string // "info" | "success" | "warning" | "error"
	message string
}

func notifyCmd(level, message string) tea.Cmd {
	return func() tea.Msg { return notifyMsg{level: level, message: message} }
}

func notifyKey(level string) string {
	switch level {
	case "warning":
		return bubbleup.WarnKey
	case "error":
		return bubbleup.ErrorKey
	default:
		return bubbleup.InfoKey
	}
}

// errMsg surfaces async failures as notifications; the setup-required
// condition gets its own instruction text.
type errMsg struct {
	err error
}

// signedInMsg carries a freshly established account identity.
type signedInMsg struct {
	acct session.Account
}

// signedOutMsg returns the UI to the auth view.
type signedOutMsg struct{}

type Model struct {
	cfg      config.Config
	db       *gorm.DB // nil in local mode
	cache    *store.Cache
	sessions *session.Manager
	resolver *enrich.Resolver

	view       view
	authModel  AuthModel
	linksModel LinksModel

	width  int
	height int

	// Notifications overlay
	alert bubbleup.AlertModel

	// Log panel
	logSink      *logging.MemorySink
	logViewport  viewport.Model
	logReady     bool
	showLogPanel bool
}

func NewModel(cfg config.Config, db *gorm.DB, cache *store.Cache, sessions *session.Manager, resolver *enrich.Resolver, logSink *logging.MemorySink) Model {
	alert := bubbleup.NewAlertModel(70, false, 4*time.Second).
		WithMinWidth(20).
		WithPosition(bubbleup.TopRightPosition)

	return Model{
		cfg:       cfg,
		db:        db,
		cache:     cache,
		sessions:  sessions,
		resolver:  resolver,
		view:      viewAuth,
		authModel: NewAuthModel(sessions, db != nil),
		alert:     alert,
		logSink:   logSink,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.authModel.Init(), m.alert.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always tick the alert model so its dismiss timer works.
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	switch msg := msg.(type) {
	case notifyMsg:
		cmds = append(cmds, m.alert.NewAlertCmd(notifyKey(msg.level), msg.message))
		return m, tea.Batch(cmds...)

	case errMsg:
		text := msg.err.Error()
		if errors.Is(msg.err, store.ErrSetupRequired) {
			text = "Database not initialized. Run 'rl setup' once, then retry."
		}
		cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, text))
		return m, tea.Batch(cmds...)

	case signedInMsg:
		st, err := m.storeFor(msg.acct)
		if err != nil {
			cmds = append(cmds, func() tea.Msg { return errMsg{err: err} })
			return m, tea.Batch(cmds...)
		}
		m.linksModel = NewLinksModel(manager.New(st, m.resolver), msg.acct, m.db != nil && !msg.acct.IsGuest())
		m.linksModel.width = m.width
		m.linksModel.height = m.contentHeight()
		m.view = viewLinks
		cmds = append(cmds, m.linksModel.Init())
		return m, tea.Batch(cmds...)

	case signedOutMsg:
		m.sessions.SignOut()
		m.view = viewAuth
		m.authModel = NewAuthModel(m.sessions, m.db != nil)
		cmds = append(cmds, m.authModel.Init())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+l":
			m.showLogPanel = !m.showLogPanel
			if m.showLogPanel {
				m.refreshLogViewport()
			}
			m.linksModel.height = m.contentHeight()
			return m, tea.Batch(cmds...)
		}

		if m.showLogPanel && m.logReady {
			switch msg.String() {
			case "pgup", "pgdown":
				var vpCmd tea.Cmd
				m.logViewport, vpCmd = m.logViewport.Update(msg)
				if vpCmd != nil {
					cmds = append(cmds, vpCmd)
				}
				return m, tea.Batch(cmds...)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logInnerH := logPanelHeight - 4
		if logInnerH < 2 {
			logInnerH = 2
		}
		if !m.logReady {
			m.logViewport = viewport.New(m.width-4, logInnerH)
			m.logReady = true
		} else {
			m.logViewport.Width = m.width - 4
			m.logViewport.Height = logInnerH
		}
		if m.showLogPanel {
			m.refreshLogViewport()
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case viewAuth:
		m.authModel, cmd = m.authModel.Update(msg)
	case viewLinks:
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			ws.Height = m.contentHeight()
			m.linksModel, cmd = m.linksModel.Update(ws)
		} else {
			m.linksModel, cmd = m.linksModel.Update(msg)
		}
	}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// storeFor selects the persistence backend once per session: the guest
// sentinel is always local; everything else uses the remote row store.
func (m Model) storeFor(acct session.Account) (store.Store, error) {
	if m.db == nil || acct.IsGuest() {
		return store.NewLocalStore(m.cache, acct.ID)
	}
	return store.NewRemoteStore(m.db, m.cache, acct.ID), nil
}

// contentHeight is the height available to the active view.
func (m Model) contentHeight() int {
	h := m.height
	if m.showLogPanel {
		h -= logPanelHeight + 1
	}
	return h
}

func (m *Model) refreshLogViewport() {
	if !m.logReady || m.logSink == nil {
		return
	}
	m.logViewport.SetContent(m.logSink.Render(m.logViewport.Width))
	m.logViewport.GotoBottom()
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.view {
	case viewAuth:
		content = m.authModel.View()
	case viewLinks:
		content = m.linksModel.View()
	}

	if m.showLogPanel {
		content += "\n" + m.renderLogPanel()
	}

	return m.alert.Render(content)
}

func (m Model) renderLogPanel() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	title := titleStyle.Render("Logs") +
		hintStyle.Render("  PgUp/PgDn: scroll • Ctrl+L: close")

	var body string
	if m.logReady {
		body = title + "\n" + m.logViewport.View()
	} else {
		body = title + "\n" + hintStyle.Render("(no log sink configured)")
	}

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("237")).
		Padding(0, 1).
		Width(m.width - 4)

	return panelStyle.Render(body)
}
