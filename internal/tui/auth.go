package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mccwk.com/rl/internal/session"
	"mccwk.com/rl/internal/store"
)

// AuthModel is the sign-in / sign-up form. In local mode it collapses to a
// single prompt that enters the guest session.
type AuthModel struct {
	sessions *session.Manager
	remote   bool

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusPassword bool
	signUp        bool
	busy          bool
	errText       string
}

func NewAuthModel(sessions *session.Manager, remote bool) AuthModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Width = 40
	password.EchoMode = textinput.EchoPassword

	return AuthModel{
		sessions:      sessions,
		remote:        remote,
		emailInput:    email,
		passwordInput: password,
	}
}

func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

type authResultMsg struct {
	acct session.Account
	err  error
}

func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		if !m.remote {
			if msg.String() == "enter" {
				acct := m.sessions.Guest()
				return m, func() tea.Msg { return signedInMsg{acct: acct} }
			}
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focusPassword = !m.focusPassword
			if m.focusPassword {
				m.emailInput.Blur()
				m.passwordInput.Focus()
			} else {
				m.passwordInput.Blur()
				m.emailInput.Focus()
			}
			return m, nil

		case "ctrl+s":
			m.signUp = !m.signUp
			m.errText = ""
			return m, nil

		case "enter":
			email := strings.TrimSpace(m.emailInput.Value())
			password := m.passwordInput.Value()
			if email == "" || password == "" {
				m.errText = "email and password are required"
				return m, nil
			}
			m.busy = true
			m.errText = ""
			return m, m.authenticate(email, password)
		}

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, store.ErrSetupRequired) {
				m.errText = "Database not initialized. Run 'rl setup' once, then retry."
			} else {
				m.errText = msg.err.Error()
			}
			return m, nil
		}
		return m, func() tea.Msg { return signedInMsg{acct: msg.acct} }
	}

	var cmd tea.Cmd
	if m.focusPassword {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m AuthModel) authenticate(email, password string) tea.Cmd {
	signUp := m.signUp
	sessions := m.sessions
	return func() tea.Msg {
		ctx := context.Background()
		var acct session.Account
		var err error
		if signUp {
			acct, err = sessions.SignUp(ctx, email, password)
		} else {
			acct, err = sessions.SignIn(ctx, email, password)
		}
		return authResultMsg{acct: acct, err: err}
	}
}

func (m AuthModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(1, 2)

	if !m.remote {
		body := titleStyle.Render("rl · Read It Later") + "\n\n" +
			"No remote database configured — links stay on this device.\n\n" +
			dimStyle.Render("Enter: continue as guest • Ctrl+C: quit")
		return boxStyle.Render(body)
	}

	heading := "Sign In"
	action := "sign in"
	if m.signUp {
		heading = "Create Account"
		action = "sign up"
	}

	body := titleStyle.Render("rl · "+heading) + "\n\n"
	body += "Email:\n" + m.emailInput.View() + "\n\n"
	body += "Password:\n" + m.passwordInput.View() + "\n"

	if m.busy {
		body += "\n" + dimStyle.Render("Authenticating...")
	}
	if m.errText != "" {
		body += "\n" + errStyle.Render(m.errText)
	}

	body += "\n\n" + dimStyle.Render("Enter: "+action+" • Tab: switch field • Ctrl+S: toggle sign up • Ctrl+C: quit")
	return boxStyle.Render(body)
}
