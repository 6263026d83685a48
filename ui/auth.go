package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type authMode int

const (
	modeLogin authMode = iota
	modeSignup
)

// authForm is the login/signup surface shown until the session is
// authenticated.
type authForm struct {
	mode    authMode
	inputs  []textinput.Model // name (signup only), email, password
	focused int
	err     string
	busy    bool
}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

func newAuthForm() authForm {
	nameInput := textinput.New()
	nameInput.Placeholder = "Name"
	nameInput.Width = 40
	nameInput.CharLimit = 100

	emailInput := textinput.New()
	emailInput.Placeholder = "Email"
	emailInput.Width = 40
	emailInput.CharLimit = 200

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.Width = 40
	passwordInput.CharLimit = 200
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	form := authForm{
		mode:    modeLogin,
		inputs:  []textinput.Model{nameInput, emailInput, passwordInput},
		focused: fieldEmail,
	}
	form.inputs[fieldEmail].Focus()
	return form
}

func (f *authForm) toggleMode() {
	if f.mode == modeLogin {
		f.mode = modeSignup
		f.focus(fieldName)
	} else {
		f.mode = modeLogin
		f.focus(fieldEmail)
	}
	f.err = ""
}

func (f *authForm) firstField() int {
	if f.mode == modeSignup {
		return fieldName
	}
	return fieldEmail
}

func (f *authForm) focus(i int) {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focused = i
	f.inputs[i].Focus()
}

func (f *authForm) next() {
	i := f.focused + 1
	if i >= fieldCount {
		i = f.firstField()
	}
	f.focus(i)
}

// validate checks the submit trigger conditions only; content rules live
// server-side.
func (f *authForm) validate() bool {
	email := strings.TrimSpace(f.inputs[fieldEmail].Value())
	password := f.inputs[fieldPassword].Value()

	if email == "" || password == "" {
		f.err = "Email and password are required"
		return false
	}
	f.err = ""
	return true
}

func (f *authForm) email() string {
	return strings.TrimSpace(f.inputs[fieldEmail].Value())
}

func (f *authForm) password() string {
	return f.inputs[fieldPassword].Value()
}

func (f *authForm) name() string {
	return strings.TrimSpace(f.inputs[fieldName].Value())
}

func (f *authForm) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (f *authForm) view(width int) string {
	title := "Sign in"
	action := "Create an account"
	if f.mode == modeSignup {
		title = "Create account"
		action = "Sign in instead"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(title) + "\n\n")

	if f.mode == modeSignup {
		b.WriteString(f.inputs[fieldName].View() + "\n")
	}
	b.WriteString(f.inputs[fieldEmail].View() + "\n")
	b.WriteString(f.inputs[fieldPassword].View() + "\n\n")

	if f.busy {
		b.WriteString(DimStyle.Render("Signing in...") + "\n")
	}
	if f.err != "" {
		b.WriteString(ErrorStyle.Render(f.err) + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render(FormatFooter(
		"enter", "Submit",
		"tab", "Next field",
		"ctrl+t", action,
		"ctrl+c", "Quit",
	)))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(width, lipgloss.Height(box)+2, lipgloss.Center, lipgloss.Center, box)
}
