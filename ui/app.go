package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/valeriapadilla/ChatBot-Ecommerce/api"
	"github.com/valeriapadilla/ChatBot-Ecommerce/catalog"
	"github.com/valeriapadilla/ChatBot-Ecommerce/chat"
	"github.com/valeriapadilla/ChatBot-Ecommerce/config"
	"github.com/valeriapadilla/ChatBot-Ecommerce/session"
)

type screen int

const (
	screenAuth screen = iota
	screenChat
	screenProducts
)

// App is the root bubbletea model. It owns the UI components and delegates
// all data state to the session and store packages.
type App struct {
	cfg      *config.Config
	session  *session.Session
	chats    *chat.Store
	products *catalog.Store

	screen screen
	auth   authForm
	browse productBrowser

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	status string
}

func NewApp(cfg *config.Config, sess *session.Session, chats *chat.Store, products *catalog.Store) App {
	ta := textarea.New()
	ta.Placeholder = "Ask about products, orders, anything..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter submits, Alt+Enter inserts a newline
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	initial := screenAuth
	if sess.State() == session.StateAuthenticated {
		initial = screenChat
	}

	return App{
		cfg:            cfg,
		session:        sess,
		chats:          chats,
		products:       products,
		screen:         initial,
		auth:           newAuthForm(),
		browse:         newProductBrowser(),
		viewport:       vp,
		textarea:       ta,
		loadingSpinner: sp,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if a.screen == screenChat {
		cmds = append(cmds, a.loadHistoryCmd(), a.loadingSpinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Commands. Stores are safe for concurrent use so these run off the UI
// goroutine and only signal completion back.

func (a App) loadHistoryCmd() tea.Cmd {
	store := a.chats
	return func() tea.Msg {
		return historyLoadedMsg{Err: store.LoadHistory(context.Background())}
	}
}

func (a App) loadOlderCmd() tea.Cmd {
	store := a.chats
	return func() tea.Msg {
		return olderLoadedMsg{Err: store.LoadMore(context.Background())}
	}
}

func (a App) sendCmd(text string) tea.Cmd {
	store := a.chats
	return func() tea.Msg {
		return sendSettledMsg{Err: store.Send(context.Background(), text)}
	}
}

func (a App) clearCmd() tea.Cmd {
	store := a.chats
	return func() tea.Msg {
		return clearSettledMsg{Err: store.Clear(context.Background())}
	}
}

func (a App) loadProductsCmd() tea.Cmd {
	store := a.products
	return func() tea.Msg {
		return productsLoadedMsg{Err: store.LoadMore(context.Background())}
	}
}

func (a App) loginCmd(email, password string) tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		return authResultMsg{Err: sess.Login(context.Background(), email, password)}
	}
}

func (a App) signupCmd(name, email, password string) tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		return authResultMsg{Err: sess.Signup(context.Background(), name, email, password)}
	}
}

func (a App) logoutCmd() tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		sess.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func copyCmd(content string) tea.Cmd {
	return func() tea.Msg {
		return messageCopiedMsg{Err: clipboard.WriteAll(content)}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	if a.chats.Sending() || a.chats.Loading() {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		// Repaint on ticks so the optimistic message shows while the
		// send is still in flight.
		a.refreshConversation(true)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		a.ready = true
		a.refreshConversation(false)

	case tea.KeyMsg:
		model, cmd := a.handleKey(msg)
		cmds = append(cmds, cmd)
		return model, tea.Batch(cmds...)

	case authResultMsg:
		a.auth.busy = false
		if msg.Err != nil {
			a.auth.err = api.MessageOf(msg.Err)
			break
		}
		a.screen = screenChat
		a.status = ""
		a.textarea.Focus()
		cmds = append(cmds, a.loadHistoryCmd(), a.loadingSpinner.Tick, textarea.Blink)

	case loggedOutMsg:
		a.screen = screenAuth
		a.auth = newAuthForm()
		a.status = ""

	case historyLoadedMsg:
		a.applyChatResult(msg.Err)
		a.refreshConversation(true)

	case olderLoadedMsg:
		a.applyChatResult(msg.Err)
		a.refreshConversation(false)

	case sendSettledMsg:
		a.applyChatResult(msg.Err)
		a.refreshConversation(true)

	case clearSettledMsg:
		if msg.Err != nil {
			a.status = api.MessageOf(msg.Err)
		} else {
			a.status = "Conversation cleared"
		}
		a.refreshConversation(true)

	case productsLoadedMsg:
		if msg.Err != nil {
			a.status = api.MessageOf(msg.Err)
		}

	case messageCopiedMsg:
		if msg.Err != nil {
			a.status = "Copy failed: " + msg.Err.Error()
		} else {
			a.status = "Copied last reply to clipboard"
		}
	}

	switch a.screen {
	case screenAuth:
		cmds = append(cmds, a.auth.updateInputs(msg))
	case screenChat:
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
		a.viewport, cmd = a.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case screenProducts:
		if a.browse.filtering {
			a.browse.filterInput, cmd = a.browse.filterInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.screen {
	case screenAuth:
		return a.handleAuthKey(msg)
	case screenProducts:
		return a.handleProductsKey(msg)
	default:
		return a.handleChatKey(msg)
	}
}

func (a App) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		a.auth.next()
		return a, nil
	case "ctrl+t":
		a.auth.toggleMode()
		return a, nil
	case "enter":
		if a.auth.busy || !a.auth.validate() {
			return a, nil
		}
		a.auth.busy = true
		if a.auth.mode == modeSignup {
			return a, a.signupCmd(a.auth.name(), a.auth.email(), a.auth.password())
		}
		return a, a.loginCmd(a.auth.email(), a.auth.password())
	}

	return a, a.auth.updateInputs(msg)
}

func (a App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(a.textarea.Value())
		if text == "" {
			return a, nil
		}
		a.textarea.Reset()
		a.status = ""
		a.refreshConversation(true)
		return a, tea.Batch(a.sendCmd(text), a.loadingSpinner.Tick)
	case "ctrl+o":
		if !a.chats.HasMore() {
			return a, nil
		}
		a.status = ""
		return a, a.loadOlderCmd()
	case "ctrl+l":
		a.status = ""
		return a, a.clearCmd()
	case "ctrl+p":
		a.screen = screenProducts
		a.status = ""
		if len(a.products.Products()) == 0 {
			return a, a.loadProductsCmd()
		}
		return a, nil
	case "ctrl+y":
		content := lastAssistantContent(a.chats.Messages())
		if content == "" {
			a.status = "Nothing to copy yet"
			return a, nil
		}
		return a, copyCmd(content)
	case "ctrl+d":
		return a, a.logoutCmd()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.browse.filtering {
		switch msg.String() {
		case "enter", "esc":
			a.browse.filtering = false
			a.browse.filterInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.browse.filterInput, cmd = a.browse.filterInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc", "ctrl+p":
		a.screen = screenChat
		a.status = ""
		a.textarea.Focus()
		return a, textarea.Blink
	case "j", "down":
		a.browse.selected++
		return a, nil
	case "k", "up":
		if a.browse.selected > 0 {
			a.browse.selected--
		}
		return a, nil
	case "n":
		if !a.products.HasMore() {
			return a, nil
		}
		return a, a.loadProductsCmd()
	case "/":
		a.browse.filtering = true
		a.browse.filterInput.Focus()
		return a, textinput.Blink
	}

	return a, nil
}

// applyChatResult surfaces chat operation failures in the status line.
// Cancelled sends are silent, a newer send superseded them.
func (a *App) applyChatResult(err error) {
	if err == nil || api.IsCancelled(err) {
		return
	}
	a.status = api.MessageOf(err)
}

func (a *App) resize() {
	headerHeight := 2
	footerHeight := a.textarea.Height() + 3
	a.viewport.Width = a.width
	a.viewport.Height = a.height - headerHeight - footerHeight
	if a.viewport.Height < 1 {
		a.viewport.Height = 1
	}
	a.textarea.SetWidth(a.width - 2)
}

func (a *App) refreshConversation(gotoBottom bool) {
	if !a.ready {
		return
	}
	a.viewport.SetContent(renderConversation(a.chats.Messages(), a.width, a.chats.HasMore()))
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.screen {
	case screenAuth:
		return a.auth.view(a.width)
	case screenProducts:
		return a.browse.view(a.products, a.width, a.height)
	}

	return a.chatView()
}

func (a App) chatView() string {
	title := "ShopChat"
	if identity, ok := a.session.Identity(); ok && identity.Name != "" {
		title = fmt.Sprintf("ShopChat  %s", DimStyle.Render(identity.Name))
	}

	var status string
	switch {
	case a.chats.Loading():
		status = a.loadingSpinner.View() + " Loading conversation..."
	case a.chats.Sending():
		status = a.loadingSpinner.View() + " Waiting for reply..."
	case a.status != "":
		status = StatusStyle.Render(a.status)
	}
	if errText := a.chats.Err(); errText != "" && a.status == "" {
		status = ErrorStyle.Render(errText)
	}

	footer := HelpStyle.Render(FormatFooter(
		"enter", "Send",
		"ctrl+o", "Older",
		"ctrl+l", "Clear",
		"ctrl+p", "Products",
		"ctrl+y", "Copy reply",
		"ctrl+d", "Logout",
		"ctrl+c", "Quit",
	))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		centerTitle(title, a.width),
		a.viewport.View(),
		a.textarea.View(),
		status,
		footer,
	)
}
