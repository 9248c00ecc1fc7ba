// Package tui is the terminal front end. It collects input, calls Session
// operations and renders the returned snapshots.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/session"
)

type screen int

const (
	screenLogin screen = iota
	screenTable
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

// Option configures a Model.
type Option func(*Model)

// WithTestMode captures log entries for assertions instead of rendering them.
func WithTestMode() Option {
	return func(m *Model) {
		m.testMode = true
	}
}

// WithSessionOptions passes options to every session the model starts.
func WithSessionOptions(opts ...session.Option) Option {
	return func(m *Model) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// WithLoginHook is called once a player has logged in or registered.
func WithLoginHook(hook func(s *session.Session)) Option {
	return func(m *Model) {
		m.onLogin = hook
	}
}

// Model is the Bubble Tea model for one player at the table.
type Model struct {
	ledger      *ledger.Ledger
	session     *session.Session
	sessionOpts []session.Option
	onLogin     func(s *session.Session)
	logger      *log.Logger

	screen        screen
	mode          loginMode
	loginField    int // 0 = username, 1 = credential
	loginError    string
	rankingsShown bool

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model
	username    textinput.Model
	credential  textinput.Model

	gameLog []string

	// Dimensions
	width       int
	height      int
	initialized bool
	quitting    bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewModel creates a model showing the login screen.
func NewModel(l *ledger.Ledger, logger *log.Logger, opts ...Option) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = ledger.MaxUsernameLen
	user.Prompt = "Username: "
	user.Focus()

	cred := textinput.New()
	cred.Placeholder = "password"
	cred.Prompt = "Password: "
	cred.EchoMode = textinput.EchoPassword
	cred.EchoCharacter = '•'

	m := &Model{
		ledger:      l,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		username:    user,
		credential:  cred,
		gameLog:     []string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			if m.screen == screenLogin {
				m.submitLogin()
			} else {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.processAction(input) {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
			return m, nil
		case "tab":
			if m.screen == screenLogin {
				m.toggleMode()
				return m, nil
			}
		case "pgup":
			m.logViewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.logViewport.HalfPageDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.screen == screenLogin {
		if m.loginField == 0 {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.credential, cmd = m.credential.Update(msg)
		}
		cmds = append(cmds, cmd)
	} else {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) toggleMode() {
	if m.mode == modeLogin {
		m.mode = modeRegister
	} else {
		m.mode = modeLogin
	}
	m.loginError = ""
}

func (m *Model) submitLogin() {
	if m.loginField == 0 {
		m.loginField = 1
		m.username.Blur()
		m.credential.Focus()
		return
	}

	username := strings.TrimSpace(m.username.Value())
	if err := m.Login(username, m.credential.Value(), m.mode == modeRegister); err != nil {
		m.loginError = loginMessage(err)
		m.credential.SetValue("")
	}
}

// Login authenticates (or registers, then logs in) and opens the table.
func (m *Model) Login(username, credential string, register bool) error {
	var (
		s   *session.Session
		err error
	)
	if register {
		s, err = session.Register(m.ledger, username, credential, m.sessionOpts...)
	} else {
		s, err = session.Login(m.ledger, username, credential, m.sessionOpts...)
	}
	if err != nil {
		m.logger.Info("Login rejected", "username", username, "register", register, "error", err)
		return err
	}

	m.session = s
	m.screen = screenTable
	m.loginError = ""
	m.credential.SetValue("")
	m.credential.Blur()
	m.actionInput.Focus()
	if m.onLogin != nil {
		m.onLogin(s)
	}

	if register {
		m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Welcome, %s! You start with %d chips.", s.Username(), s.Balance())))
	} else {
		m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Welcome back, %s!", s.Username())))
	}
	if stats, err := s.Stats(); err == nil {
		m.AddLogEntry(fmt.Sprintf("Games played: %d  Games won: %d  Win rate: %.2f%%",
			stats.GamesPlayed, stats.GamesWon, stats.WinRate))
	}
	m.beginBetting()
	return nil
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidCredentials):
		return "Unknown username or wrong password."
	case errors.Is(err, ledger.ErrUsernameTaken):
		return "That username is already taken."
	case errors.Is(err, ledger.ErrUsernameTooLong):
		return fmt.Sprintf("Usernames can be at most %d characters.", ledger.MaxUsernameLen)
	case errors.Is(err, ledger.ErrStorageIO):
		return "Could not save: " + err.Error()
	default:
		return err.Error()
	}
}

// beginBetting opens the next round and reports whether it succeeded.
func (m *Model) beginBetting() bool {
	reset, err := m.session.BeginBetting()
	if err != nil {
		m.reportError(err)
		return false
	}
	if reset {
		m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("You ran out of chips. Your balance has been reset to %d.", m.session.Balance())))
	}
	if !m.rankingsShown {
		m.rankingsShown = true
		m.AddLogEntry("Rankings:")
		m.AddLogEntry(RenderRankings(m.session.Rankings(), m.session.Username()))
	}
	m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Balance: %d. Enter your bet.", m.session.Balance())))
	return true
}

// processAction handles one line of input at the table. It returns true
// when the player asked to quit.
func (m *Model) processAction(input string) bool {
	parts := strings.Fields(strings.ToLower(input))
	command := ""
	if len(parts) > 0 {
		command = parts[0]
	}

	switch command {
	case "quit", "q", "exit":
		return true
	case "rankings", "r":
		m.AddLogEntry(RenderRankings(m.session.Rankings(), m.session.Username()))
		return false
	case "retry":
		m.retry()
		return false
	}

	// A failed login-time reset leaves no round; any input tries again
	if !m.session.HasRound() {
		if !m.beginBetting() || command == "" {
			return false
		}
	}

	snap := m.session.Snapshot()
	switch snap.Phase {
	case game.AwaitingBet:
		amount, err := strconv.ParseInt(command, 10, 64)
		if err != nil || !snap.CanAct(game.ActionBet) {
			m.AddLogEntry(ErrorStyle.Render("Enter a whole number of chips to bet."))
			return false
		}
		m.apply(m.session.PlaceBet(amount))

	case game.PlayerTurn:
		switch {
		case (command == "hit" || command == "h") && snap.CanAct(game.ActionHit):
			m.apply(m.session.Hit())
		case (command == "stand" || command == "s") && snap.CanAct(game.ActionStand):
			m.apply(m.session.Stand())
		default:
			m.AddLogEntry(ErrorStyle.Render("Type 'hit' or 'stand'."))
		}

	case game.DealerTurn:
		if m.session.Abandon() {
			m.AddLogEntry(WarningStyle.Render("The dealer could not finish the round. It has been voided and no chips changed hands."))
		}
		m.beginBetting()

	case game.Settled:
		if m.session.Pending() {
			m.AddLogEntry(ErrorStyle.Render("The last result has not been saved. Type 'retry'."))
			return false
		}
		m.beginBetting()
	}
	return false
}

// retry stores a pending result, then opens a round if none is running.
func (m *Model) retry() {
	if !m.session.Pending() && m.session.HasRound() {
		m.AddLogEntry(InfoStyle.Render("Nothing to retry."))
		return
	}
	if m.session.Pending() {
		if err := m.session.RetryPersist(); err != nil {
			m.reportError(err)
			return
		}
		m.AddLogEntry(SuccessStyle.Render("Result saved."))
	}
	if !m.session.HasRound() {
		m.beginBetting()
	}
}

func (m *Model) apply(snap game.Snapshot, err error) {
	if err != nil {
		m.reportError(err)
	}

	switch {
	case snap.Outcome != nil:
		m.logOutcome(*snap.Outcome)
	case snap.Phase == game.PlayerTurn && len(snap.PlayerHand) == 2:
		up, _ := snap.DealerUpCard()
		m.AddLogEntry(fmt.Sprintf("Bet %d. Dealer shows %s. You have %s (%d).",
			snap.Bet, formatCard(up), formatCards(snap.PlayerHand), snap.PlayerValue))
	case snap.Phase == game.PlayerTurn:
		last := snap.PlayerHand[len(snap.PlayerHand)-1]
		m.AddLogEntry(fmt.Sprintf("You draw %s (%d).", formatCard(last), snap.PlayerValue))
	}
}

func (m *Model) logOutcome(o game.Outcome) {
	var line string
	switch o.Kind {
	case game.PlayerBust:
		line = ErrorStyle.Render(fmt.Sprintf("Bust! You lose %d chips.", -o.ChipsDelta))
	case game.PlayerBlackjack:
		line = SuccessStyle.Render(fmt.Sprintf("Blackjack! You win %d chips.", o.ChipsDelta))
	case game.DealerBust:
		line = SuccessStyle.Render(fmt.Sprintf("Dealer busts! You win %d chips.", o.ChipsDelta))
	case game.Push:
		line = WarningStyle.Render("Push. Your bet is returned.")
	case game.PlayerWin:
		line = SuccessStyle.Render(fmt.Sprintf("You win %d chips.", o.ChipsDelta))
	case game.DealerWin:
		line = ErrorStyle.Render(fmt.Sprintf("Dealer wins. You lose %d chips.", -o.ChipsDelta))
	}
	m.AddLogEntry(line)
	m.AddLogEntry(fmt.Sprintf("  Dealer: %s (%d)", formatCards(o.DealerHand), o.DealerValue))
	m.AddLogEntry(fmt.Sprintf("  You:    %s (%d)", formatCards(o.PlayerHand), o.PlayerValue))
	m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Balance: %d. Press Enter to play again.", m.session.Balance())))
}

func (m *Model) reportError(err error) {
	switch {
	case errors.Is(err, ledger.ErrStorageIO):
		m.logger.Error("Ledger write failed", "error", err)
		m.AddLogEntry(ErrorStyle.Render("Could not save to the ledger: " + err.Error()))
		m.AddLogEntry(ErrorStyle.Render("Type 'retry' to try again."))
	case errors.Is(err, game.ErrInvalidBet):
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Bet must be between 1 and %d.", m.session.Balance())))
	default:
		m.logger.Warn("Action failed", "error", err)
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == screenLogin {
		return m.renderLogin()
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusColor).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) renderLogin() string {
	var b strings.Builder

	title := "Log in"
	if m.mode == modeRegister {
		title = "Register"
	}
	b.WriteString(HeaderStyle.Render("Blackjack · " + title))
	b.WriteString("\n\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	b.WriteString(m.credential.View())
	b.WriteString("\n\n")
	if m.loginError != "" {
		b.WriteString(ErrorStyle.Render(m.loginError))
		b.WriteString("\n\n")
	}
	b.WriteString(InfoStyle.Render("Enter to continue • Tab to switch log in / register • Ctrl+C to quit"))
	return b.String()
}

func (m *Model) renderSidebarPane() string {
	var b strings.Builder

	b.WriteString(HandInfoStyle.Render(m.session.Username()))
	b.WriteString("\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Chips: %d", m.session.Balance())))
	b.WriteString("\n")

	snap := m.session.Snapshot()
	if snap.Bet > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: %d", snap.Bet)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if stats, err := m.session.Stats(); err == nil {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Played: %d", stats.GamesPlayed)))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Won: %d (%.1f%%)", stats.GamesWon, stats.WinRate)))
		b.WriteString("\n")
	}
	if m.session.Pending() {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Result not saved"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	snap := m.session.Snapshot()

	if len(snap.PlayerHand) > 0 {
		dealer := formatCards(snap.DealerHand)
		if up, ok := snap.DealerUpCard(); ok {
			dealer = "[" + HiddenCardStyle.Render("??") + " " + formatCard(up) + "]"
		}
		b.WriteString(HandInfoStyle.Render("Dealer: "))
		b.WriteString(fmt.Sprintf("%s (%d)", dealer, snap.DealerValue))
		b.WriteString("\n")
		b.WriteString(HandInfoStyle.Render("You:    "))
		b.WriteString(fmt.Sprintf("%s (%d)", formatCards(snap.PlayerHand), snap.PlayerValue))
		b.WriteString("\n")
	}

	b.WriteString(m.renderAvailableActions(snap))
	b.WriteString("\n")

	switch snap.Phase {
	case game.AwaitingBet:
		m.actionInput.Placeholder = fmt.Sprintf("Bet amount (1-%d)", m.session.Balance())
	case game.PlayerTurn:
		m.actionInput.Placeholder = "hit or stand"
	default:
		m.actionInput.Placeholder = "Enter to play again, 'quit' to exit"
	}
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("PgUp/PgDn scroll log • 'rankings' • Ctrl+C to quit"))
	return b.String()
}

func (m *Model) renderAvailableActions(snap game.Snapshot) string {
	var actions []string
	for _, a := range snap.Actions {
		switch a {
		case game.ActionBet:
			actions = append(actions, WarningStyle.Render("[bet <amount>]"))
		case game.ActionHit:
			actions = append(actions, SuccessStyle.Render("[hit]"))
		case game.ActionStand:
			actions = append(actions, ErrorStyle.Render("[stand]"))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, InfoStyle.Render("[enter to continue]"))
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = formatCard(card)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Submit processes a line of table input as if typed and entered. It
// returns true when the input asks to quit.
func (m *Model) Submit(input string) bool {
	if m.session == nil {
		return false
	}
	return m.processAction(strings.TrimSpace(input))
}

// Session returns the logged-in session, nil on the login screen
func (m *Model) Session() *session.Session { return m.session }

// LoginError returns the message shown on the login screen
func (m *Model) LoginError() string { return m.loginError }

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}
