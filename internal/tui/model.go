// Package tui is the terminal interface for a human playing alongside the
// computer agents.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/session"
)

// promptMsg asks the human for input. The reply channel is buffered and
// answered exactly once.
type promptMsg struct {
	view  session.View
	dove  bool
	reply chan<- Command
}

type eventMsg struct {
	event game.GameEvent
}

// QuitMsg closes the interface once the game is over and the player has
// seen the result.
type QuitMsg struct{}

// Model is the Bubble Tea model for a human player.
type Model struct {
	playerID string
	logger   *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	gameID    string
	board     game.Board
	turn      int
	placed    int
	remaining time.Duration
	reveal    *session.Reveal
	finished  bool

	prompt    *promptMsg
	status    string
	statusErr bool
	gameLog   []string

	width    int
	height   int
	quitting bool
}

// NewModel creates the model for playerID.
func NewModel(playerID string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "peek 3, rabbit 1 2, hat 4 5, dove 6 7, pass, skip, quit"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		playerID:    playerID,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		status:      "Waiting for the game to start...",
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case promptMsg:
		m.showPrompt(msg)

	case eventMsg:
		m.showEvent(msg.event)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd := m.submit(value); cmd != nil {
				return m, cmd
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) showPrompt(msg promptMsg) {
	v := msg.view
	if v.Revealed != nil && (m.reveal == nil || *m.reveal != *v.Revealed || m.turn != v.Turn) {
		m.AddLogEntry(RabbitStyle.Render(fmt.Sprintf("You see rabbit %d under pile %d", v.Revealed.Rabbit, v.Revealed.Index+1)))
	}

	m.prompt = &msg
	m.gameID = v.GameID
	m.board = v.Board
	m.turn = v.Turn
	m.remaining = v.Remaining
	m.reveal = v.Revealed

	switch {
	case v.Error != "":
		m.setStatus(v.Error, true)
	case msg.dove:
		m.setStatus("Move a dove (dove A B) or skip", false)
	default:
		m.setStatus("Your turn", false)
	}
}

func (m *Model) showEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.GameStartEvent:
		m.gameID = e.GameID
		m.board = e.Board
		m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf("Game %s", e.GameID)))
		m.AddLogEntry(fmt.Sprintf("Players: %s", strings.Join(e.Actors, ", ")))
		m.placed = e.Board.HatsPlaced()
		m.setStatus("Waiting...", false)

	case game.TurnEvent:
		m.board = e.Board
		m.placed = e.HatsPlaced
		m.turn = e.Turn
		entry := fmt.Sprintf("%s %s", e.ActorID, Describe(e.Action))
		if e.ActorID == m.playerID {
			entry = SuccessStyle.Render(entry)
		}
		m.AddLogEntry(entry)

	case game.GameOverEvent:
		m.finished = true
		m.prompt = nil
		m.AddLogEntry("")
		m.AddLogEntry(outcomeLine(e))
		var rabbits []string
		for i, r := range e.Rabbits {
			rabbits = append(rabbits, fmt.Sprintf("%d:%d", i+1, r))
		}
		m.AddLogEntry(InfoStyle.Render("Rabbits " + strings.Join(rabbits, " ")))
		m.setStatus("Game over. Press Enter or Ctrl+C to leave.", false)
	}
}

func outcomeLine(e game.GameOverEvent) string {
	switch session.Outcome(e.Outcome) {
	case session.OutcomeSolved:
		return SuccessStyle.Render(fmt.Sprintf("Solved in %d turns (minimum %d)", e.Turns, e.MinimumMoves))
	case session.OutcomeTimeUp:
		return ErrorStyle.Render("Time is up!")
	case session.OutcomeTurnLimit:
		return WarningStyle.Render(fmt.Sprintf("Turn limit reached after %d turns", e.Turns))
	}
	return WarningStyle.Render("Game abandoned")
}

// submit handles a line of input and returns a command when the program
// should stop.
func (m *Model) submit(input string) tea.Cmd {
	if m.finished {
		return m.quit()
	}
	cmd, err := ParseCommand(input)
	if err != nil {
		if !errors.Is(err, ErrEmptyCommand) {
			m.setStatus(err.Error(), true)
		}
		return nil
	}
	if cmd.Quit {
		return m.quit()
	}
	if m.prompt == nil {
		m.setStatus("Wait for your turn", true)
		return nil
	}

	switch {
	case m.prompt.dove && !cmd.Skip && cmd.Action.Kind != game.KindMoveDove:
		m.setStatus("Move a dove (dove A B) or skip", true)
		return nil
	case !m.prompt.dove && cmd.Skip:
		m.setStatus("Nothing to skip; use pass to end your turn", true)
		return nil
	}

	m.logger.Debug("Submitting command", "input", input)
	m.prompt.reply <- cmd
	m.prompt = nil
	m.setStatus("Waiting...", false)
	return nil
}

func (m *Model) quit() tea.Cmd {
	if m.prompt != nil {
		m.prompt.reply <- Command{Quit: true}
		m.prompt = nil
	}
	m.quitting = true
	return tea.Quit
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// AddLogEntry appends a line to the turn log and scrolls to it.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the interface
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	board := RenderBoard(m.board, m.reveal)
	action := m.renderActionPane()

	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(board) - lipgloss.Height(action) - 2
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(logHeight, 1)

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, board, logPane, action)
}

func (m *Model) renderHeader() string {
	parts := []string{"Magic Rabbit"}
	if m.gameID != "" {
		parts = append(parts, fmt.Sprintf("turn %d", m.turn), fmt.Sprintf("hats %d/%d", m.placed, game.NumPiles))
	}
	if m.remaining > 0 {
		parts = append(parts, fmt.Sprintf("%d:%02d left", int(m.remaining.Minutes()), int(m.remaining.Seconds())%60))
	}
	return HeaderStyle.Render(strings.Join(parts, " • "))
}

func (m *Model) renderActionPane() string {
	var content strings.Builder

	if m.statusErr {
		content.WriteString(ErrorStyle.Render(m.status))
	} else {
		content.WriteString(ActionsStyle.Render(m.status))
	}
	content.WriteString("\n")
	content.WriteString(m.input.View())
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Positions 1-9 • PgUp/PgDn scroll log • Ctrl+C to quit"))
	return content.String()
}
