package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cli-games/internal/achievements"
	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/launcher"
)

type screen int

const (
	screenMenu screen = iota
	screenPlaying
	screenResult
	screenScores
)

// sessionDoneMsg carries the result of a launch back to the UI.
type sessionDoneMsg struct {
	gameID string
	result launcher.LaunchResult
	err    error
}

// AppConfig configures the top-level arcade model.
type AppConfig struct {
	Launcher *launcher.Launcher
	Scores   ScoreSource // optional; the scoreboard is empty without it
	Player   string
	FPS      int
	// Options returns per-game launch options, such as difficulty from the
	// settings file. Optional.
	Options func(gameID string) core.Options
	// Start skips the menu and launches this game immediately. When the
	// session ends the app quits instead of returning to the menu.
	Start  *Selection
	Width  int
	Height int
}

// Model is the Bubble Tea model for a whole arcade visit: menu, game,
// result screen and scoreboard. The game itself runs on the simulation
// loop in a command goroutine and draws into the model's Surface.
type Model struct {
	ctx     context.Context
	cfg     AppConfig
	surface *Surface
	keys    *KeyMapper
	screen  screen
	menu    MenuModel
	board   ScoreboardModel
	last    sessionDoneMsg
	gen     int
	width   int
	height  int
	quit    bool
}

// NewModel creates the arcade model. ctx bounds every session it starts;
// cancelling it quits a running game.
func NewModel(ctx context.Context, cfg AppConfig) Model {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 80, 24
	}
	m := Model{
		ctx:     ctx,
		cfg:     cfg,
		surface: NewSurface(cfg.Width, cfg.Height),
		keys:    NewKeyMapper(),
		menu:    NewMenuModel(cfg.Launcher.List(), cfg.Width, cfg.Height),
		width:   cfg.Width,
		height:  cfg.Height,
	}
	if cfg.Start != nil {
		m.screen, m.gen = screenPlaying, 1
	}
	return m
}

// Surface exposes the surface games are drawn on.
func (m Model) Surface() *Surface {
	return m.surface
}

// Init starts the preselected game, if any.
func (m Model) Init() tea.Cmd {
	if m.cfg.Start == nil {
		return nil
	}
	return m.launch(*m.cfg.Start)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = wsm.Width, wsm.Height
		m.surface.Resize(wsm.Width, wsm.Height)
		m.menu, _ = m.menu.Update(wsm)
		if m.screen == screenScores {
			m.board, _ = m.board.Update(wsm)
		}
		return m, nil
	}

	switch m.screen {
	case screenPlaying:
		return m.updatePlaying(msg)
	case screenResult:
		return m.updateResult(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)

	switch {
	case m.menu.IsQuitting():
		m.quit = true
		return m, tea.Quit
	case m.menu.WantsScoreboard():
		m.board = NewScoreboardModel(m.cfg.Launcher.List(), m.cfg.Scores, m.width, m.height)
		m.screen = screenScores
		m.menu = m.freshMenu()
		return m, nil
	case m.menu.Selected() != nil:
		sel := *m.menu.Selected()
		m.screen = screenPlaying
		m.gen++
		return m, m.launch(sel)
	}
	return m, cmd
}

// launch runs one session on the loop and ticks the display while it
// plays. Callers bump m.gen first.
func (m Model) launch(sel Selection) tea.Cmd {
	var opts core.Options
	if m.cfg.Options != nil {
		opts = m.cfg.Options(sel.GameID)
	}
	req := launcher.LaunchRequest{
		GameID:   sel.GameID,
		Mode:     sel.Mode,
		Surface:  m.surface,
		Options:  opts,
		PlayerID: m.cfg.Player,
	}
	ctx, l := m.ctx, m.cfg.Launcher
	run := func() tea.Msg {
		res, err := l.Launch(ctx, req)
		return sessionDoneMsg{gameID: sel.GameID, result: res, err: err}
	}
	return tea.Batch(run, tickCmd(m.cfg.FPS, m.gen))
}

func (m Model) updatePlaying(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.surface.Push(m.keys.MapKey(msg))
	case tickMsg:
		if msg.gen == m.gen {
			return m, tickCmd(m.cfg.FPS, m.gen)
		}
	case sessionDoneMsg:
		m.last = msg
		m.gen++ // retire the tick chain
		m.screen = screenResult
	}
	return m, nil
}

func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		m.quit = true
		return m, tea.Quit
	case "enter", " ", "esc", "b":
		if m.cfg.Start != nil {
			m.quit = true
			return m, tea.Quit
		}
		m.menu = m.freshMenu()
		m.screen = screenMenu
	}
	return m, nil
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	switch {
	case m.board.IsQuitting():
		m.quit = true
		return m, tea.Quit
	case m.board.IsGoingBack():
		m.screen = screenMenu
		return m, nil
	}
	return m, cmd
}

// freshMenu rebuilds the menu so high scores are current, keeping the
// cursor where it was.
func (m Model) freshMenu() MenuModel {
	menu := NewMenuModel(m.cfg.Launcher.List(), m.width, m.height)
	menu.cursor = min(m.menu.cursor, max(0, len(menu.items)-1))
	return menu
}

// LastResult returns the most recent session outcome.
func (m Model) LastResult() (launcher.LaunchResult, error) {
	return m.last.result, m.last.err
}

// View renders the current screen.
func (m Model) View() string {
	if m.quit {
		return ""
	}
	switch m.screen {
	case screenPlaying:
		return m.surface.Frame()
	case screenResult:
		return m.resultView()
	case screenScores:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

var (
	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 4)
	resultTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	resultGoodStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	resultErrStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	resultDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) resultView() string {
	var b strings.Builder
	if err := m.last.err; err != nil {
		b.WriteString(resultErrStyle.Render("Session failed"))
		b.WriteString("\n\n")
		var fault *core.SessionFault
		if errors.As(err, &fault) {
			fmt.Fprintf(&b, "%s crashed during %s.", m.last.gameID, fault.Stage)
		} else {
			b.WriteString(err.Error())
		}
	} else {
		r := m.last.result
		b.WriteString(resultTitleStyle.Render(outcomeTitle(r.Outcome)))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s · %s\n", m.last.gameID, r.Report.Mode.Title())
		fmt.Fprintf(&b, "Score: %d\n", r.Report.Score)
		fmt.Fprintf(&b, "Time:  %.1fs\n", r.Report.Elapsed)
		if r.NewHighScore {
			b.WriteString("\n")
			b.WriteString(resultGoodStyle.Render("★ New high score!"))
			b.WriteString("\n")
		}
		for _, id := range r.Unlocked {
			name := id
			if a, ok := achievements.Lookup(id); ok {
				name = a.Name + " - " + a.Description
			}
			b.WriteString("\n")
			b.WriteString(resultGoodStyle.Render("Achievement unlocked: " + name))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(resultDimStyle.Render("Enter: continue  |  Q: quit"))

	box := resultBoxStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func outcomeTitle(o core.Outcome) string {
	switch o {
	case core.OutcomeWin:
		return "YOU WIN!"
	case core.OutcomeLoss:
		return "GAME OVER"
	case core.OutcomeTimeUp:
		return "TIME UP"
	default:
		return "GAME ENDED"
	}
}

// Run starts the arcade on the local terminal and blocks until the user
// quits.
func Run(ctx context.Context, cfg AppConfig) (launcher.LaunchResult, error) {
	model := NewModel(ctx, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return launcher.LaunchResult{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm.LastResult()
	}
	return launcher.LaunchResult{}, nil
}
