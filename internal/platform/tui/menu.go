package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuModeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID    string
	Title     string
	Genre     string
	Desc      string
	Modes     []core.Mode
	HighScore int
	mode      int // index into Modes
}

// Mode returns the mode currently chosen for the item.
func (it MenuItem) Mode() core.Mode {
	if len(it.Modes) == 0 {
		return core.ModeNormal
	}
	return it.Modes[it.mode]
}

// Selection is a game and mode picked from the menu.
type Selection struct {
	GameID string
	Mode   core.Mode
}

// MenuModel is the game picker. Up/down choose the game, left/right cycle
// through the modes it declares.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	quitting  bool
	selected  *Selection
	scores    bool
}

// NewMenuModel creates a menu over the enabled games.
func NewMenuModel(games []registry.Listing, width, height int) MenuModel {
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{
			GameID:    g.ID,
			Title:     g.Name,
			Genre:     g.Genre,
			Desc:      g.Description,
			Modes:     g.Modes,
			HighScore: g.HighScore,
		})
	}
	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg), nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) MenuModel {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionPrevMode:
		m.cycleMode(-1)
	case MenuActionNextMode:
		m.cycleMode(1)
	case MenuActionSelect:
		if len(m.items) > 0 {
			it := m.items[m.cursor]
			m.selected = &Selection{GameID: it.GameID, Mode: it.Mode()}
		}
	case MenuActionScoreboard:
		m.scores = true
	}
	return m
}

func (m *MenuModel) cycleMode(step int) {
	if len(m.items) == 0 {
		return
	}
	it := &m.items[m.cursor]
	if n := len(it.Modes); n > 0 {
		it.mode = (it.mode + step + n) % n
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  A R C A D E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a game", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No games enabled. Try `arcade plugins enable <id>`."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		line := fmt.Sprintf("  %-18s %s", item.Title, menuDimStyle.Render(fmt.Sprintf("%-10s", item.Genre)))
		mode := menuModeStyle.Render(fmt.Sprintf(" ‹ %s ›", item.Mode().Title()))
		if i == m.cursor {
			line = menuCursorStyle.Render("> "+fmt.Sprintf("%-18s", item.Title)) + " " + menuDimStyle.Render(fmt.Sprintf("%-10s", item.Genre))
		} else {
			mode = menuDimStyle.Render(fmt.Sprintf("   %s  ", item.Mode().Title()))
		}
		if item.HighScore > 0 {
			mode += menuDimStyle.Render(fmt.Sprintf("  best %d", item.HighScore))
		}
		b.WriteString(centerText(line+mode, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(menuDimStyle.Render(m.items[m.cursor].Desc), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Game  |  Left/Right: Mode  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen game, or nil if none was chosen.
func (m MenuModel) Selected() *Selection {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.scores
}

// centerText centers text within the given width, measuring by cells so
// styled strings line up.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
