package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/games/builtin"
	"github.com/vovakirdan/cli-games/internal/launcher"
	"github.com/vovakirdan/cli-games/internal/registry"
	"github.com/vovakirdan/cli-games/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runeKey("w"), core.ActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown},
		{runeKey("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionFire},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{runeKey("r"), core.ActionRegenerate},
		{runeKey("p"), core.ActionPause},
		{runeKey("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runeKey("z"), core.ActionNone},
	}
	for _, tc := range tests {
		ev := km.MapKey(tc.msg)
		if ev.Action != tc.want {
			t.Errorf("%q -> %v, expected %v", tc.msg.String(), ev.Action, tc.want)
		}
		if tc.want != core.ActionNone && (ev.Key != tc.msg.String() || ev.Player != core.Player1) {
			t.Errorf("%q: event %+v", tc.msg.String(), ev)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionPrevMode},
		{runeKey("l"), MenuActionNextMode},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}
	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
			t.Errorf("%q -> %v, expected %v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestSurfaceKeysDropOldest(t *testing.T) {
	s := NewSurface(10, 5)
	if ev := s.PollKey(); !ev.IsNone() {
		t.Fatalf("fresh surface polled %+v", ev)
	}
	s.Push(core.NoInput)
	for i := 0; i < keyBuffer+2; i++ {
		a := core.ActionUp
		if i >= 2 {
			a = core.ActionDown
		}
		s.Push(core.Press(a))
	}
	for i := 0; i < keyBuffer; i++ {
		if ev := s.PollKey(); ev.Action != core.ActionDown {
			t.Fatalf("key %d = %v, expected the oldest two dropped", i, ev.Action)
		}
	}
	if ev := s.PollKey(); !ev.IsNone() {
		t.Errorf("extra key %+v", ev)
	}
}

func TestSurfaceResizeAndPresent(t *testing.T) {
	s := NewSurface(10, 5)
	s.Resize(20, 8)
	if rows, cols := s.Dimensions(); rows != 8 || cols != 20 {
		t.Fatalf("Dimensions() = %d, %d", rows, cols)
	}

	s.Clear()
	core.DrawText(s, 0, 0, "hi", core.Plain)
	s.Present()

	lines := strings.Split(s.Frame(), "\n")
	if len(lines) != 8 || len(lines[0]) != 20 || !strings.HasPrefix(lines[0], "hi") {
		t.Errorf("frame = %q", s.Frame())
	}

	s.Push(core.Press(core.ActionFire))
	s.Release()
	if !s.PollKey().IsNone() || s.Frame() != "" {
		t.Error("Release kept keys or the frame")
	}
}

func TestRenderScreenPlain(t *testing.T) {
	scr := core.NewScreen(6, 2)
	core.DrawText(scr, 0, 1, "abc", core.Plain)
	core.DrawText(scr, 1, 0, "xy", core.Plain)
	if got := RenderScreen(scr); got != scr.String() {
		t.Errorf("RenderScreen = %q, expected %q", got, scr.String())
	}
}

func listings() []registry.Listing {
	return []registry.Listing{
		{ID: "maze", Name: "Maze", Genre: "Puzzle", Modes: []core.Mode{core.ModeNormal, core.ModeTimeAttack, core.ModeInfinite}, Enabled: true},
		{ID: "pong", Name: "Pong", Genre: "Sports", Modes: []core.Mode{core.ModeNormal, core.ModeMultiplayer}, Enabled: true},
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(listings(), 80, 24)
	steps := []tea.KeyMsg{
		{Type: tea.KeyDown},
		{Type: tea.KeyDown}, // clamps at the last game
		{Type: tea.KeyLeft}, // wraps to the last mode
		{Type: tea.KeyEnter},
	}
	for _, k := range steps {
		m, _ = m.Update(k)
	}
	sel := m.Selected()
	if sel == nil || sel.GameID != "pong" || sel.Mode != core.ModeMultiplayer {
		t.Fatalf("Selected() = %+v", sel)
	}
	if !strings.Contains(m.View(), "Pong") {
		t.Error("menu view does not list the games")
	}

	m, _ = m.Update(runeKey("q"))
	if !m.IsQuitting() {
		t.Error("q did not quit")
	}
}

type fakeScores struct {
	calls []string
	err   error
}

func (f *fakeScores) TopScores(gameID, mode string, limit int) ([]storage.ScoreEntry, error) {
	f.calls = append(f.calls, gameID+"/"+mode)
	if f.err != nil {
		return nil, f.err
	}
	return []storage.ScoreEntry{{PlayerID: "ada", GameID: gameID, Score: 420, Outcome: "win"}}, nil
}

func TestScoreboardNavigation(t *testing.T) {
	src := &fakeScores{}
	b := NewScoreboardModel(listings(), src, 100, 30)
	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyTab})
	b, _ = b.Update(runeKey("m"))
	b, _ = b.Update(runeKey("m"))

	want := []string{"maze/", "pong/", "pong/normal", "pong/multiplayer"}
	if strings.Join(src.calls, " ") != strings.Join(want, " ") {
		t.Errorf("queries = %v, expected %v", src.calls, want)
	}
	if v := b.View(); !strings.Contains(v, "420") || !strings.Contains(v, "ada") {
		t.Errorf("view missing the score row:\n%s", v)
	}

	b, _ = b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !b.IsGoingBack() {
		t.Error("esc did not go back")
	}

	failing := NewScoreboardModel(listings(), &fakeScores{err: errors.New("disk on fire")}, 60, 20)
	if !strings.Contains(failing.View(), "disk on fire") {
		t.Error("load error not shown")
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := log.New(io.Discard)
	reg := registry.New(logger, builtin.Source())
	reg.LoadAll()
	l := launcher.New(launcher.Config{Registry: reg, Logger: logger})
	return NewModel(context.Background(), AppConfig{Launcher: l, FPS: 30, Width: 80, Height: 24})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestModelFlow(t *testing.T) {
	m := newTestModel(t)
	if m.screen != screenMenu || !strings.Contains(m.View(), "Maze") {
		t.Fatalf("not on the menu: %v", m.screen)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("tab went to %v", m.screen)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("esc went to %v", m.screen)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenPlaying || cmd == nil {
		t.Fatalf("enter: screen %v cmd %v", m.screen, cmd)
	}
	gen := m.gen

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if ev := m.surface.PollKey(); ev.Action != core.ActionUp {
		t.Errorf("key not forwarded to the surface: %+v", ev)
	}
	if _, cmd = update(t, m, tickMsg{gen: gen}); cmd == nil {
		t.Error("current tick not renewed")
	}
	if _, cmd = update(t, m, tickMsg{gen: gen - 1}); cmd != nil {
		t.Error("stale tick renewed")
	}

	done := sessionDoneMsg{gameID: "maze", result: launcher.LaunchResult{
		Report:       core.ScoreReport{GameID: "maze", Mode: core.ModeNormal, Score: 321},
		Outcome:      core.OutcomeWin,
		NewHighScore: true,
		Unlocked:     []string{"first_game"},
	}}
	m, _ = update(t, m, done)
	if m.screen != screenResult {
		t.Fatalf("session end went to %v", m.screen)
	}
	view := m.View()
	for _, want := range []string{"YOU WIN!", "321", "New high score", "First Steps"} {
		if !strings.Contains(view, want) {
			t.Errorf("result view missing %q", want)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenMenu {
		t.Errorf("enter on result went to %v", m.screen)
	}
	m, cmd = update(t, m, runeKey("q"))
	if cmd == nil || m.View() != "" {
		t.Error("q on the menu did not quit")
	}
}

func TestModelShowsLaunchError(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenPlaying
	m, _ = update(t, m, sessionDoneMsg{gameID: "maze", err: core.ErrUnsupportedMode})
	if !strings.Contains(m.View(), "Session failed") {
		t.Errorf("error not shown:\n%s", m.View())
	}
	if _, err := m.LastResult(); !errors.Is(err, core.ErrUnsupportedMode) {
		t.Errorf("LastResult() err = %v", err)
	}
}
