package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/sim"
)

func testModel(t *testing.T) model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	view := NewArenaView(40, 12, cfg.Arena.Width, cfg.Arena.Depth)
	clock, err := sim.Build(cfg, view, nil, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return newModel(clock, view)
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

func TestTickAdvancesClock(t *testing.T) {
	m := testModel(t)
	m, cmd := update(t, m, tickMsg(time.Now()))
	if m.clock.Ticks() != 1 {
		t.Errorf("expected 1 tick, got %d", m.clock.Ticks())
	}
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if m.view.Frames() != 1 {
		t.Errorf("expected 1 frame rendered, got %d", m.view.Frames())
	}
}

func TestPauseStopsTicks(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m, _ = update(t, m, tickMsg(time.Now()))
	if m.clock.Ticks() != 0 {
		t.Errorf("paused model ticked %d times", m.clock.Ticks())
	}
}

func TestArrowKeysTapTracker(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	tracker := m.clock.State().Tracker
	sel := tracker.Selection()
	if sel.Count != 2 || sel.TypeIndex != 1 {
		t.Errorf("expected 2 dice of type 1, got %+v", sel)
	}
	count, kind := tracker.Intents()
	if count.String() != "idle" || kind.String() != "idle" {
		t.Errorf("tap left intents %v %v", count, kind)
	}

	m, _ = update(t, m, tickMsg(time.Now()))
	if got := m.clock.State().Pool.Len(); got != 2 {
		t.Errorf("expected pool of 2 after tick, got %d", got)
	}
}

func TestSpaceRequestsThrow(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if !m.clock.State().Tracker.ConsumeThrow() {
		t.Error("expected throw request")
	}
}

func TestQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tickMsg(time.Now()))
	out := m.View()
	for _, want := range []string{"dicesim", "d20", "target", "showing", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestArenaViewDrawsDice(t *testing.T) {
	m := testModel(t)
	s := m.clock.State()
	if err := m.view.RenderFrame(s.Scene, s.Camera); err != nil {
		t.Fatal(err)
	}

	plain := m.view.Plain()
	rows := strings.Split(plain, "\n")
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	if strings.Trim(rows[0], "#") != "" {
		t.Errorf("top wall not drawn: %q", rows[0])
	}
	if !strings.ContainsAny(plain, "?0123456789") {
		t.Errorf("die glyph missing:\n%s", plain)
	}
}

func TestArenaViewProjection(t *testing.T) {
	v := NewArenaView(22, 12, 40, 20)
	col, row := v.project(0, 0)
	if col != 11 || row != 6 {
		t.Errorf("center maps to (%d,%d)", col, row)
	}
	col, row = v.project(-100, 100)
	if col != 1 || row != 10 {
		t.Errorf("out of range maps to (%d,%d), want inside walls", col, row)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 5); got != strings.Repeat("─", 5) {
		t.Errorf("empty sparkline %q", got)
	}
	out := Sparkline([]float64{0, 1, 2, 3}, 4)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("sparkline missing extremes: %q", out)
	}
}
