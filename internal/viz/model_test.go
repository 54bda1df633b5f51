package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/partisim/internal/config"
)

func testModel() Model {
	cfg := config.DefaultConfig()
	cfg.Count = 20
	cfg.Width = 100
	cfg.Height = 50
	return NewModel(cfg)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelTickAdvances(t *testing.T) {
	m := testModel()
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.sys.Tick() != 1 {
		t.Errorf("tick = %d, want 1", m.sys.Tick())
	}
}

func TestModelPause(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.running {
		t.Fatal("space should pause")
	}
	m, _ = update(t, m, TickMsg(time.Now()))
	if m.sys.Tick() != 0 {
		t.Errorf("paused model stepped to tick %d", m.sys.Tick())
	}
}

func TestModelQuit(t *testing.T) {
	m := testModel()
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelCountKeys(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, key("+"))
	if m.sys.Count() != 40 {
		t.Errorf("count after + = %d, want 40", m.sys.Count())
	}
	m, _ = update(t, m, key("-"))
	m, _ = update(t, m, key("-"))
	if m.sys.Count() != 10 {
		t.Errorf("count after -- = %d, want 10", m.sys.Count())
	}
	if len(m.colors) != m.sys.Count() {
		t.Errorf("colors = %d, want %d", len(m.colors), m.sys.Count())
	}
}

func TestModelResetReseeds(t *testing.T) {
	m := testModel()
	first := m.sys.Particles()[0]
	for range 5 {
		m, _ = update(t, m, TickMsg(time.Now()))
	}
	m, _ = update(t, m, key("r"))
	if m.sys.Tick() != 0 {
		t.Errorf("tick after reset = %d", m.sys.Tick())
	}
	if m.sys.Particles()[0] != first {
		t.Error("reset should rebuild from the configured seed")
	}
}

func TestModelThemeAndParallel(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, key("t"))
	if m.theme.Name != "retro" {
		t.Errorf("theme = %s, want retro", m.theme.Name)
	}
	m, _ = update(t, m, key("p"))
	if !m.parallel {
		t.Error("p should enable parallel stepping")
	}
	m, _ = update(t, m, TickMsg(time.Now()))
	if m.sys.Tick() != 1 {
		t.Errorf("tick = %d, want 1", m.sys.Tick())
	}
}

func TestModelSampleFPS(t *testing.T) {
	m := testModel()
	start := time.Unix(0, 0)
	m.sampleFPS(start)
	for i := 1; i <= 30; i++ {
		m.sampleFPS(start.Add(time.Duration(i) * time.Second / 30))
	}
	if m.fps < 29.9 || m.fps > 30.1 {
		t.Errorf("fps = %v, want 30", m.fps)
	}
	if len(m.fpsHistory) != 1 {
		t.Errorf("history = %d, want 1", len(m.fpsHistory))
	}
}

func TestModelWindowResize(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.canvas.Width != 120-panelWidth || m.canvas.Height != 38 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestModelRecordGIF(t *testing.T) {
	m := testModel()
	m.gifPath = filepath.Join(t.TempDir(), "out.gif")

	m, _ = update(t, m, key("g"))
	for range 3 {
		m, _ = update(t, m, TickMsg(time.Now()))
	}
	if len(m.recorded) != 3 {
		t.Fatalf("recorded = %d, want 3", len(m.recorded))
	}
	m, _ = update(t, m, key("g"))
	if !strings.HasPrefix(m.status, "saved 3 frames") {
		t.Errorf("status = %q", m.status)
	}
	info, err := os.Stat(m.gifPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty gif")
	}
}

func TestModelView(t *testing.T) {
	m := testModel()
	view := m.View()
	for _, want := range []string{"PARTICLES", "RUNNING", "Particles"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.canvas.lit() == 0 {
		t.Error("no particles drawn")
	}

	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help not shown")
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Disc(10, 10, 0, "#ffffff")
	if c.lit() != 1 {
		t.Errorf("lit = %d, want 1", c.lit())
	}
	c.Clear()
	c.Disc(10, 10, 2, "#ffffff")
	if c.lit() != 6 {
		t.Errorf("lit = %d, want 6 cells", c.lit())
	}
	c.Set(-1, 100)
	if c.lit() != 6 {
		t.Error("out of range dot should be ignored")
	}
}

func TestPickerFlow(t *testing.T) {
	var m tea.Model = NewPicker()
	send := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		return cmd
	}

	if !strings.Contains(m.View(), "PARTISIM") {
		t.Fatal("menu not shown")
	}

	// presets are sorted: default, small, stress, tiny, wide
	send(key("j"))
	send(tea.KeyMsg{Type: tea.KeyEnter})
	p := m.(Picker)
	if p.state != stateConfig || p.cfg.Count != 100 {
		t.Fatalf("state = %d, count = %d", p.state, p.cfg.Count)
	}

	send(key("l"))
	if m.(Picker).cfg.Count != 200 {
		t.Errorf("count = %d, want 200", m.(Picker).cfg.Count)
	}
	if config.GetPreset("small").Count != 100 {
		t.Error("editing must not touch the preset table")
	}

	if cmd := send(key("s")); cmd == nil {
		t.Error("start should schedule a tick")
	}
	p = m.(Picker)
	if p.state != stateSim || p.live.sys.Count() != 200 {
		t.Fatalf("live model not started with edited config")
	}
	send(TickMsg(time.Now()))
	if m.(Picker).live.sys.Tick() != 1 {
		t.Error("ticks should reach the live model")
	}
}

func TestPickerKeepsWindowSize(t *testing.T) {
	var m tea.Model = NewPicker()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(key("s"))

	p := m.(Picker)
	if p.state != stateSim {
		t.Fatalf("state = %d, want sim", p.state)
	}
	if p.live.canvas.Width != 120-panelWidth || p.live.canvas.Height != 38 {
		t.Errorf("canvas = %dx%d, want %dx38", p.live.canvas.Width, p.live.canvas.Height, 120-panelWidth)
	}
}

func TestPickerWithoutWindowSize(t *testing.T) {
	var m tea.Model = NewPicker()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(key("s"))

	if c := m.(Picker).live.canvas; c.Width != canvasCols || c.Height != canvasRows {
		t.Errorf("canvas = %dx%d, want default %dx%d", c.Width, c.Height, canvasCols, canvasRows)
	}
}
