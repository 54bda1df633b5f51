package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/export"
	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/sim"
)

const (
	canvasCols     = 80
	canvasRows     = 24
	panelWidth     = 46
	fpsCapacity    = 120
	maxRecorded    = 600
	maxCount       = 200000
	parallelChunk  = 1024
	defaultGIFPath = "particles.gif"
)

type TickMsg time.Time

// Model steps a particle system once per frame and renders it.
type Model struct {
	cfg      config.Config
	sys      *particle.System
	colors   []lipgloss.Color
	pool     *sim.SnapshotPool
	canvas   *Canvas
	theme    Theme
	styles   styles
	running  bool
	parallel bool
	showHelp bool

	frames     int
	lastSample time.Time
	fps        float64
	fpsHistory []float64
	stepTime   time.Duration

	recording bool
	recorded  []sim.Frame
	gifPath   string
	status    string
}

func NewModel(cfg *config.Config) Model {
	theme := GetTheme(cfg.Theme)
	m := Model{
		cfg:        *cfg,
		canvas:     NewCanvas(canvasCols, canvasRows),
		theme:      theme,
		styles:     newStyles(theme),
		running:    true,
		parallel:   cfg.Parallel,
		fpsHistory: make([]float64, 0, fpsCapacity),
		gifPath:    defaultGIFPath,
	}
	m.rebuild()
	return m
}

func (m *Model) rebuild() {
	m.sys = m.cfg.NewSystem()
	m.pool = sim.NewSnapshotPool(m.sys.Count())
	m.colors = make([]lipgloss.Color, m.sys.Count())
	for i, p := range m.sys.Particles() {
		m.colors[i] = lipgloss.Color(export.HueHex(p.Hue))
	}
	m.frames = 0
	m.lastSample = time.Time{}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.rebuild()
		case "+", "=":
			m.resize(min(max(m.cfg.Count*2, 1), maxCount))
		case "-", "_":
			m.resize(m.cfg.Count / 2)
		case "p":
			m.parallel = !m.parallel
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := max(msg.Width-panelWidth, 20)
		rows := max(msg.Height-2, 8)
		m.canvas = NewCanvas(cols, rows)
	case TickMsg:
		if m.running {
			m.step()
			if m.recording {
				m.record()
			}
		}
		m.sampleFPS(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(count int) {
	if count == m.cfg.Count {
		return
	}
	m.cfg.Count = count
	m.rebuild()
}

func (m *Model) step() {
	start := time.Now()
	if m.parallel {
		m.sys.UpdateParallel(parallelChunk)
	} else {
		m.sys.Update()
	}
	m.stepTime = time.Since(start)
}

// sampleFPS counts frames and folds them into an FPS reading once at least
// a second has passed since the previous reading.
func (m *Model) sampleFPS(now time.Time) {
	if m.lastSample.IsZero() {
		m.lastSample = now
		return
	}
	m.frames++
	delta := now.Sub(m.lastSample)
	if delta < time.Second {
		return
	}
	m.fps = float64(m.frames) / delta.Seconds()
	m.fpsHistory = append(m.fpsHistory, m.fps)
	if len(m.fpsHistory) > fpsCapacity {
		m.fpsHistory = m.fpsHistory[1:]
	}
	m.frames = 0
	m.lastSample = now
}

func (m *Model) record() {
	if len(m.recorded) >= maxRecorded {
		return
	}
	m.recorded = append(m.recorded, sim.Frame{Tick: m.sys.Tick(), Particles: m.sys.Particles()})
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorded = make([]sim.Frame, 0, maxRecorded)
		m.status = "recording"
		return
	}

	m.recording = false
	if err := m.saveGIF(); err != nil {
		m.status = fmt.Sprintf("gif failed: %v", err)
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.recorded), m.gifPath)
	}
	m.recorded = nil
}

func (m *Model) saveGIF() error {
	if len(m.recorded) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()

	delay := max(100/m.cfg.FPS, 1)
	return export.WriteGIF(f, m.recorded, m.sys.Width(), m.sys.Height(), 1, delay)
}

// draw maps the region onto the canvas, stretching each axis independently.
func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.sys.Width(), m.sys.Height()
	if w <= 0 || h <= 0 {
		return
	}
	dw, dh := float64(m.canvas.DotsWide()-1), float64(m.canvas.DotsHigh()-1)

	ps := m.pool.Snapshot(m.sys)
	defer m.pool.Put(ps)

	for i, p := range ps {
		x := int(p.X / w * dw)
		y := int(p.Y / h * dh)
		r := int(p.Radius / w * dw / 2)
		m.canvas.Disc(x, y, r, m.colors[i])
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(m.styles.title.Render("PARTICLES") + "\n")

	status := m.styles.status.Render("RUNNING")
	if !m.running {
		status = m.styles.paused.Render("PAUSED")
	}
	if m.recording {
		status += m.styles.paused.Render(fmt.Sprintf("  REC %d", len(m.recorded)))
	}
	s.WriteString(status + "\n\n")

	mode := "sequential"
	if m.parallel {
		mode = "parallel"
	}
	rows := []struct{ label, value string }{
		{"Tick", fmt.Sprintf("%d", m.sys.Tick())},
		{"Particles", fmt.Sprintf("%d", m.sys.Count())},
		{"Region", fmt.Sprintf("%gx%g", m.sys.Width(), m.sys.Height())},
		{"Seed", fmt.Sprintf("%d", m.cfg.Seed)},
		{"FPS", fmt.Sprintf("%.0f", m.fps)},
		{"Step", m.stepTime.String()},
		{"Mode", mode},
		{"Theme", m.theme.Name},
	}
	for _, r := range rows {
		s.WriteString(m.styles.label.Render(r.label) + m.styles.value.Render(r.value) + "\n")
	}

	if len(m.fpsHistory) > 1 {
		chart := asciigraph.Plot(m.fpsHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("FPS"))
		s.WriteString("\n" + m.styles.chart.Render(chart) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + m.styles.value.Render(m.status) + "\n")
	}

	s.WriteString(m.styles.help.Render("SP:Pause R:Reset +/-:Count\nP:Parallel T:Theme G:Record ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), m.styles.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Rebuild from seed        ║
║  + / -    - Double / halve count     ║
║  P        - Toggle parallel step     ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the interactive view for cfg.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
