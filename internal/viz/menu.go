package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/partisim/internal/config"
)

var presetInfo = map[string]string{
	"tiny":    "one particle, 10x10 box",
	"small":   "100 particles",
	"default": "1000 particles, 800x600",
	"stress":  "10000 particles, parallel",
	"wide":    "500 particles, 1920x200",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	menuHead     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// field is one adjustable setting on the config screen.
type field struct {
	name string
	get  func(*config.Config) string
	step func(*config.Config, int)
}

var fields = []field{
	{"count", func(c *config.Config) string { return fmt.Sprintf("%d", c.Count) }, func(c *config.Config, d int) {
		if d > 0 {
			c.Count = min(max(c.Count*2, 1), maxCount)
		} else {
			c.Count /= 2
		}
	}},
	{"seed", func(c *config.Config) string { return fmt.Sprintf("%d", c.Seed) }, func(c *config.Config, d int) {
		c.Seed = uint32(int64(c.Seed) + int64(d))
	}},
	{"fps", func(c *config.Config) string { return fmt.Sprintf("%d", c.FPS) }, func(c *config.Config, d int) {
		c.FPS = min(max(c.FPS+d*5, 5), 120)
	}},
	{"parallel", func(c *config.Config) string { return fmt.Sprintf("%t", c.Parallel) }, func(c *config.Config, d int) {
		c.Parallel = !c.Parallel
	}},
}

// Picker lets the user choose and tweak a preset before starting the live view.
type Picker struct {
	state       int
	cursor      int
	presets     []string
	cfg         *config.Config
	fieldCursor int
	live        Model
	size        tea.WindowSizeMsg
}

func NewPicker() Picker {
	return Picker{state: stateMenu, presets: config.ListPresets()}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	var key tea.KeyMsg
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
		return m, nil
	case tea.KeyMsg:
		key = msg
	default:
		return m, nil
	}
	if m.state == stateMenu {
		return m.menuKey(key)
	}
	return m.configKey(key)
}

func (m Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.fieldCursor = 0
		m.state = stateConfig
	}
	return m, nil
}

func (m Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "left", "h":
		fields[m.fieldCursor].step(m.cfg, -1)
	case "right", "l":
		fields[m.fieldCursor].step(m.cfg, 1)
	case "s", "enter":
		m.live = NewModel(m.cfg)
		if m.size.Width > 0 {
			// the terminal size only arrives once, before the live view exists
			next, _ := m.live.Update(m.size)
			m.live = next.(Model)
		}
		m.state = stateSim
		return m, m.live.Init()
	}
	return m, nil
}

func (m Picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	}
	return m.live.View()
}

func (m Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuHead.Render("PARTISIM") + "\n    " + menuSub.Render("bouncing particle simulator") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(presetInfo[name])))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func (m Picker) viewConfig() string {
	var b strings.Builder
	name := m.presets[m.cursor]
	b.WriteString("\n\n    " + menuHead.Render(strings.ToUpper(name)) + "\n    " + menuSub.Render(fmt.Sprintf("%gx%g region", m.cfg.Width, m.cfg.Height)) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, f := range fields {
		val := fmt.Sprintf("%10s", f.get(m.cfg))
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", f.name)), menuDesc.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", f.name)), menuIdle.Render(val)))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" select  ") + menuKey.Render("h/l") + menuIdle.Render(" adjust  ") + menuKey.Render("s") + menuIdle.Render(" start  ") + menuKey.Render("esc") + menuIdle.Render(" back") + "\n")
	return b.String()
}

func RunPicker() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen()).Run()
	return err
}
