package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/partisim/internal/particle"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// density glyphs, from one particle in a cell up to many
var shades = []rune{'.', 'o', 'O', '@'}

// LiveRenderer is a sim.Observer that redraws the system as ASCII art at a
// bounded frame rate. It needs no terminal library, so it works under
// `run --watch` where the full viewer would take over the screen.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	counts    [][]int
}

func NewLiveRenderer(out io.Writer, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	canvas := make([][]rune, height)
	counts := make([][]int, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		counts[i] = make([]int, width)
	}
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		canvas:    canvas,
		counts:    counts,
	}
}

func (r *LiveRenderer) OnStep(tick uint64, sys *particle.System) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.plot(sys)
	r.render(tick, sys)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
			r.counts[y][x] = 0
		}
	}
}

func (r *LiveRenderer) plot(sys *particle.System) {
	w, h := sys.Width(), sys.Height()
	if w <= 0 || h <= 0 {
		return
	}
	for i := range sys.Count() {
		p := sys.At(i)
		x := int(p.X / w * (width - 1))
		y := int(p.Y / h * (height - 1))
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		r.counts[y][x]++
		r.canvas[y][x] = shades[min(r.counts[y][x], len(shades))-1]
	}
}

func (r *LiveRenderer) render(tick uint64, sys *particle.System) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  particles=%d  tick=%d\n", sys.Count(), tick))
	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")

	for _, row := range r.canvas {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")
	if sys.Count() > 0 {
		p := sys.At(0)
		b.WriteString(fmt.Sprintf("  p0 pos=(%.2f, %.2f) vel=(%.2f, %.2f)\n", p.X, p.Y, p.VX, p.VY))
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
