package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/sim"
)

const background = "#0a0a0a"

// FrameToSVG draws every particle in the frame as a filled circle on a
// width x height canvas, in particle order.
func FrameToSVG(frame sim.Frame, width, height float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">
<rect width="100%%" height="100%%" fill="%s"/>
<g data-tick="%d">
`, width, height, width, height, background, frame.Tick))

	for _, p := range frame.Particles {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, p.X, p.Y, p.Radius, HueHex(p.Hue)))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws one particle's path inside the bounded region.
func TrajectoryToSVG(points []particle.Particle, width, height float64, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	if strokeColor == "" {
		strokeColor = HueHex(points[0].Hue)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
