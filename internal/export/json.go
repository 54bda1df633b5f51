package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/partisim/internal/sim"
	"github.com/san-kum/partisim/internal/storage"
)

type particleJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Hue    float64 `json:"hue"`
}

type frameJSON struct {
	Tick      uint64         `json:"tick"`
	Particles []particleJSON `json:"particles"`
}

type ExportData struct {
	Run    *storage.RunMetadata `json:"run"`
	Frames []frameJSON          `json:"frames"`
}

func WriteJSON(w io.Writer, meta *storage.RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]frameJSON, len(frames)),
	}

	for i, fr := range frames {
		ps := make([]particleJSON, len(fr.Particles))
		for j, p := range fr.Particles {
			ps[j] = particleJSON{X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Radius: p.Radius, Hue: p.Hue}
		}
		data.Frames[i] = frameJSON{Tick: fr.Tick, Particles: ps}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
