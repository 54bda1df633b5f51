package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/san-kum/partisim/internal/sim"
)

// hueBuckets colours share the palette with the background at index 0.
const hueBuckets = 255

var gifPalette = buildPalette()

func buildPalette() color.Palette {
	p := make(color.Palette, 0, hueBuckets+1)
	p = append(p, color.RGBA{0x0a, 0x0a, 0x0a, 0xff})
	for i := 0; i < hueBuckets; i++ {
		c := HueColor(float64(i) * 360 / hueBuckets)
		r, g, b := c.RGB255()
		p = append(p, color.RGBA{r, g, b, 0xff})
	}
	return p
}

func hueIndex(hue float64) uint8 {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	return uint8(1 + int(h*hueBuckets/360)%hueBuckets)
}

// RenderFrame rasterises a frame at scale pixels per simulation unit.
func RenderFrame(frame sim.Frame, width, height, scale float64) *image.Paletted {
	w := max(1, int(math.Ceil(width*scale)))
	h := max(1, int(math.Ceil(height*scale)))
	img := image.NewPaletted(image.Rect(0, 0, w, h), gifPalette)

	for _, p := range frame.Particles {
		fillCircle(img, p.X*scale, p.Y*scale, max(p.Radius*scale, 0.5), hueIndex(p.Hue))
	}
	return img
}

func fillCircle(img *image.Paletted, cx, cy, r float64, idx uint8) {
	b := img.Bounds()
	x0 := max(b.Min.X, int(math.Floor(cx-r)))
	x1 := min(b.Max.X-1, int(math.Ceil(cx+r)))
	y0 := max(b.Min.Y, int(math.Floor(cy-r)))
	y1 := min(b.Max.Y-1, int(math.Ceil(cy+r)))
	r2 := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				img.SetColorIndex(x, y, idx)
			}
		}
	}
}

// WriteGIF encodes frames as a looping animation. delay is in 1/100 s.
func WriteGIF(w io.Writer, frames []sim.Frame, width, height, scale float64, delay int) error {
	anim := gif.GIF{LoopCount: 0}
	for _, fr := range frames {
		anim.Image = append(anim.Image, RenderFrame(fr, width, height, scale))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
