package particle_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/rng"
)

var _ = Describe("System", func() {
	var sys *particle.System

	Context("with the benchmark canvas", func() {
		BeforeEach(func() {
			sys = particle.New(1000, 800, 600)
		})

		It("creates the requested number of particles", func() {
			Expect(sys.Count()).To(Equal(1000))
			Expect(sys.Particles()).To(HaveLen(1000))
			Expect(sys.Width()).To(Equal(800.0))
			Expect(sys.Height()).To(Equal(600.0))
		})

		It("keeps every particle inside the region across many steps", func() {
			for i := 0; i < 1000; i++ {
				sys.Update()
			}
			for _, p := range sys.Particles() {
				Expect(p.X).To(BeNumerically(">=", 0))
				Expect(p.X).To(BeNumerically("<=", 800))
				Expect(p.Y).To(BeNumerically(">=", 0))
				Expect(p.Y).To(BeNumerically("<=", 600))
			}
			Expect(sys.Count()).To(Equal(1000))
		})

		It("matches an identically seeded system", func() {
			other := particle.NewWithSource(1000, 800, 600, rng.New(rng.DefaultSeed))
			for i := 0; i < 25; i++ {
				sys.Update()
				other.Update()
			}
			Expect(other.Particles()).To(Equal(sys.Particles()))
		})

		It("returns snapshots that do not alias live state", func() {
			snap := sys.Particles()
			snap[0].X = -42
			Expect(sys.At(0).X).NotTo(Equal(-42.0))
		})
	})

	Context("with a single particle near the right wall", func() {
		BeforeEach(func() {
			src := &fixedSource{values: []float64{
				0.95, // x = 9.5
				0.5,  // y = 5
				0.75, // vx = +1
				0.5,  // vy = 0
				0.0,  // radius = 2
				0.0,  // hue = 0
			}}
			sys = particle.NewWithSource(1, 10, 10, src)
		})

		It("reflects and clamps, then travels back inward", func() {
			sys.Update()
			p := sys.At(0)
			Expect(p.X).To(Equal(10.0))
			Expect(p.VX).To(Equal(-1.0))

			sys.Update()
			p = sys.At(0)
			Expect(p.X).To(Equal(9.0))
			Expect(p.VX).To(Equal(-1.0))
		})
	})

	Context("when empty", func() {
		It("updates without effect", func() {
			sys = particle.New(0, 800, 600)
			sys.Update()
			Expect(sys.Count()).To(BeZero())
			Expect(sys.Particles()).To(BeEmpty())
			Expect(sys.Tick()).To(Equal(uint64(1)))
		})
	})
})

type fixedSource struct {
	values []float64
	i      int
}

func (f *fixedSource) Next() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}
