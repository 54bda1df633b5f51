package sim

import (
	"sync"

	"github.com/san-kum/partisim/internal/particle"
)

// SnapshotPool recycles particle buffers for render loops that take a
// snapshot every frame and drop it right after.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(size int) *SnapshotPool {
	return &SnapshotPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]particle.Particle, 0, size)
				return &buf
			},
		},
	}
}

// Snapshot copies the system's particles into a pooled buffer.
func (p *SnapshotPool) Snapshot(sys *particle.System) []particle.Particle {
	buf := p.pool.Get().(*[]particle.Particle)
	return sys.AppendParticles((*buf)[:0])
}

func (p *SnapshotPool) Put(s []particle.Particle) {
	if cap(s) < p.size {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
