package rng

// DefaultSeed is the state every seeding sequence starts from unless told otherwise.
const DefaultSeed uint32 = 12345

const (
	multiplier uint32 = 1103515245
	increment  uint32 = 12345
	modulus           = 1 << 32
)

// Source produces uniform values in [0, 1).
type Source interface {
	Next() float64
}

// LCG is a 32-bit linear congruential generator. It is deterministic and
// cheap, which is all particle seeding needs. Not safe for concurrent use.
type LCG struct {
	state uint32
}

func New(seed uint32) *LCG {
	return &LCG{state: seed}
}

func NewDefault() *LCG {
	return New(DefaultSeed)
}

// Uint32 advances the generator and returns the raw state.
func (g *LCG) Uint32() uint32 {
	g.state = g.state*multiplier + increment
	return g.state
}

// Next advances the generator and returns state / 2^32.
func (g *LCG) Next() float64 {
	return float64(g.Uint32()) / modulus
}

