package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"github.com/valyala/fastrand"
)

// Rand is the only source of randomness engines draw from.
type Rand interface {
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

type fastRand struct{}

// NewRand returns a process-wide fast source safe for concurrent use.
func NewRand() Rand {
	return fastRand{}
}

func (fastRand) Intn(n int) int {
	return int(fastrand.Uint32n(uint32(n)))
}

type seededRand struct {
	mtx sync.Mutex
	rnd *rand.Rand
}

// NewSeededRand returns a deterministic source: the same seed yields the same draws.
func NewSeededRand(seed int64) Rand {
	return &seededRand{rnd: rand.New(rand.NewSource(seed))}
}

func (s *seededRand) Intn(n int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.rnd.Intn(n)
}

// NewSeed generates a seed for NewSeededRand using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
