// Package inception maintains the bounded, score-ordered pool of seed
// structures injected into generation batches to bias early search.
package inception

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Seed is one scored seed structure.
type Seed struct {
	SMILES string
	Score  float64
}

// Memory is the per-run inception memory: at most capacity seeds, kept
// sorted by score descending, ties stable on insertion order.  Sampling
// draws without replacement within one call and with replacement across
// calls.
type Memory struct {
	mu       sync.Mutex
	capacity int
	seeds    []Seed
	rng      *rand.Rand
}

// NewMemory builds an empty memory.  Capacity zero disables inception:
// inserts are dropped and samples are empty.
func NewMemory(cfg config.InceptionConfig, seed int64) (*Memory, error) {
	if cfg.MemorySize < 0 {
		return nil, errors.New(errors.ErrCodeInceptionInvalidConfig, "memory_size must be >= 0")
	}
	if cfg.SampleSize < 0 {
		return nil, errors.New(errors.ErrCodeInceptionInvalidConfig, "sample_size must be >= 0")
	}
	return &Memory{
		capacity: cfg.MemorySize,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Add inserts scored seeds, then truncates to the top capacity by score.
// The sort is stable: equal scores keep their insertion order.
func (m *Memory) Add(seeds ...Seed) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capacity == 0 {
		return
	}
	m.seeds = append(m.seeds, seeds...)
	sort.SliceStable(m.seeds, func(i, j int) bool {
		return m.seeds[i].Score > m.seeds[j].Score
	})
	if len(m.seeds) > m.capacity {
		m.seeds = m.seeds[:m.capacity]
	}
}

// Sample draws up to n distinct seeds uniformly at random.  When fewer
// than n seeds remain it returns all of them; an empty memory returns an
// empty slice.  Memory contents are unchanged, so a seed may be drawn
// again in a later call.
func (m *Memory) Sample(n int) []Seed {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || len(m.seeds) == 0 {
		return nil
	}
	if n >= len(m.seeds) {
		out := make([]Seed, len(m.seeds))
		copy(out, m.seeds)
		return out
	}

	idx := m.rng.Perm(len(m.seeds))[:n]
	out := make([]Seed, 0, n)
	for _, i := range idx {
		out = append(out, m.seeds[i])
	}
	return out
}

// Draw samples like Sample but also removes the drawn seeds, for callers
// that enforce no-replacement across successive draws.  Drawn seeds come
// back only through Add.
func (m *Memory) Draw(n int) []Seed {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || len(m.seeds) == 0 {
		return nil
	}
	if n >= len(m.seeds) {
		out := m.seeds
		m.seeds = nil
		return out
	}

	idx := m.rng.Perm(len(m.seeds))[:n]
	drawn := make(map[int]bool, n)
	out := make([]Seed, 0, n)
	for _, i := range idx {
		out = append(out, m.seeds[i])
		drawn[i] = true
	}
	rest := m.seeds[:0]
	for i, s := range m.seeds {
		if !drawn[i] {
			rest = append(rest, s)
		}
	}
	m.seeds = rest
	return out
}

// Len returns the number of retained seeds.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seeds)
}

// Seeds returns a copy of the retained seeds in score order.
func (m *Memory) Seeds() []Seed {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Seed, len(m.seeds))
	copy(out, m.seeds)
	return out
}
