package chem

import (
	"encoding/binary"
	"hash/fnv"
	"math/bits"
	"sort"
)

// Fingerprint is a fixed-length bit vector encoding of a molecular graph,
// used for Tanimoto similarity.  Bit i is stored in byte i/8 at position
// i%8.
type Fingerprint struct {
	Bits      []byte
	NumBits   int
	NumOnBits int
}

// DefaultFingerprintRadius and DefaultFingerprintBits are the parameters
// used throughout the engine unless a component overrides them.
const (
	DefaultFingerprintRadius = 2
	DefaultFingerprintBits   = 2048
)

func newFingerprint(data []byte, numBits int) *Fingerprint {
	on := 0
	for _, b := range data {
		on += bits.OnesCount8(b)
	}
	return &Fingerprint{Bits: data, NumBits: numBits, NumOnBits: on}
}

// GetBit reports whether bit index is set.
func (fp *Fingerprint) GetBit(index int) bool {
	if index < 0 || index >= fp.NumBits {
		return false
	}
	return fp.Bits[index/8]&(1<<uint(index%8)) != 0
}

func setBit(data []byte, index int) {
	data[index/8] |= 1 << uint(index%8)
}

// OnBits returns the indices of all set bits in ascending order.
func (fp *Fingerprint) OnBits() []int {
	out := make([]int, 0, fp.NumOnBits)
	for i := 0; i < fp.NumBits; i++ {
		if fp.GetBit(i) {
			out = append(out, i)
		}
	}
	return out
}

// MorganFingerprint computes a circular fingerprint of the molecule.  Each
// atom starts from an invariant derived from its element, aromaticity,
// degree, charge, and hydrogen count; every iteration up to radius folds in
// the sorted (bond order, neighbour invariant) pairs, and each intermediate
// invariant sets one bit.  The construction is deterministic and
// independent of atom input order for equivalent atoms.
func (m *Molecule) MorganFingerprint(radius, nBits int) *Fingerprint {
	if radius < 0 {
		radius = DefaultFingerprintRadius
	}
	if nBits <= 0 {
		nBits = DefaultFingerprintBits
	}

	data := make([]byte, (nBits+7)/8)

	inv := make([]uint64, len(m.atoms))
	for i, a := range m.atoms {
		inv[i] = hashAtomInvariant(a, m.Degree(i))
		setBit(data, int(inv[i]%uint64(nBits)))
	}

	next := make([]uint64, len(m.atoms))
	for r := 0; r < radius; r++ {
		for i := range m.atoms {
			neigh := make([]uint64, 0, len(m.adj[i]))
			for _, bi := range m.adj[i] {
				b := m.bonds[bi]
				other := b.A
				if other == i {
					other = b.B
				}
				order := uint64(b.Order)
				if b.Aromatic {
					order = 4
				}
				neigh = append(neigh, order<<56|inv[other]>>8)
			}
			sort.Slice(neigh, func(x, y int) bool { return neigh[x] < neigh[y] })
			next[i] = hashWithNeighbors(inv[i], neigh)
			setBit(data, int(next[i]%uint64(nBits)))
		}
		inv, next = next, inv
	}

	return newFingerprint(data, nBits)
}

func hashAtomInvariant(a Atom, degree int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(a.Symbol))
	var meta [4]byte
	if a.Aromatic {
		meta[0] = 1
	}
	meta[1] = byte(degree)
	meta[2] = byte(a.Charge + 8)
	meta[3] = byte(a.HCount)
	h.Write(meta[:])
	return h.Sum64()
}

func hashWithNeighbors(self uint64, neigh []uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], self)
	h.Write(buf[:])
	for _, n := range neigh {
		binary.BigEndian.PutUint64(buf[:], n)
		h.Write(buf[:])
	}
	return h.Sum64()
}
