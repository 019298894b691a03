package chem

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
)

// wlRounds is the number of Weisfeiler-Lehman refinement rounds used when
// hashing a graph into a signature.  Enough to separate ring systems of the
// sizes the generator produces.
const wlRounds = 4

// Scaffold returns the topological (Murcko-style) scaffold of the molecule:
// the subgraph obtained by iteratively pruning terminal atoms until only
// ring systems and the linkers between them remain.  An acyclic molecule
// has an empty scaffold (a molecule with zero atoms).
func (m *Molecule) Scaffold() *Molecule {
	keep := make([]bool, len(m.atoms))
	degree := make([]int, len(m.atoms))
	for i := range m.atoms {
		keep[i] = true
		degree[i] = m.Degree(i)
	}

	// Iteratively strip atoms whose remaining degree is below two.
	for {
		removed := false
		for i := range m.atoms {
			if keep[i] && degree[i] < 2 {
				keep[i] = false
				removed = true
				for _, n := range m.Neighbors(i) {
					if keep[n] {
						degree[n]--
					}
				}
			}
		}
		if !removed {
			break
		}
	}

	return m.subgraph(keep)
}

// subgraph builds a new molecule from the kept atoms and the bonds whose
// endpoints are both kept.  Hydrogen counts and ring flags are preserved
// from the parent.
func (m *Molecule) subgraph(keep []bool) *Molecule {
	remap := make([]int, len(m.atoms))
	sub := &Molecule{}
	for i, a := range m.atoms {
		if !keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(sub.atoms)
		sub.atoms = append(sub.atoms, a)
		sub.adj = append(sub.adj, nil)
	}
	for _, b := range m.bonds {
		if remap[b.A] >= 0 && remap[b.B] >= 0 {
			sub.addBond(remap[b.A], remap[b.B], b.Order, b.Aromatic)
			sub.bonds[len(sub.bonds)-1].InRing = b.InRing
		}
	}
	return sub
}

// Signature returns a deterministic, input-order-independent identifier of
// the molecular graph: a Weisfeiler-Lehman hash over atom and bond
// invariants.  Structures whose graphs are identical produce identical
// signatures regardless of how their SMILES were written; distinct graphs
// collide only with hash probability.  The empty graph has signature "".
func (m *Molecule) Signature() string {
	if len(m.atoms) == 0 {
		return ""
	}

	// The initial invariant deliberately ignores hydrogen counts and
	// charges: a scaffold carbon that lost a substituent during pruning
	// must hash identically to an unsubstituted one.  Degrees and bond
	// orders enter through the refinement rounds.
	inv := make([]uint64, len(m.atoms))
	for i, a := range m.atoms {
		h := fnv.New64a()
		h.Write([]byte(a.Symbol))
		if a.Aromatic {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		inv[i] = h.Sum64()
	}

	next := make([]uint64, len(m.atoms))
	for r := 0; r < wlRounds; r++ {
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
		}
		inv, next = next, inv
	}

	// Fold the sorted multiset of final invariants into one digest so the
	// result does not depend on atom input order.
	sorted := make([]uint64, len(inv))
	copy(sorted, inv)
	sort.Slice(sorted, func(x, y int) bool { return sorted[x] < sorted[y] })

	h := fnv.New64a()
	var buf [8]byte
	for _, v := range sorted {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return fmt.Sprintf("S%d-%016x", len(m.atoms), h.Sum64())
}

// ScaffoldSignature is shorthand for m.Scaffold().Signature().
func (m *Molecule) ScaffoldSignature() string {
	return m.Scaffold().Signature()
}
