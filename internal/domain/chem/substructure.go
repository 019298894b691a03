package chem

// Substructure matching via backtracking subgraph isomorphism.  Patterns
// are plain SMILES parsed with the same grammar as candidate structures;
// SMARTS logic beyond the wildcard atom "*" is not supported.
//
// Match rules:
//   - a pattern atom matches a target atom when the symbols are equal (the
//     wildcard "*" matches anything) and the aromaticity flags agree; a
//     charged pattern atom additionally requires an equal charge;
//   - a bond matches when both are aromatic, or when neither is aromatic
//     and the orders are equal.
//
// The matcher is deterministic and has no false negatives for patterns
// expressed in the supported grammar: if the pattern graph is embeddable in
// the target graph under the rules above, HasSubstructure returns true.

// HasSubstructure reports whether pattern is embeddable as a subgraph of m.
// A pattern written as dot-separated fragments requires every fragment to
// be embeddable on a disjoint atom set.
func (m *Molecule) HasSubstructure(pattern *Molecule) bool {
	if pattern == nil || len(pattern.atoms) == 0 {
		return false
	}
	if len(pattern.atoms) > len(m.atoms) {
		return false
	}

	order := pattern.matchOrder()
	mapping := make([]int, len(pattern.atoms))
	for i := range mapping {
		mapping[i] = -1
	}
	used := make([]bool, len(m.atoms))
	return m.matchFrom(pattern, order, 0, mapping, used)
}

// matchOrder returns pattern atom indices arranged so each atom after the
// first of its fragment is adjacent to an earlier atom, which lets the
// matcher check bonds incrementally.
func (p *Molecule) matchOrder() []int {
	visited := make([]bool, len(p.atoms))
	order := make([]int, 0, len(p.atoms))
	for start := range p.atoms {
		if visited[start] {
			continue
		}
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			order = append(order, cur)
			for _, n := range p.Neighbors(cur) {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return order
}

func (m *Molecule) matchFrom(p *Molecule, order []int, pos int, mapping []int, used []bool) bool {
	if pos == len(order) {
		return true
	}
	pIdx := order[pos]
	for tIdx := range m.atoms {
		if used[tIdx] || !atomMatches(p.atoms[pIdx], m.atoms[tIdx]) {
			continue
		}
		if !m.bondsConsistent(p, pIdx, tIdx, mapping) {
			continue
		}
		mapping[pIdx] = tIdx
		used[tIdx] = true
		if m.matchFrom(p, order, pos+1, mapping, used) {
			return true
		}
		mapping[pIdx] = -1
		used[tIdx] = false
	}
	return false
}

// bondsConsistent verifies that every pattern bond from pIdx to an
// already-mapped pattern atom has a matching bond in the target.
func (m *Molecule) bondsConsistent(p *Molecule, pIdx, tIdx int, mapping []int) bool {
	for _, bi := range p.adj[pIdx] {
		pb := p.bonds[bi]
		other := pb.A
		if other == pIdx {
			other = pb.B
		}
		mapped := mapping[other]
		if mapped < 0 {
			continue
		}
		tb := m.findBond(tIdx, mapped)
		if tb == nil || !bondMatches(pb, *tb) {
			return false
		}
	}
	return true
}

func (m *Molecule) findBond(a, b int) *Bond {
	for _, bi := range m.adj[a] {
		bond := &m.bonds[bi]
		if (bond.A == a && bond.B == b) || (bond.A == b && bond.B == a) {
			return bond
		}
	}
	return nil
}

func atomMatches(p, t Atom) bool {
	if p.Symbol == "*" {
		return true
	}
	if p.Symbol != t.Symbol || p.Aromatic != t.Aromatic {
		return false
	}
	if p.Charge != 0 && p.Charge != t.Charge {
		return false
	}
	return true
}

func bondMatches(p, t Bond) bool {
	if p.Aromatic || t.Aromatic {
		return p.Aromatic && t.Aromatic
	}
	return p.Order == t.Order
}
