// Package chem provides the lightweight cheminformatics layer of the MolGen
// scoring engine: SMILES parsing into a molecular graph, physicochemical
// descriptors, Morgan-style fingerprints, Tanimoto similarity, topological
// scaffold extraction, and substructure matching.  The implementation is a
// self-contained approximation of the usual toolkit operations; it trades
// chemical rigour for determinism and zero external dependencies, which is
// what the scoring and diversity layers require.
package chem

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Atom is a node of the molecular graph.
type Atom struct {
	// Symbol is the element symbol with canonical capitalisation ("C",
	// "Cl", "N").  The wildcard atom is "*".
	Symbol string

	// Aromatic records whether the atom was written in aromatic
	// (lower-case) form.
	Aromatic bool

	// Charge is the formal charge from a bracket atom, zero otherwise.
	Charge int

	// HCount is the hydrogen count: explicit for bracket atoms, implicit
	// (valence-derived) for organic-subset atoms.
	HCount int

	// InRing is true when the atom participates in at least one ring bond.
	InRing bool

	// Bracket records whether the atom was written in bracket form, in
	// which case HCount is exact and never recomputed.
	Bracket bool
}

// Bond is an edge of the molecular graph.
type Bond struct {
	A, B     int  // endpoint atom indices
	Order    int  // 1, 2, or 3; aromatic bonds carry Order 1 with Aromatic set
	Aromatic bool
	InRing   bool
}

// Molecule is a parsed candidate structure.  Instances are immutable after
// ParseSMILES returns and safe for concurrent reads.
type Molecule struct {
	// SMILES is the input string the molecule was parsed from, trimmed.
	SMILES string

	atoms []Atom
	bonds []Bond
	adj   [][]int // adjacency: atom index → incident bond indices
}

// organicValence is the default valence used to derive implicit hydrogen
// counts for organic-subset atoms.
var organicValence = map[string]int{
	"B": 3, "C": 4, "N": 3, "O": 2, "P": 3, "S": 2,
	"F": 1, "Cl": 1, "Br": 1, "I": 1,
}

// organicSubset lists atoms writable without brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSubset lists atoms writable in aromatic lower-case form.
var aromaticSubset = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
}

var bracketAtomRe = regexp.MustCompile(`^\[(\d+)?([A-Za-z][a-z]?|\*)(@{1,2})?(H\d*)?([+-]+\d*)?(?::\d+)?\]$`)

// ringBondRef tracks the first endpoint of a numbered ring-closure bond.
type ringBondRef struct {
	atom     int
	order    int
	aromatic bool
	explicit bool
}

// ParseSMILES parses a SMILES string into a molecular graph.  It understands
// the organic subset, bracket atoms with charge and hydrogen counts, single,
// double, triple, and aromatic bonds, branches, numbered ring closures
// (including %nn labels), and dot-separated fragments.
//
// A structure that cannot be parsed yields an ErrCodeChemInvalidSMILES or
// ErrCodeChemParsingFailed error; callers in the scoring path recover by
// assigning the structure a zero score.
func ParseSMILES(smiles string) (*Molecule, error) {
	smiles = strings.TrimSpace(smiles)
	if smiles == "" {
		return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "SMILES string cannot be empty")
	}

	m := &Molecule{SMILES: smiles}

	var (
		prev        = -1 // atom awaiting a bond to the next atom; -1 after '.'
		stack       []int
		rings       = map[string]ringBondRef{}
		bondOrder   = 0 // pending explicit bond order, 0 = none
		bondArom    = false
		havePending = false
	)

	addAtom := func(a Atom) {
		m.atoms = append(m.atoms, a)
		m.adj = append(m.adj, nil)
		idx := len(m.atoms) - 1
		if prev >= 0 {
			order, aromatic := resolveBond(bondOrder, bondArom, havePending, m.atoms[prev], a)
			m.addBond(prev, idx, order, aromatic)
		}
		prev = idx
		bondOrder, bondArom, havePending = 0, false, false
	}

	closeRing := func(label string) error {
		ref, open := rings[label]
		if !open {
			rings[label] = ringBondRef{atom: prev, order: bondOrder, aromatic: bondArom, explicit: havePending}
			bondOrder, bondArom, havePending = 0, false, false
			return nil
		}
		delete(rings, label)
		if ref.atom == prev {
			return errors.New(errors.ErrCodeChemInvalidSMILES, "ring bond to self").
				WithDetail("label=" + label)
		}
		order, aromatic := 1, false
		switch {
		case havePending:
			order, aromatic = bondOrder, bondArom
		case ref.explicit:
			order, aromatic = ref.order, ref.aromatic
		case m.atoms[ref.atom].Aromatic && m.atoms[prev].Aromatic:
			aromatic = true
		}
		m.addBond(ref.atom, prev, order, aromatic)
		bondOrder, bondArom, havePending = 0, false, false
		return nil
	}

	for _, tok := range Tokenize(smiles) {
		switch {
		case tok == "":
			continue

		case tok[0] == '[':
			atom, err := parseBracketAtom(tok)
			if err != nil {
				return nil, err
			}
			addAtom(atom)

		case tok == "(":
			if prev < 0 {
				return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "branch before any atom")
			}
			stack = append(stack, prev)

		case tok == ")":
			if len(stack) == 0 {
				return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "unmatched closing parenthesis")
			}
			prev = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

		case tok == "-":
			bondOrder, bondArom, havePending = 1, false, true
		case tok == "=":
			bondOrder, bondArom, havePending = 2, false, true
		case tok == "#":
			bondOrder, bondArom, havePending = 3, false, true
		case tok == ":":
			bondOrder, bondArom, havePending = 1, true, true
		case tok == "/" || tok == "\\":
			// Stereo bonds are treated as plain single bonds.
			bondOrder, bondArom, havePending = 1, false, true

		case tok == ".":
			prev = -1

		case tok[0] == '%':
			if prev < 0 {
				return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "ring closure before any atom")
			}
			if err := closeRing(tok[1:]); err != nil {
				return nil, err
			}

		case tok[0] >= '0' && tok[0] <= '9':
			if prev < 0 {
				return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "ring closure before any atom")
			}
			if err := closeRing(tok); err != nil {
				return nil, err
			}

		case tok == "*":
			addAtom(Atom{Symbol: "*"})

		case organicSubset[tok]:
			addAtom(Atom{Symbol: tok})

		case len(tok) == 1 && aromaticSubset[tok]:
			addAtom(Atom{Symbol: strings.ToUpper(tok), Aromatic: true})

		default:
			return nil, errors.New(errors.ErrCodeChemParsingFailed, "unrecognised SMILES token").
				WithDetail("token=" + tok)
		}
	}

	if len(stack) != 0 {
		return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "unclosed branch parenthesis")
	}
	if len(rings) != 0 {
		return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "unclosed ring bond")
	}
	if len(m.atoms) == 0 {
		return nil, errors.New(errors.ErrCodeChemInvalidSMILES, "no atoms in SMILES")
	}

	m.markRings()
	m.assignImplicitHydrogens()
	return m, nil
}

// resolveBond decides the order of the bond between two consecutive atoms
// when no explicit bond symbol was written: aromatic if both atoms are
// aromatic, single otherwise.
func resolveBond(pendingOrder int, pendingArom, explicit bool, a, b Atom) (int, bool) {
	if explicit {
		return pendingOrder, pendingArom
	}
	if a.Aromatic && b.Aromatic {
		return 1, true
	}
	return 1, false
}

func parseBracketAtom(tok string) (Atom, error) {
	mres := bracketAtomRe.FindStringSubmatch(tok)
	if mres == nil {
		return Atom{}, errors.New(errors.ErrCodeChemInvalidSMILES, "malformed bracket atom").
			WithDetail("token=" + tok)
	}
	sym := mres[2]
	aromatic := false
	if len(sym) <= 2 && sym == strings.ToLower(sym) && sym != "*" {
		aromatic = true
		sym = strings.ToUpper(sym[:1]) + sym[1:]
	}

	hCount := 0
	if h := mres[4]; h != "" {
		if h == "H" {
			// "[nH]" style: H without a digit means one hydrogen.
			hCount = 1
		} else {
			n, err := strconv.Atoi(h[1:])
			if err != nil {
				return Atom{}, errors.New(errors.ErrCodeChemInvalidSMILES, "malformed hydrogen count").
					WithDetail("token=" + tok)
			}
			hCount = n
		}
	}

	charge := 0
	if c := mres[5]; c != "" {
		sign := 1
		if c[0] == '-' {
			sign = -1
		}
		if digits := strings.TrimLeft(c, "+-"); digits != "" {
			n, _ := strconv.Atoi(digits)
			charge = sign * n
		} else {
			charge = sign * strings.Count(c, string(c[0]))
		}
	}

	return Atom{Symbol: sym, Aromatic: aromatic, Charge: charge, HCount: hCount, Bracket: true}, nil
}

func (m *Molecule) addBond(a, b, order int, aromatic bool) {
	m.bonds = append(m.bonds, Bond{A: a, B: b, Order: order, Aromatic: aromatic})
	idx := len(m.bonds) - 1
	m.adj[a] = append(m.adj[a], idx)
	m.adj[b] = append(m.adj[b], idx)
}

// markRings flags every bond that lies on a cycle, and every atom incident
// to such a bond.  A bond is a ring bond iff its endpoints stay connected
// after removing it.
func (m *Molecule) markRings() {
	for bi := range m.bonds {
		b := &m.bonds[bi]
		if m.connectedWithout(b.A, b.B, bi) {
			b.InRing = true
			m.atoms[b.A].InRing = true
			m.atoms[b.B].InRing = true
		}
	}
}

// connectedWithout reports whether dst is reachable from src when the bond
// with index skip is removed.
func (m *Molecule) connectedWithout(src, dst, skip int) bool {
	visited := make([]bool, len(m.atoms))
	queue := []int{src}
	visited[src] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			return true
		}
		for _, bi := range m.adj[cur] {
			if bi == skip {
				continue
			}
			b := m.bonds[bi]
			next := b.A
			if next == cur {
				next = b.B
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// assignImplicitHydrogens derives hydrogen counts for organic-subset atoms
// from default valences.  Bracket atoms keep their explicit counts.
func (m *Molecule) assignImplicitHydrogens() {
	for i := range m.atoms {
		a := &m.atoms[i]
		if a.Bracket {
			continue // bracket atoms carry exact hydrogen counts
		}
		valence, ok := organicValence[a.Symbol]
		if !ok {
			continue
		}
		var sum float64
		for _, bi := range m.adj[i] {
			b := m.bonds[bi]
			if b.Aromatic {
				sum += 1.5
			} else {
				sum += float64(b.Order)
			}
		}
		h := valence - int(sum+0.5)
		if h > 0 {
			a.HCount = h
		}
	}
}

// NumAtoms returns the heavy-atom count.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns the atom at index i.
func (m *Molecule) Atom(i int) Atom { return m.atoms[i] }

// Bonds returns the bond list.  The returned slice must not be mutated.
func (m *Molecule) Bonds() []Bond { return m.bonds }

// Neighbors returns the atom indices adjacent to atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.adj[i]))
	for _, bi := range m.adj[i] {
		b := m.bonds[bi]
		if b.A == i {
			out = append(out, b.B)
		} else {
			out = append(out, b.A)
		}
	}
	return out
}

// Degree returns the heavy-atom degree of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }
