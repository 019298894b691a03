package chem

// Atomic masses for the elements the parser accepts, plus a generic value
// for anything exotic that arrives in bracket form.
var atomicMass = map[string]float64{
	"H": 1.008, "B": 10.811, "C": 12.011, "N": 14.007, "O": 15.999,
	"F": 18.998, "P": 30.974, "S": 32.065, "Cl": 35.453, "Br": 79.904,
	"I": 126.904, "Si": 28.086, "Se": 78.971, "*": 0,
}

const defaultAtomicMass = 12.011

// MolecularWeight returns the molecular weight in Daltons, including
// implicit and explicit hydrogens.
func (m *Molecule) MolecularWeight() float64 {
	var w float64
	for _, a := range m.atoms {
		mass, ok := atomicMass[a.Symbol]
		if !ok {
			mass = defaultAtomicMass
		}
		w += mass + float64(a.HCount)*atomicMass["H"]
	}
	return w
}

// NumRotatableBonds counts single, non-ring, non-aromatic bonds whose
// endpoints both carry at least one other heavy-atom neighbour.  Terminal
// bonds do not rotate anything and are excluded.
func (m *Molecule) NumRotatableBonds() int {
	n := 0
	for _, b := range m.bonds {
		if b.Order != 1 || b.Aromatic || b.InRing {
			continue
		}
		if m.Degree(b.A) < 2 || m.Degree(b.B) < 2 {
			continue
		}
		n++
	}
	return n
}

func isHBondCarrier(sym string) bool { return sym == "N" || sym == "O" }

// NumHBDonors counts nitrogen and oxygen atoms bearing at least one
// hydrogen.
func (m *Molecule) NumHBDonors() int {
	n := 0
	for _, a := range m.atoms {
		if isHBondCarrier(a.Symbol) && a.HCount > 0 {
			n++
		}
	}
	return n
}

// NumHBAcceptors counts nitrogen and oxygen atoms.
func (m *Molecule) NumHBAcceptors() int {
	n := 0
	for _, a := range m.atoms {
		if isHBondCarrier(a.Symbol) {
			n++
		}
	}
	return n
}

// Polar-surface-area contributions per polar-atom environment, a condensed
// form of the usual fragment table.  Values are in Å².
const (
	psaNWithH    = 26.02
	psaN         = 12.36
	psaNAromatic = 12.89
	psaOWithH    = 20.23
	psaO         = 17.07
	psaOAromatic = 13.14
	psaS         = 25.30
	psaP         = 13.59
)

// TPSA returns an approximate topological polar surface area computed from
// per-atom contributions of nitrogen, oxygen, sulfur, and phosphorus.
func (m *Molecule) TPSA() float64 {
	var area float64
	for _, a := range m.atoms {
		switch a.Symbol {
		case "N":
			switch {
			case a.HCount > 0:
				area += psaNWithH
			case a.Aromatic:
				area += psaNAromatic
			default:
				area += psaN
			}
		case "O":
			switch {
			case a.HCount > 0:
				area += psaOWithH
			case a.Aromatic:
				area += psaOAromatic
			default:
				area += psaO
			}
		case "S":
			area += psaS
		case "P":
			area += psaP
		}
	}
	return area
}

// NumAromaticAtoms counts atoms written in aromatic form.
func (m *Molecule) NumAromaticAtoms() int {
	n := 0
	for _, a := range m.atoms {
		if a.Aromatic {
			n++
		}
	}
	return n
}

// NumRingBonds counts bonds that lie on a cycle.
func (m *Molecule) NumRingBonds() int {
	n := 0
	for _, b := range m.bonds {
		if b.InRing {
			n++
		}
	}
	return n
}
