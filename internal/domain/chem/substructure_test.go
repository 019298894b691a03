package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hasSub(t *testing.T, target, pattern string) bool {
	t.Helper()
	return mustParse(t, target).HasSubstructure(mustParse(t, pattern))
}

func TestHasSubstructure_Basics(t *testing.T) {
	tests := []struct {
		target  string
		pattern string
		want    bool
	}{
		// Carbonyl in acetic acid.
		{"CC(=O)O", "C=O", true},
		// No nitrile anywhere in acetic acid.
		{"CC(=O)O", "C#N", false},
		// Benzene ring inside toluene.
		{"Cc1ccccc1", "c1ccccc1", true},
		// Aliphatic ring does not match an aromatic one.
		{"C1CCCCC1", "c1ccccc1", false},
		// Carboxylic acid written in either direction.
		{"OC(=O)CCc1ccccc1", "C(=O)O", true},
		// Ether oxygen.
		{"COC", "COC", true},
		// Pattern larger than target can never match.
		{"CC", "CCC", false},
		// Amide.
		{"CC(=O)NC", "C(=O)N", true},
		{"CC(=O)OC", "C(=O)N", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasSub(t, tt.target, tt.pattern),
			"target=%s pattern=%s", tt.target, tt.pattern)
	}
}

func TestHasSubstructure_Wildcard(t *testing.T) {
	// "*" matches any atom: X-C=O for any X.
	assert.True(t, hasSub(t, "ClC(=O)C", "*C=O"))
	assert.True(t, hasSub(t, "NC(=O)C", "*C=O"))
}

func TestHasSubstructure_ChargedAtoms(t *testing.T) {
	// A charged pattern atom requires a matching charge.
	assert.True(t, hasSub(t, "C[NH3+]", "[NH3+]"))
	assert.False(t, hasSub(t, "CN", "[NH3+]"))
}

func TestHasSubstructure_BondOrders(t *testing.T) {
	assert.True(t, hasSub(t, "C=CC", "C=C"))
	assert.False(t, hasSub(t, "CCC", "C=C"))
	assert.True(t, hasSub(t, "C#CC", "C#C"))
}

func TestHasSubstructure_NilAndEmpty(t *testing.T) {
	m := mustParse(t, "CCO")
	assert.False(t, m.HasSubstructure(nil))
}
