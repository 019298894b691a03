package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		smiles string
		want   []string
	}{
		{"CCO", []string{"C", "C", "O"}},
		{"CCl", []string{"C", "Cl"}},
		{"BrCBr", []string{"Br", "C", "Br"}},
		{"c1ccccc1", []string{"c", "1", "c", "c", "c", "c", "c", "1"}},
		{"C[NH2+]C", []string{"C", "[NH2+]", "C"}},
		{"C%12CC%12", []string{"C", "%12", "C", "C", "%12"}},
		{"CC(=O)O", []string{"C", "C", "(", "=", "O", ")", "O"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.smiles), "smiles=%s", tt.smiles)
	}
}

func TestTokenize_BracketAtomIsOneToken(t *testing.T) {
	tokens := Tokenize("[13CH4]")
	assert.Equal(t, []string{"[13CH4]"}, tokens)
}
