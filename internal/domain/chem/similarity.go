package chem

import (
	"math/bits"

	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Tanimoto computes the Tanimoto coefficient (Jaccard index) between two
// bit-vector fingerprints of equal dimension.  Two empty fingerprints have
// similarity zero.
func Tanimoto(fp1, fp2 *Fingerprint) (float64, error) {
	if fp1 == nil || fp2 == nil {
		return 0, errors.New(errors.ErrCodeChemSimilarityFailed, "nil fingerprint")
	}
	if fp1.NumBits != fp2.NumBits {
		return 0, errors.New(errors.ErrCodeChemSimilarityFailed, "fingerprints must have the same dimension")
	}

	intersection, union := 0, 0
	for i := range fp1.Bits {
		intersection += bits.OnesCount8(fp1.Bits[i] & fp2.Bits[i])
		union += bits.OnesCount8(fp1.Bits[i] | fp2.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// MaxTanimoto returns the highest Tanimoto similarity between target and
// any of the references.  An empty reference set yields zero.
func MaxTanimoto(target *Fingerprint, references []*Fingerprint) (float64, error) {
	best := 0.0
	for _, ref := range references {
		s, err := Tanimoto(target, ref)
		if err != nil {
			return 0, err
		}
		if s > best {
			best = s
		}
	}
	return best, nil
}
