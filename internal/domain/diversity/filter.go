// Package diversity implements the run-scoped scaffold-bucket filter that
// suppresses the scores of over-sampled structural families.  Bucket
// occupancy only ever grows; a saturated bucket stays saturated for the
// rest of the run.
package diversity

import (
	"sync"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/internal/domain/chem"
	"github.com/turtacn/MolGen-Scoring/internal/domain/scoring"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Bucketing strategies.
const (
	StrategyScaffold           = "scaffold"
	StrategyScaffoldSimilarity = "scaffold_similarity"
	StrategyIdentical          = "identical"
	StrategyNone               = "none"
)

// Member is one admitted structure inside a bucket.
type Member struct {
	ID          string
	SMILES      string
	Score       float64
	Transformed map[string]float64
}

type bucket struct {
	signature   string
	fingerprint *chem.Fingerprint // scaffold fingerprint, scaffold_similarity only
	members     []Member
}

func (b *bucket) saturated(nbMax int) bool {
	return len(b.members) >= nbMax
}

// Candidate pairs a scored structure with its parsed form for filtering.
type Candidate struct {
	Structure *scoring.ScoredStructure
	Mol       *chem.Molecule
}

// Filter is the per-run diversity filter.  Apply serialises batches under
// a single-writer lock; all other methods take read snapshots.
type Filter struct {
	mu sync.Mutex

	strategy      string
	nbMax         int
	minScore      float64
	minSimilarity float64

	buckets map[string]*bucket
	order   []string // bucket creation order, for deterministic export
	ledger  []ledgerEntry

	admitted   int
	suppressed int
}

// NewFilter builds the filter for one run.  Configuration violations are
// fatal before any batch is processed.
func NewFilter(cfg config.DiversityFilterConfig) (*Filter, error) {
	switch cfg.Name {
	case StrategyScaffold, StrategyScaffoldSimilarity, StrategyIdentical, StrategyNone:
	default:
		return nil, errors.New(errors.ErrCodeDiversityInvalidConfig,
			"unknown diversity filter strategy").WithDetail(cfg.Name)
	}
	if cfg.NbMax < 1 {
		return nil, errors.New(errors.ErrCodeDiversityInvalidConfig, "nbmax must be >= 1")
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return nil, errors.New(errors.ErrCodeDiversityInvalidConfig, "minscore must be in [0, 1]")
	}
	if cfg.MinSimilarity < 0 || cfg.MinSimilarity > 1 {
		return nil, errors.New(errors.ErrCodeDiversityInvalidConfig, "minsimilarity must be in [0, 1]")
	}

	return &Filter{
		strategy:      cfg.Name,
		nbMax:         cfg.NbMax,
		minScore:      cfg.MinScore,
		minSimilarity: cfg.MinSimilarity,
		buckets:       make(map[string]*bucket),
	}, nil
}

// Apply admits or suppresses every candidate in batch order, setting each
// structure's Final score.  Admission is order-sensitive within the batch:
// when two candidates share a bucket with one slot left, only the earlier
// one is admitted.  Invalid structures score zero and are never recorded.
func (f *Filter) Apply(batch []Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, cand := range batch {
		s := cand.Structure
		if !s.Valid {
			s.Final = 0
			continue
		}
		if f.strategy == StrategyNone {
			s.Final = s.Total
			continue
		}
		if s.Total < f.minScore {
			s.Final = 0
			f.suppressed++
			continue
		}

		b := f.bucketFor(cand.Mol)
		if b.saturated(f.nbMax) {
			s.Final = 0
			f.suppressed++
			continue
		}

		m := Member{
			ID:          s.ID,
			SMILES:      s.SMILES,
			Score:       s.Total,
			Transformed: s.Transformed,
		}
		b.members = append(b.members, m)
		f.ledger = append(f.ledger, ledgerEntry{signature: b.signature, member: m})
		s.Final = s.Total
		f.admitted++
	}
}

// bucketFor resolves the candidate's bucket, creating it when absent.
// Caller holds the lock.
func (f *Filter) bucketFor(mol *chem.Molecule) *bucket {
	var sig string
	switch f.strategy {
	case StrategyIdentical:
		sig = mol.Signature()
	default:
		sig = mol.ScaffoldSignature()
	}

	if b, ok := f.buckets[sig]; ok {
		return b
	}

	var fp *chem.Fingerprint
	if f.strategy == StrategyScaffoldSimilarity {
		fp = mol.Scaffold().MorganFingerprint(chem.DefaultFingerprintRadius, chem.DefaultFingerprintBits)
		if merged := f.mostSimilar(fp); merged != nil {
			return merged
		}
	}

	b := &bucket{signature: sig, fingerprint: fp}
	f.buckets[sig] = b
	f.order = append(f.order, sig)
	return b
}

// mostSimilar returns the existing bucket whose scaffold fingerprint is
// most similar to fp, provided the similarity reaches minSimilarity.  Ties
// resolve to the lexicographically smallest signature so that bucket
// assignment is independent of map iteration order.
func (f *Filter) mostSimilar(fp *chem.Fingerprint) *bucket {
	best := (*bucket)(nil)
	bestSim := -1.0
	for _, sig := range f.order {
		b := f.buckets[sig]
		if b.fingerprint == nil {
			continue
		}
		sim, err := chem.Tanimoto(fp, b.fingerprint)
		if err != nil || sim < f.minSimilarity {
			continue
		}
		if sim > bestSim || (sim == bestSim && sig < best.signature) {
			best = b
			bestSim = sim
		}
	}
	return best
}

// Occupancy returns the member count of the bucket for signature.
func (f *Filter) Occupancy(signature string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.buckets[signature]; ok {
		return len(b.members)
	}
	return 0
}

// NumBuckets returns the number of buckets created so far.
func (f *Filter) NumBuckets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buckets)
}

// Stats returns the running admitted and suppressed counts.
func (f *Filter) Stats() (admitted, suppressed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admitted, f.suppressed
}
