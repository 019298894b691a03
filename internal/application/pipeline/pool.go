package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/MolGen-Scoring/internal/domain/chem"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// componentScorer is what the pool needs from a scoring component.
// *scoring.Component is the production implementation.
type componentScorer interface {
	Name() string
	Weight() float64
	Penalty() bool
	Score(mol *chem.Molecule) (raw, transformed float64, err error)
}

// evalOutcome is the result of one (component, structure) evaluation.
type evalOutcome struct {
	raw         float64
	transformed float64
	err         error
}

// evaluate runs every component against every parsed structure, one task
// per (component, structure), bounded by the configured concurrency.  The
// result matrix is order-preserving: out[ci][si] belongs to component ci
// and structure si.  Nil molecules (failed parses) are skipped.
func (s *Service) evaluate(ctx context.Context, mols []*chem.Molecule) [][]evalOutcome {
	out := make([][]evalOutcome, len(s.components))
	for ci := range out {
		out[ci] = make([]evalOutcome, len(mols))
	}

	concurrency := s.concurrency
	if !s.parallel {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for ci, comp := range s.components {
		start := time.Now()
		for si, mol := range mols {
			if mol == nil {
				continue
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				out[ci][si] = evalOutcome{err: ctx.Err()}
				continue
			}
			wg.Add(1)
			go func(ci, si int, comp componentScorer, mol *chem.Molecule) {
				defer wg.Done()
				defer func() { <-sem }()
				out[ci][si] = scoreOne(comp, mol, s.componentTimeout)
			}(ci, si, comp, mol)
		}
		wg.Wait()
		s.metrics.ComponentDuration.WithLabelValues(comp.Name()).Observe(time.Since(start).Seconds())
	}
	return out
}

// scoreOne evaluates one component on one structure with panic recovery
// and the optional per-evaluation timeout.  A panicking component fails
// that structure only, never the batch.
func scoreOne(comp componentScorer, mol *chem.Molecule, timeout time.Duration) evalOutcome {
	if timeout <= 0 {
		return scoreGuarded(comp, mol)
	}

	done := make(chan evalOutcome, 1)
	go func() {
		done <- scoreGuarded(comp, mol)
	}()
	select {
	case o := <-done:
		return o
	case <-time.After(timeout):
		return evalOutcome{err: errors.New(errors.ErrCodeScoreEvaluationTimeout,
			"component evaluation timed out").WithDetail(comp.Name())}
	}
}

func scoreGuarded(comp componentScorer, mol *chem.Molecule) (o evalOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o = evalOutcome{err: errors.New(errors.ErrCodeScoreComponentFailed,
				"component panicked").WithDetail(fmt.Sprintf("%s: %v", comp.Name(), r))}
		}
	}()
	raw, transformed, err := comp.Score(mol)
	return evalOutcome{raw: raw, transformed: transformed, err: err}
}
