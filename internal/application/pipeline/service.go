// Package pipeline wires the scoring engine together: parsing, component
// evaluation, aggregation, the alert penalty, diversity filtering and
// inception seeding, in that order.
package pipeline

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/internal/domain/chem"
	"github.com/turtacn/MolGen-Scoring/internal/domain/diversity"
	"github.com/turtacn/MolGen-Scoring/internal/domain/inception"
	"github.com/turtacn/MolGen-Scoring/internal/domain/scoring"
	"github.com/turtacn/MolGen-Scoring/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolGen-Scoring/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Service is the per-run scoring engine.  Construction validates the full
// configuration and scores the inception seeds; any error there is fatal
// and nothing has been mutated that outlives the Service.
type Service struct {
	cfg *config.Config

	components []componentScorer
	aggregator *scoring.Aggregator
	filter     *diversity.Filter
	memory     *inception.Memory

	logger  logging.Logger
	metrics *metrics.EngineMetrics

	runLabel         string
	parallel         bool
	concurrency      int
	componentTimeout time.Duration

	// last filter counters seen, to emit per-batch deltas
	lastAdmitted   int
	lastSuppressed int
}

// NewService builds the engine from an already validated configuration.
// Seeds are scored here, each against a pristine diversity filter, before
// the first generated batch can mutate filter state.
func NewService(ctx context.Context, cfg *config.Config, logger logging.Logger, em *metrics.EngineMetrics) (*Service, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if em == nil {
		em = metrics.NewEngineMetrics()
	}

	built, err := scoring.NewComponents(cfg.Scoring.Components)
	if err != nil {
		return nil, err
	}
	components := make([]componentScorer, len(built))
	for i, c := range built {
		components[i] = c
	}
	aggregator, err := scoring.NewAggregator(cfg.Scoring.CombinationRule)
	if err != nil {
		return nil, err
	}
	filter, err := diversity.NewFilter(cfg.Diversity)
	if err != nil {
		return nil, err
	}
	seed := cfg.Run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	memory, err := inception.NewMemory(cfg.Inception, seed)
	if err != nil {
		return nil, err
	}

	runLabel := cfg.Run.Label
	if runLabel == "" {
		runLabel = "run-" + uuid.NewString()[:8]
	}

	s := &Service{
		cfg:              cfg,
		components:       components,
		aggregator:       aggregator,
		filter:           filter,
		memory:           memory,
		logger:           logger.Named("pipeline").With(logging.String("run", runLabel)),
		metrics:          em,
		runLabel:         runLabel,
		parallel:         cfg.Scoring.Parallel,
		concurrency:      cfg.Worker.Concurrency,
		componentTimeout: cfg.Worker.ComponentTimeout,
	}

	if err := s.seedInception(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// RunLabel returns the label identifying this run in logs and exports.
func (s *Service) RunLabel() string { return s.runLabel }

// ComponentNames returns the configured component names in order.
func (s *Service) ComponentNames() []string {
	names := make([]string, 0, len(s.components))
	for _, c := range s.components {
		names = append(names, c.Name())
	}
	return names
}

// ScoreBatch scores one generated batch end to end.  The returned slice is
// order-preserving with the input; every structure carries its raw and
// transformed component values, the aggregate and the post-filter score.
func (s *Service) ScoreBatch(ctx context.Context, smiles []string) ([]*scoring.ScoredStructure, error) {
	start := time.Now()

	structures, mols, err := s.computeScores(ctx, smiles)
	if err != nil {
		return nil, err
	}

	batch := make([]diversity.Candidate, len(structures))
	for i := range structures {
		batch[i] = diversity.Candidate{Structure: structures[i], Mol: mols[i]}
	}
	s.filter.Apply(batch)

	for _, st := range structures {
		s.metrics.TotalScore.Observe(st.Final)
	}
	admitted, suppressed := s.filter.Stats()
	s.metrics.AdmittedStructures.Add(float64(admitted - s.lastAdmitted))
	s.metrics.SuppressedStructures.Add(float64(suppressed - s.lastSuppressed))
	s.lastAdmitted, s.lastSuppressed = admitted, suppressed
	s.metrics.DiversityBuckets.Set(float64(s.filter.NumBuckets()))
	s.metrics.BatchDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("batch scored",
		logging.Int("size", len(smiles)),
		logging.Int("buckets", s.filter.NumBuckets()),
		logging.Int("suppressed_total", suppressed),
		logging.Duration("took", time.Since(start)))
	return structures, nil
}

// computeScores runs parsing, component evaluation, aggregation and the
// alert penalty, leaving Final unset for the diversity filter.
func (s *Service) computeScores(ctx context.Context, smiles []string) ([]*scoring.ScoredStructure, []*chem.Molecule, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.metrics.StructuresScored.Add(float64(len(smiles)))

	structures := make([]*scoring.ScoredStructure, len(smiles))
	mols := make([]*chem.Molecule, len(smiles))
	for i, smi := range smiles {
		structures[i] = &scoring.ScoredStructure{
			ID:          uuid.NewString(),
			SMILES:      smi,
			Valid:       true,
			Raw:         make(map[string]float64, len(s.components)),
			Transformed: make(map[string]float64, len(s.components)),
		}
		mol, err := chem.ParseSMILES(smi)
		if err != nil {
			structures[i].Valid = false
			s.metrics.InvalidStructures.Inc()
			s.logger.Debug("structure failed to parse",
				logging.String("smiles", smi), logging.Err(err))
			continue
		}
		mols[i] = mol
	}

	outcomes := s.evaluate(ctx, mols)

	for si, st := range structures {
		if !st.Valid {
			continue
		}

		weighted := make([]scoring.WeightedScore, 0, len(s.components))
		for ci, comp := range s.components {
			o := outcomes[ci][si]
			if o.err != nil {
				st.Valid = false
				s.metrics.InvalidStructures.Inc()
				s.metrics.ComponentFailures.WithLabelValues(comp.Name()).Inc()
				s.logger.Warn("component failed on structure",
					logging.String("component", comp.Name()),
					logging.String("smiles", st.SMILES),
					logging.Err(o.err))
				break
			}
			st.Raw[comp.Name()] = o.raw
			st.Transformed[comp.Name()] = o.transformed
			if comp.Penalty() {
				if o.raw == 0 {
					st.AlertMatched = true
				}
				continue
			}
			weighted = append(weighted, scoring.WeightedScore{
				Name:   comp.Name(),
				Score:  o.transformed,
				Weight: comp.Weight(),
			})
		}
		if !st.Valid {
			continue
		}

		if st.AlertMatched {
			s.metrics.AlertMatches.Inc()
		}
		st.Total = scoring.ApplyAlertPenalty(s.aggregator.Combine(weighted), st.AlertMatched)
	}
	return structures, mols, nil
}

// seedInception scores every configured seed through the full pipeline
// against an empty diversity filter, then retains the best in memory.
// Seeds that fail to parse, score zero, or fall below the admission
// threshold are not retained; memory capacity is reserved for structures
// worth resampling.
func (s *Service) seedInception(ctx context.Context) error {
	smiles, err := s.collectSeeds()
	if err != nil {
		return err
	}
	if len(smiles) == 0 || s.cfg.Inception.MemorySize == 0 {
		return nil
	}

	structures, mols, err := s.computeScores(ctx, smiles)
	if err != nil {
		return err
	}

	seeds := make([]inception.Seed, 0, len(structures))
	for i, st := range structures {
		// Each seed sees a pristine filter: no occupancy from generated
		// batches or from other seeds.
		pristine, err := diversity.NewFilter(s.cfg.Diversity)
		if err != nil {
			return err
		}
		pristine.Apply([]diversity.Candidate{{Structure: st, Mol: mols[i]}})
		if !st.Valid {
			s.logger.Warn("seed structure rejected", logging.String("smiles", st.SMILES))
			continue
		}
		if st.Final == 0 {
			s.logger.Debug("seed scored zero, not retained",
				logging.String("smiles", st.SMILES))
			continue
		}
		seeds = append(seeds, inception.Seed{SMILES: st.SMILES, Score: st.Final})
	}
	s.memory.Add(seeds...)
	s.metrics.InceptionSeeds.Set(float64(s.memory.Len()))

	s.logger.Info("inception memory seeded",
		logging.Int("offered", len(smiles)),
		logging.Int("retained", s.memory.Len()))
	return nil
}

// collectSeeds merges the inline seed list with the optional seed file.
func (s *Service) collectSeeds() ([]string, error) {
	seeds := append([]string(nil), s.cfg.Inception.SMILES...)
	if s.cfg.Inception.SMILESFile == "" {
		return seeds, nil
	}

	f, err := os.Open(s.cfg.Inception.SMILESFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInceptionInvalidConfig,
			"failed to open seed file").WithDetail(s.cfg.Inception.SMILESFile)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInceptionInvalidConfig,
			"failed to read seed file").WithDetail(s.cfg.Inception.SMILESFile)
	}
	return seeds, nil
}

// SampleSeeds draws the configured sample of seed structures for the next
// generation epoch.  Memory contents are unchanged across calls.
func (s *Service) SampleSeeds() []inception.Seed {
	return s.memory.Sample(s.cfg.Inception.SampleSize)
}

// MemoryLen returns the number of retained inception seeds.
func (s *Service) MemoryLen() int { return s.memory.Len() }

// InsertSeeds re-inserts newly high-scoring structures into inception
// memory, truncating back to capacity.
func (s *Service) InsertSeeds(seeds ...inception.Seed) {
	s.memory.Add(seeds...)
	s.metrics.InceptionSeeds.Set(float64(s.memory.Len()))
}

// ExportLedger writes the diversity-filter ledger as CSV.
func (s *Service) ExportLedger(w io.Writer) error {
	return s.filter.ExportCSV(w, s.runLabel, s.ComponentNames())
}
