package scoring

import (
	"github.com/turtacn/MolGen-Scoring/internal/config"
	"github.com/turtacn/MolGen-Scoring/internal/domain/chem"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Component kinds.  The set is closed: NewComponent rejects anything else
// at startup, so misconfigured kinds never reach the scoring path.
const (
	KindPredictiveProperty   = "predictive_property"
	KindTanimotoSimilarity   = "tanimoto_similarity"
	KindMatchingSubstructure = "matching_substructure"
	KindCustomAlerts         = "custom_alerts"
	KindNumRotatableBonds    = "num_rotatable_bonds"
	KindNumHBDonors          = "num_hb_donors"
	KindTPSA                 = "tpsa"
	KindMolecularWeight      = "molecular_weight"
)

// evaluator produces the raw, untransformed value of one component for one
// parsed structure.
type evaluator interface {
	raw(mol *chem.Molecule) (float64, error)
}

// Component is one configured scoring rule: an evaluator producing raw
// values, a transform normalising them, and a weight.  Immutable after
// construction and safe for concurrent use.
type Component struct {
	name      string
	kind      string
	weight    float64
	transform Transform
	eval      evaluator
	penalty   bool
}

// NewComponent builds the component described by cfg.  All configuration
// problems (unknown kind, negative weight, bad transform parameters,
// unparsable patterns, missing model artifact) are fatal here, before any
// structure is scored.
func NewComponent(cfg config.ComponentConfig) (*Component, error) {
	if cfg.Weight < 0 {
		return nil, errors.New(errors.ErrCodeScoreInvalidWeight,
			"component weight must be >= 0").WithDetail(cfg.Name)
	}

	transform, err := NewTransform(cfg.Transform)
	if err != nil {
		return nil, err
	}

	c := &Component{
		name:      cfg.Name,
		kind:      cfg.Type,
		weight:    cfg.Weight,
		transform: transform,
	}

	switch cfg.Type {
	case KindPredictiveProperty:
		if cfg.ModelPath == "" {
			return nil, errors.New(errors.ErrCodeScoreModelNotLoaded,
				"predictive_property component requires model_path").WithDetail(cfg.Name)
		}
		model, err := loadPropertyModel(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		c.eval = &propertyEvaluator{model: model}

	case KindTanimotoSimilarity:
		refs, err := referenceFingerprints(cfg.ReferenceSMILES)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid,
				"tanimoto_similarity reference set is invalid").WithDetail(cfg.Name)
		}
		c.eval = &similarityEvaluator{references: refs}

	case KindMatchingSubstructure:
		patterns, err := compilePatterns(cfg.Patterns)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid,
				"matching_substructure pattern set is invalid").WithDetail(cfg.Name)
		}
		c.eval = &substructureEvaluator{patterns: patterns, miss: 0.5}

	case KindCustomAlerts:
		patterns, err := compilePatterns(cfg.Patterns)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid,
				"custom_alerts pattern set is invalid").WithDetail(cfg.Name)
		}
		c.eval = &alertEvaluator{patterns: patterns}
		c.penalty = true

	case KindNumRotatableBonds:
		c.eval = descriptorFunc(func(m *chem.Molecule) float64 {
			return float64(m.NumRotatableBonds())
		})

	case KindNumHBDonors:
		c.eval = descriptorFunc(func(m *chem.Molecule) float64 {
			return float64(m.NumHBDonors())
		})

	case KindTPSA:
		c.eval = descriptorFunc((*chem.Molecule).TPSA)

	case KindMolecularWeight:
		c.eval = descriptorFunc((*chem.Molecule).MolecularWeight)

	default:
		return nil, errors.New(errors.ErrCodeScoreUnknownComponent,
			"unknown component type").WithDetail(cfg.Type)
	}

	return c, nil
}

// Name returns the unique component name.
func (c *Component) Name() string { return c.name }

// Kind returns the component kind.
func (c *Component) Kind() string { return c.kind }

// Weight returns the aggregation weight.
func (c *Component) Weight() float64 { return c.weight }

// Penalty reports whether the component is applied as a post-aggregation
// penalty instead of a weighted contributor.
func (c *Component) Penalty() bool { return c.penalty }

// Score evaluates one structure, returning the raw value and its
// transformed [0,1] counterpart.  Evaluation errors are per structure and
// never fatal.
func (c *Component) Score(mol *chem.Molecule) (raw, transformed float64, err error) {
	raw, err = c.eval.raw(mol)
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.ErrCodeScoreComponentFailed,
			"component evaluation failed").WithDetail(c.name)
	}
	return raw, c.transform(raw), nil
}

// NewComponents builds every configured component, enforcing the startup
// failure policy: the first invalid component aborts construction.
func NewComponents(cfgs []config.ComponentConfig) ([]*Component, error) {
	out := make([]*Component, 0, len(cfgs))
	for _, cfg := range cfgs {
		c, err := NewComponent(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

type propertyEvaluator struct {
	model *propertyModel
}

func (e *propertyEvaluator) raw(mol *chem.Molecule) (float64, error) {
	return e.model.predict(mol), nil
}

type similarityEvaluator struct {
	references []*chem.Fingerprint
}

func (e *similarityEvaluator) raw(mol *chem.Molecule) (float64, error) {
	fp := mol.MorganFingerprint(chem.DefaultFingerprintRadius, chem.DefaultFingerprintBits)
	return chem.MaxTanimoto(fp, e.references)
}

// substructureEvaluator rewards structures containing any of the wanted
// patterns with 1 and everything else with miss.
type substructureEvaluator struct {
	patterns []*chem.Molecule
	miss     float64
}

func (e *substructureEvaluator) raw(mol *chem.Molecule) (float64, error) {
	for _, p := range e.patterns {
		if mol.HasSubstructure(p) {
			return 1, nil
		}
	}
	return e.miss, nil
}

// alertEvaluator scores 0 when any disallowed pattern matches, 1 otherwise.
// A single match is sufficient; matches are not counted.
type alertEvaluator struct {
	patterns []*chem.Molecule
}

func (e *alertEvaluator) raw(mol *chem.Molecule) (float64, error) {
	for _, p := range e.patterns {
		if mol.HasSubstructure(p) {
			return 0, nil
		}
	}
	return 1, nil
}

// descriptorFunc adapts a pure descriptor function into an evaluator.
type descriptorFunc func(*chem.Molecule) float64

func (f descriptorFunc) raw(mol *chem.Molecule) (float64, error) {
	return f(mol), nil
}

func compilePatterns(patterns []string) ([]*chem.Molecule, error) {
	if len(patterns) == 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "at least one pattern is required")
	}
	out := make([]*chem.Molecule, 0, len(patterns))
	for _, p := range patterns {
		mol, err := chem.ParseSMILES(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mol)
	}
	return out, nil
}

func referenceFingerprints(smiles []string) ([]*chem.Fingerprint, error) {
	if len(smiles) == 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			"at least one reference structure is required")
	}
	out := make([]*chem.Fingerprint, 0, len(smiles))
	for _, s := range smiles {
		mol, err := chem.ParseSMILES(s)
		if err != nil {
			return nil, err
		}
		out = append(out, mol.MorganFingerprint(chem.DefaultFingerprintRadius, chem.DefaultFingerprintBits))
	}
	return out, nil
}
