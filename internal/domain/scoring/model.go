package scoring

import (
	"encoding/json"
	"math"
	"os"
	"strconv"

	"github.com/turtacn/MolGen-Scoring/internal/domain/chem"
	"github.com/turtacn/MolGen-Scoring/pkg/errors"
)

// Property model kinds accepted in the JSON artifact.
const (
	ModelKindLinear   = "linear"
	ModelKindLogistic = "logistic"
)

// modelArtifact is the on-disk shape of a predictive-property model: a
// sparse linear form over circular-fingerprint bits, optionally squashed
// through a logistic link.  Coefficient keys are decimal bit indices.
type modelArtifact struct {
	Kind         string             `json:"kind"`
	Radius       int                `json:"radius"`
	NumBits      int                `json:"num_bits"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// propertyModel is a loaded, validated model ready for prediction.
type propertyModel struct {
	kind      string
	radius    int
	numBits   int
	intercept float64
	coefs     map[int]float64
}

// loadPropertyModel reads and validates the model artifact at path.  Any
// failure here is fatal: a component whose model cannot be loaded must
// abort the run at startup, never per structure.
func loadPropertyModel(path string) (*propertyModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeScoreModelNotLoaded,
			"failed to read model artifact").WithDetail(path)
	}

	var art modelArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeScoreModelInvalid,
			"model artifact is not valid JSON").WithDetail(path)
	}
	if art.Kind != ModelKindLinear && art.Kind != ModelKindLogistic {
		return nil, errors.New(errors.ErrCodeScoreModelInvalid,
			"model kind must be linear or logistic").WithDetail(art.Kind)
	}
	if art.Radius < 0 {
		return nil, errors.New(errors.ErrCodeScoreModelInvalid, "model radius must be >= 0")
	}
	if art.Radius == 0 {
		art.Radius = chem.DefaultFingerprintRadius
	}
	if art.NumBits <= 0 {
		art.NumBits = chem.DefaultFingerprintBits
	}

	m := &propertyModel{
		kind:      art.Kind,
		radius:    art.Radius,
		numBits:   art.NumBits,
		intercept: art.Intercept,
		coefs:     make(map[int]float64, len(art.Coefficients)),
	}
	for key, coef := range art.Coefficients {
		bit, convErr := strconv.Atoi(key)
		if convErr != nil || bit < 0 || bit >= art.NumBits {
			return nil, errors.New(errors.ErrCodeScoreModelInvalid,
				"model coefficient key is not a valid bit index").WithDetail(key)
		}
		m.coefs[bit] = coef
	}
	return m, nil
}

// predict returns the model output for one structure: the linear form for
// kind linear, the logistic squash of it for kind logistic.
func (m *propertyModel) predict(mol *chem.Molecule) float64 {
	fp := mol.MorganFingerprint(m.radius, m.numBits)
	z := m.intercept
	for bit, coef := range m.coefs {
		if fp.GetBit(bit) {
			z += coef
		}
	}
	if m.kind == ModelKindLogistic {
		return 1 / (1 + math.Exp(-z))
	}
	return z
}
