package scoring

// ScoredStructure carries one candidate structure through the scoring
// pipeline: the raw and transformed value of every component, the
// aggregate with the alert penalty already applied, and the final score
// after diversity filtering.
type ScoredStructure struct {
	// ID uniquely identifies the structure within the run.
	ID string

	// SMILES is the structure as submitted.
	SMILES string

	// Valid is false when the structure could not be parsed or a component
	// failed on it; invalid structures score zero and are excluded from
	// diversity-filter recording.
	Valid bool

	// Raw maps component name to the untransformed value.
	Raw map[string]float64

	// Transformed maps component name to the normalised [0,1] value.
	Transformed map[string]float64

	// AlertMatched is true when any disallowed pattern matched.
	AlertMatched bool

	// Total is the aggregate over weighted components, halved once if
	// AlertMatched, before diversity filtering.
	Total float64

	// Final is the score after diversity filtering: Total when admitted,
	// zero when suppressed.
	Final float64
}

// WeightedScore is one component's transformed score with its weight, as
// fed to the aggregator.
type WeightedScore struct {
	Name   string
	Score  float64
	Weight float64
}
