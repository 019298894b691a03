package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeConflict       ErrorCode = "COMMON_004"
	ErrCodeTimeout        ErrorCode = "COMMON_005"
	ErrCodeValidation     ErrorCode = "COMMON_006"
	ErrCodeSerialization  ErrorCode = "COMMON_007"
	ErrCodeNotImplemented ErrorCode = "COMMON_008"
)

// Aliases used by the factory helpers in errors.go.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeValidation     = ErrCodeValidation
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")
)

// Chemistry Error Codes: SMILES handling, descriptors, fingerprints.
const (
	ErrCodeChemInvalidSMILES          ErrorCode = "CHEM_001"
	ErrCodeChemParsingFailed          ErrorCode = "CHEM_002"
	ErrCodeChemFingerprintFailed      ErrorCode = "CHEM_003"
	ErrCodeChemFingerprintUnsupported ErrorCode = "CHEM_004"
	ErrCodeChemScaffoldFailed         ErrorCode = "CHEM_005"
	ErrCodeChemSimilarityFailed       ErrorCode = "CHEM_006"
)

// Scoring Error Codes: components, transforms, aggregation.
const (
	ErrCodeScoreUnknownComponent  ErrorCode = "SCORE_001"
	ErrCodeScoreUnknownTransform  ErrorCode = "SCORE_002"
	ErrCodeScoreInvalidWeight     ErrorCode = "SCORE_003"
	ErrCodeScoreComponentFailed   ErrorCode = "SCORE_004"
	ErrCodeScoreModelNotLoaded    ErrorCode = "SCORE_005"
	ErrCodeScoreModelInvalid      ErrorCode = "SCORE_006"
	ErrCodeScoreUnknownRule       ErrorCode = "SCORE_007"
	ErrCodeScoreTransformParams   ErrorCode = "SCORE_008"
	ErrCodeScoreEvaluationTimeout ErrorCode = "SCORE_009"
)

// Diversity Filter Error Codes.
const (
	ErrCodeDiversityInvalidConfig ErrorCode = "DIV_001"
	ErrCodeDiversityExportFailed  ErrorCode = "DIV_002"
)

// Inception Memory Error Codes.
const (
	ErrCodeInceptionInvalidConfig ErrorCode = "INC_001"
	ErrCodeInceptionSeedRejected  ErrorCode = "INC_002"
)

// Configuration Error Codes: always fatal before any scoring begins.
const (
	ErrCodeConfigLoadFailed ErrorCode = "CFG_001"
	ErrCodeConfigInvalid    ErrorCode = "CFG_002"
)

// fatalCodes identifies codes that must abort the run before the first
// batch is processed, as opposed to per-structure codes that are recovered
// locally with a zero score.
var fatalCodes = map[ErrorCode]bool{
	ErrCodeScoreUnknownComponent:  true,
	ErrCodeScoreUnknownTransform:  true,
	ErrCodeScoreInvalidWeight:     true,
	ErrCodeScoreModelNotLoaded:    true,
	ErrCodeScoreModelInvalid:      true,
	ErrCodeScoreUnknownRule:       true,
	ErrCodeScoreTransformParams:   true,
	ErrCodeDiversityInvalidConfig: true,
	ErrCodeInceptionInvalidConfig: true,
	ErrCodeConfigLoadFailed:       true,
	ErrCodeConfigInvalid:          true,
	ErrCodeValidation:             true,
}

// IsFatal reports whether the code must abort the run at startup.
// Per-structure chemistry and component failures are never fatal.
func (c ErrorCode) IsFatal() bool {
	return fatalCodes[c]
}

// Category returns the module prefix of the code ("CHEM", "SCORE", "DIV",
// "INC", "CFG", "COMMON"), which logging and metrics layers use as a label.
func (c ErrorCode) Category() string {
	s := string(c)
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			return s[:i]
		}
	}
	return s
}
