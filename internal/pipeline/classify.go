package pipeline

import (
	"errors"

	"vortex-oracle/internal/eligibility"
	"vortex-oracle/internal/params"
	"vortex-oracle/internal/scoring"
	"vortex-oracle/internal/settle"
)

// Stage names for metrics and journaling.
const (
	StageDecode   = "decode"
	StageFetch    = "fetch"
	StageValidate = "validate"
	StageScore    = "score"
	StageEncode   = "encode"
)

// Classify maps a Run error to the stage it came from and a stable
// reason token. Unknown errors classify as ("unknown", "unknown").
func Classify(err error) (stage, reason string) {
	var missing *params.MissingFieldError
	var curve *params.CurveError

	switch {
	case errors.Is(err, params.ErrMalformedInput):
		return StageDecode, "malformed_input"
	case errors.As(err, &missing):
		return StageDecode, "missing_field"
	case errors.As(err, &curve):
		return StageDecode, "curve_mismatch"
	case errors.Is(err, ErrAttestationUnavailable):
		return StageFetch, "attestation_unavailable"
	case errors.Is(err, eligibility.ErrMissingTimestamp):
		return StageValidate, "missing_timestamp"
	case errors.Is(err, eligibility.ErrTooRecent):
		return StageValidate, "too_recent"
	case errors.Is(err, eligibility.ErrMissingRequiredTag):
		return StageValidate, "missing_tag"
	case errors.Is(err, eligibility.ErrMissingRequiredMention):
		return StageValidate, "missing_mention"
	case errors.Is(err, eligibility.ErrWithheld):
		return StageValidate, "withheld"
	case errors.Is(err, scoring.ErrMissingMetric):
		return StageScore, "missing_metric"
	case errors.Is(err, scoring.ErrArithmeticOverflow):
		return StageScore, "arithmetic_overflow"
	case errors.Is(err, settle.ErrInstructionTooLarge):
		return StageEncode, "instruction_too_large"
	default:
		return "unknown", "unknown"
	}
}

// IsRejection reports whether the error is a policy rejection (the
// attestation was inspected and refused) as opposed to an operational
// failure.
func IsRejection(err error) bool {
	stage, _ := Classify(err)
	return stage == StageValidate || stage == StageScore
}
