// Package eligibility applies the fixed reward-eligibility policy to a
// fetched tweet.
package eligibility

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vortex-oracle/internal/twitter"
)

// Policy defaults. The campaign tag and beneficiary mention are matched
// as exact, case-sensitive substrings with no normalization.
const (
	DefaultMinAge          = 4 * time.Hour
	DefaultRequiredTag     = "$VTX"
	DefaultRequiredMention = "@Vortexcoin"
)

// Rejection errors, one per policy check.
var (
	// ErrMissingTimestamp is returned when the fetch layer delivered a
	// tweet without created_at; age cannot be evaluated.
	ErrMissingTimestamp = errors.New("tweet has no created_at timestamp")

	// ErrTooRecent guards against reward-then-delete gaming: the tweet
	// must be at least MinAge old.
	ErrTooRecent = errors.New("tweet must be at least 4h old")

	// ErrMissingRequiredTag is returned when the campaign tag is absent.
	ErrMissingRequiredTag = errors.New("tweet must contain $VTX")

	// ErrMissingRequiredMention is returned when the beneficiary mention
	// is absent.
	ErrMissingRequiredMention = errors.New("tweet must contain @Vortexcoin")

	// ErrWithheld is returned when the tweet carries a withheld notice,
	// regardless of its content.
	ErrWithheld = errors.New("tweet is withheld")
)

// Reason identifies which policy check rejected a tweet.
type Reason string

const (
	ReasonEligible         Reason = "ELIGIBLE"
	ReasonMissingTimestamp Reason = "MISSING_TIMESTAMP"
	ReasonTooRecent        Reason = "TOO_RECENT"
	ReasonMissingTag       Reason = "MISSING_TAG"
	ReasonMissingMention   Reason = "MISSING_MENTION"
	ReasonWithheld         Reason = "WITHHELD"
)

// String returns the string representation of Reason.
func (r Reason) String() string {
	return string(r)
}

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Eligible bool
	Reason   Reason
}

// Validator evaluates the eligibility policy.
type Validator struct {
	minAge          time.Duration
	requiredTag     string
	requiredMention string
}

// NewValidator creates a validator with the default campaign policy.
func NewValidator() *Validator {
	return &Validator{
		minAge:          DefaultMinAge,
		requiredTag:     DefaultRequiredTag,
		requiredMention: DefaultRequiredMention,
	}
}

// NewValidatorWithPolicy creates a validator with an explicit policy.
func NewValidatorWithPolicy(minAge time.Duration, tag, mention string) *Validator {
	return &Validator{
		minAge:          minAge,
		requiredTag:     tag,
		requiredMention: mention,
	}
}

// AssertEligible applies the policy checks in a fixed order; the first
// failing check wins so every rejection has exactly one cause:
//  1. age: the tweet must be strictly older than minAge (a tweet whose
//     age equals the threshold is still rejected),
//  2. required campaign tag present in text,
//  3. required beneficiary mention present in text,
//  4. no withheld notice.
func (v *Validator) AssertEligible(tweet *twitter.Tweet, now time.Time) error {
	if tweet.CreatedAt == nil {
		return ErrMissingTimestamp
	}

	if tweet.CreatedAt.Unix() >= now.Unix()-int64(v.minAge/time.Second) {
		return fmt.Errorf("%w: created at %s", ErrTooRecent, tweet.CreatedAt.UTC().Format(time.RFC3339))
	}

	if !containsExact(tweet.Text, v.requiredTag) {
		return ErrMissingRequiredTag
	}

	if !containsExact(tweet.Text, v.requiredMention) {
		return ErrMissingRequiredMention
	}

	if tweet.Withheld != nil {
		return ErrWithheld
	}

	return nil
}

// Check evaluates the policy and reports the decision with its reason.
func (v *Validator) Check(tweet *twitter.Tweet, now time.Time) Decision {
	err := v.AssertEligible(tweet, now)
	if err == nil {
		return Decision{Eligible: true, Reason: ReasonEligible}
	}
	return Decision{Eligible: false, Reason: reasonFor(err)}
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, ErrMissingTimestamp):
		return ReasonMissingTimestamp
	case errors.Is(err, ErrTooRecent):
		return ReasonTooRecent
	case errors.Is(err, ErrMissingRequiredTag):
		return ReasonMissingTag
	case errors.Is(err, ErrMissingRequiredMention):
		return ReasonMissingMention
	case errors.Is(err, ErrWithheld):
		return ReasonWithheld
	default:
		return Reason("UNKNOWN")
	}
}

// containsExact is a case-sensitive substring match with no
// normalization.
func containsExact(text, token string) bool {
	return len(token) > 0 && strings.Contains(text, token)
}
