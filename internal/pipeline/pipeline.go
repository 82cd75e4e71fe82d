// Package pipeline wires the invocation stages together:
// decode → fetch → validate → score → encode.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vortex-oracle/internal/eligibility"
	"vortex-oracle/internal/observability"
	"vortex-oracle/internal/params"
	"vortex-oracle/internal/scoring"
	"vortex-oracle/internal/settle"
	"vortex-oracle/internal/solana"
	"vortex-oracle/internal/twitter"
)

// ErrAttestationUnavailable is the single opaque error surfaced for any
// fetch failure. The pipeline does not interpret finer-grained causes;
// re-invocation belongs to the surrounding runtime.
var ErrAttestationUnavailable = errors.New("attestation unavailable")

// Fetcher retrieves the attestation by its numeric identifier.
type Fetcher interface {
	GetTweet(ctx context.Context, id uint64) (*twitter.Tweet, error)
}

// Options configures a Pipeline. Fetcher and Identity are required;
// the rest defaults to the campaign policy.
type Options struct {
	Fetcher    Fetcher
	Identity   settle.Identity
	Validator  *eligibility.Validator
	Calculator *scoring.Calculator
	Now        func() time.Time
}

// Pipeline executes one invocation. It holds no cross-invocation state:
// each Run is independent and either emits exactly one instruction or
// fails with the first stage error.
type Pipeline struct {
	fetcher    Fetcher
	identity   settle.Identity
	validator  *eligibility.Validator
	calculator *scoring.Calculator
	now        func() time.Time
}

// New creates a pipeline from options, filling in policy defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		fetcher:    opts.Fetcher,
		identity:   opts.Identity,
		validator:  opts.Validator,
		calculator: opts.Calculator,
		now:        opts.Now,
	}
	if p.validator == nil {
		p.validator = eligibility.NewValidator()
	}
	if p.calculator == nil {
		p.calculator = scoring.NewCalculator(scoring.DefaultWeights())
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Result is the outcome of a successful invocation.
type Result struct {
	Params      *params.ContainerParams
	Tweet       *twitter.Tweet
	Points      uint64
	Instruction *solana.Instruction
}

// Run executes the sequential stages against a raw parameter blob.
// Every stage fails fast; no partial success, no fallback values.
func (p *Pipeline) Run(ctx context.Context, raw []byte) (*Result, error) {
	decoded, err := params.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}

	start := time.Now()
	tweet, err := p.fetcher.GetTweet(ctx, decoded.TweetID)
	observability.RecordFetch(time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("fetch tweet %d: %w: %v", decoded.TweetID, ErrAttestationUnavailable, err)
	}

	if err := p.validator.AssertEligible(tweet, p.now()); err != nil {
		return nil, fmt.Errorf("tweet %d not eligible: %w", decoded.TweetID, err)
	}

	points, err := p.calculator.Points(tweet)
	if err != nil {
		return nil, fmt.Errorf("calculate points for tweet %d: %w", decoded.TweetID, err)
	}

	ix, err := settle.BuildInstruction(decoded, p.identity, points)
	if err != nil {
		return nil, fmt.Errorf("build settle instruction: %w", err)
	}

	return &Result{
		Params:      decoded,
		Tweet:       tweet,
		Points:      points,
		Instruction: ix,
	}, nil
}
