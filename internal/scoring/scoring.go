// Package scoring maps tweet engagement metrics to a reward point
// total.
package scoring

import (
	"errors"
	"math"

	"vortex-oracle/internal/twitter"
)

var (
	// ErrMissingMetric is returned when quote_count is absent. The field
	// is optional at the API but mandatory for scoring; absence is not
	// a zero.
	ErrMissingMetric = errors.New("quote_count metric is missing")

	// ErrArithmeticOverflow is returned when the weighted sum would
	// exceed uint64 range. Engagement counts stay far below this in
	// practice, so overflow indicates a broken contract and fails
	// closed instead of wrapping.
	ErrArithmeticOverflow = errors.New("points calculation overflows uint64")
)

// Weights holds the per-metric point multipliers. Policy lives here so
// the formula itself never changes.
type Weights struct {
	Like    uint64
	Reply   uint64
	Quote   uint64
	Retweet uint64
}

// DefaultWeights returns the current campaign policy: one point per
// engagement, regardless of kind.
func DefaultWeights() Weights {
	return Weights{Like: 1, Reply: 1, Quote: 1, Retweet: 1}
}

// Calculator computes reward points from engagement metrics.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator with the given weights.
func NewCalculator(weights Weights) *Calculator {
	return &Calculator{weights: weights}
}

// Points computes the weighted engagement sum:
//
//	likes*W_like + replies*W_reply + quotes*W_quote + retweets*W_retweet
//
// Pure function of the tweet's metrics. All arithmetic is unsigned
// 64-bit with explicit overflow detection.
func (c *Calculator) Points(tweet *twitter.Tweet) (uint64, error) {
	metrics := tweet.PublicMetrics
	if metrics == nil || metrics.QuoteCount == nil {
		return 0, ErrMissingMetric
	}

	terms := [4]struct {
		count  uint64
		weight uint64
	}{
		{metrics.LikeCount, c.weights.Like},
		{metrics.ReplyCount, c.weights.Reply},
		{*metrics.QuoteCount, c.weights.Quote},
		{metrics.RetweetCount, c.weights.Retweet},
	}

	var points uint64
	for _, term := range terms {
		weighted, err := mulUint64(term.count, term.weight)
		if err != nil {
			return 0, err
		}
		points, err = addUint64(points, weighted)
		if err != nil {
			return 0, err
		}
	}

	return points, nil
}

func mulUint64(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, ErrArithmeticOverflow
	}
	return a * b, nil
}

func addUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}
