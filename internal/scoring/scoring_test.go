package scoring

import (
	"errors"
	"math"
	"testing"

	"vortex-oracle/internal/twitter"
)

func tweetWithMetrics(likes, replies uint64, quotes *uint64, retweets uint64) *twitter.Tweet {
	return &twitter.Tweet{
		ID:   "1",
		Text: "x",
		PublicMetrics: &twitter.PublicMetrics{
			LikeCount:    likes,
			ReplyCount:   replies,
			QuoteCount:   quotes,
			RetweetCount: retweets,
		},
	}
}

func quotes(n uint64) *uint64 { return &n }

func TestPoints_UnitWeights(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	cases := []struct {
		name  string
		tweet *twitter.Tweet
		want  uint64
	}{
		{"all zero", tweetWithMetrics(0, 0, quotes(0), 0), 0},
		{"3+2+1+0", tweetWithMetrics(3, 2, quotes(1), 0), 6},
		{"10+2+1+3", tweetWithMetrics(10, 2, quotes(1), 3), 16},
		{"only retweets", tweetWithMetrics(0, 0, quotes(0), 7), 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Points(tc.tweet)
			if err != nil {
				t.Fatalf("Points failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Points = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPoints_CustomWeights(t *testing.T) {
	calc := NewCalculator(Weights{Like: 2, Reply: 3, Quote: 5, Retweet: 7})

	got, err := calc.Points(tweetWithMetrics(1, 1, quotes(1), 1))
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	if got != 17 {
		t.Errorf("Points = %d, want 17", got)
	}
}

func TestPoints_MissingQuoteCount(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	_, err := calc.Points(tweetWithMetrics(10, 2, nil, 3))
	if !errors.Is(err, ErrMissingMetric) {
		t.Errorf("Points error = %v, want ErrMissingMetric", err)
	}
}

func TestPoints_MissingMetricsBlock(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	_, err := calc.Points(&twitter.Tweet{ID: "1"})
	if !errors.Is(err, ErrMissingMetric) {
		t.Errorf("Points error = %v, want ErrMissingMetric", err)
	}
}

func TestPoints_Overflow(t *testing.T) {
	cases := []struct {
		name    string
		weights Weights
		tweet   *twitter.Tweet
	}{
		{
			name:    "multiplication overflow",
			weights: Weights{Like: 2, Reply: 1, Quote: 1, Retweet: 1},
			tweet:   tweetWithMetrics(math.MaxUint64, 0, quotes(0), 0),
		},
		{
			name:    "addition overflow",
			weights: DefaultWeights(),
			tweet:   tweetWithMetrics(math.MaxUint64, 1, quotes(0), 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc := NewCalculator(tc.weights)
			_, err := calc.Points(tc.tweet)
			if !errors.Is(err, ErrArithmeticOverflow) {
				t.Errorf("Points error = %v, want ErrArithmeticOverflow", err)
			}
		})
	}
}

func TestPoints_MaxBoundary(t *testing.T) {
	calc := NewCalculator(DefaultWeights())

	got, err := calc.Points(tweetWithMetrics(math.MaxUint64, 0, quotes(0), 0))
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	if got != math.MaxUint64 {
		t.Errorf("Points = %d, want MaxUint64", got)
	}
}
