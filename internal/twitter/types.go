// Package twitter implements the attestation fetch boundary: retrieval
// of a single tweet from the X API v2.
package twitter

import "time"

// PublicMetrics holds the engagement counters of a tweet. QuoteCount is
// optional at the API level; scoring treats its absence as an error, not
// a zero.
type PublicMetrics struct {
	RetweetCount uint64  `json:"retweet_count"`
	ReplyCount   uint64  `json:"reply_count"`
	LikeCount    uint64  `json:"like_count"`
	QuoteCount   *uint64 `json:"quote_count,omitempty"`
}

// Withheld describes content withholding. The eligibility policy rejects
// a tweet when this field is present, regardless of its content.
type Withheld struct {
	Copyright    bool     `json:"copyright"`
	CountryCodes []string `json:"country_codes"`
	Scope        string   `json:"scope,omitempty"`
}

// Tweet is the fetched attestation record. Read-only to the rest of the
// pipeline for the duration of one invocation.
type Tweet struct {
	ID             string         `json:"id"`
	AuthorID       string         `json:"author_id,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
	Text           string         `json:"text"`
	Source         string         `json:"source,omitempty"`
	Withheld       *Withheld      `json:"withheld,omitempty"`
	PublicMetrics  *PublicMetrics `json:"public_metrics,omitempty"`
}
