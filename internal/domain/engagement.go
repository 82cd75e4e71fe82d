package domain

// EngagementSnapshot is one observed set of engagement counters for a
// tweet at invocation time. Corresponds to the engagement_snapshots
// table in ClickHouse.
type EngagementSnapshot struct {
	TweetID      uint64
	AuthorID     string
	ObservedAt   int64 // Unix timestamp in milliseconds
	LikeCount    uint64
	ReplyCount   uint64
	QuoteCount   uint64
	RetweetCount uint64
	Points       uint64
}
