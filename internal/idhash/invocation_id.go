// Package idhash computes deterministic identifiers for journal rows.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeInvocationID computes a deterministic invocation_id using SHA256.
// Formula: SHA256(tweet_id|user|request_key|observed_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeInvocationID(tweetID uint64, user, requestKey string, observedAtMs int64) string {
	data := fmt.Sprintf("%d|%s|%s|%d", tweetID, user, requestKey, observedAtMs)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
