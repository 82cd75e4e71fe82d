// Package domain holds the records the host persists around
// invocations: the settlement journal and engagement snapshots.
package domain

// SettlementStatus classifies the outcome of one invocation.
type SettlementStatus string

const (
	StatusSettled  SettlementStatus = "SETTLED"
	StatusRejected SettlementStatus = "REJECTED"
	StatusFailed   SettlementStatus = "FAILED"
)

// String returns the string representation of SettlementStatus.
func (s SettlementStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s SettlementStatus) IsValid() bool {
	return s == StatusSettled || s == StatusRejected || s == StatusFailed
}

// SettlementRecord is one journal row per invocation.
// Corresponds to the settlements table in PostgreSQL.
type SettlementRecord struct {
	InvocationID    string           // PRIMARY KEY, deterministic hash
	TweetID         uint64           // attestation identifier
	TwitterUsername string           // claimed attestation author
	User            string           // base58 user wallet
	ProgramID       string           // base58 target program
	Status          SettlementStatus // SETTLED | REJECTED | FAILED
	Reason          string           // rejection/failure reason, empty when settled
	Points          uint64           // emitted score, 0 unless settled
	CreatedAt       int64            // record creation timestamp (ms)
}
