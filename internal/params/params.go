// Package params decodes the untrusted container parameter blob passed
// to the function by its on-chain request.
package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"vortex-oracle/internal/solana"
)

// Recognized parameter keys. Unknown keys are ignored for forward
// compatibility.
const (
	KeyProgramID       = "PID"
	KeyRealmPDA        = "REALM_PDA"
	KeyUser            = "USER"
	KeyUserAccountPDA  = "USER_ACCOUNT_PDA"
	KeyTwitterUsername = "TWITTER_USERNAME"
	KeyTweetID         = "TWEET_ID"
)

// ErrMalformedInput is returned when the blob is not valid UTF-8 text or
// a recognized key carries a value that cannot be parsed.
var ErrMalformedInput = errors.New("malformed container params")

// MissingFieldError reports a required key that was never set or
// resolved to its type's default value.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s cannot be undefined", e.Field)
}

// CurveError reports a key whose curve membership does not match its
// role: wallet addresses are ed25519 points, program-derived addresses
// are bumped off the curve.
type CurveError struct {
	Field   string
	OnCurve bool // observed state
}

func (e *CurveError) Error() string {
	if e.OnCurve {
		return fmt.Sprintf("%s must be off the ed25519 curve", e.Field)
	}
	return fmt.Sprintf("%s must be on the ed25519 curve", e.Field)
}

// ContainerParams is the decoded, trusted request record. Immutable
// after Decode.
type ContainerParams struct {
	ProgramID       solana.Pubkey
	RealmPDA        solana.Pubkey
	User            solana.Pubkey
	UserAccountPDA  solana.Pubkey
	TwitterUsername string
	TweetID         uint64
}

// Decode parses a comma-separated KEY=VALUE blob. Each entry is split on
// the first '=' only, so values may contain '='. Duplicate keys follow
// last-write-wins. After the full pass every required field is validated
// against its default in a fixed order; the first unset field is
// reported via MissingFieldError.
func Decode(raw []byte) (*ContainerParams, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: not valid utf-8", ErrMalformedInput)
	}

	p := &ContainerParams{}

	for _, entry := range strings.Split(string(raw), ",") {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}

		var err error
		switch key {
		case KeyProgramID:
			p.ProgramID, err = parsePubkey(key, value)
		case KeyRealmPDA:
			p.RealmPDA, err = parsePubkey(key, value)
		case KeyUser:
			p.User, err = parsePubkey(key, value)
		case KeyUserAccountPDA:
			p.UserAccountPDA, err = parsePubkey(key, value)
		case KeyTwitterUsername:
			p.TwitterUsername = value
		case KeyTweetID:
			p.TweetID, err = parseTweetID(value)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// validate checks required fields against their defaults, then checks
// curve membership per role. The check order is fixed so failures are
// deterministic and diagnosable.
func (p *ContainerParams) validate() error {
	checks := []struct {
		field string
		unset bool
	}{
		{KeyProgramID, p.ProgramID.IsZero()},
		{KeyRealmPDA, p.RealmPDA.IsZero()},
		{KeyUser, p.User.IsZero()},
		{KeyUserAccountPDA, p.UserAccountPDA.IsZero()},
		{KeyTwitterUsername, p.TwitterUsername == ""},
		{KeyTweetID, p.TweetID == 0},
	}
	for _, c := range checks {
		if c.unset {
			return &MissingFieldError{Field: c.field}
		}
	}

	// USER is a wallet; REALM_PDA and USER_ACCOUNT_PDA are
	// program-derived. Program IDs may be either, so PID is exempt.
	curveChecks := []struct {
		field  string
		key    solana.Pubkey
		wantOn bool
	}{
		{KeyRealmPDA, p.RealmPDA, false},
		{KeyUser, p.User, true},
		{KeyUserAccountPDA, p.UserAccountPDA, false},
	}
	for _, c := range curveChecks {
		if on := c.key.IsOnCurve(); on != c.wantOn {
			return &CurveError{Field: c.field, OnCurve: on}
		}
	}
	return nil
}

func parsePubkey(key, value string) (solana.Pubkey, error) {
	pk, err := solana.PubkeyFromBase58(value)
	if err != nil {
		return solana.ZeroPubkey, fmt.Errorf("%w: %s: %v", ErrMalformedInput, key, err)
	}
	return pk, nil
}

func parseTweetID(value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformedInput, KeyTweetID, err)
	}
	return id, nil
}
