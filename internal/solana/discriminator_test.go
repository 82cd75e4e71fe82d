package solana

import (
	"encoding/hex"
	"testing"
)

// Golden pairs verified against the Anchor derivation used by the
// on-chain program. These must never change.
func TestInstructionDiscriminator_Golden(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"process_tweet_settle", "737272b61e896d91"},
		{"initialize", "afaf6d1f0d989bed"},
		{"settle", "af2ab957908366d4"},
	}

	for _, tc := range cases {
		got := InstructionDiscriminator(tc.name)
		if hex.EncodeToString(got[:]) != tc.want {
			t.Errorf("discriminator(%q) = %x, want %s", tc.name, got, tc.want)
		}
	}
}

func TestInstructionDiscriminator_Deterministic(t *testing.T) {
	a := InstructionDiscriminator("process_tweet_settle")
	b := InstructionDiscriminator("process_tweet_settle")
	if a != b {
		t.Errorf("derivation is not deterministic: %x != %x", a, b)
	}
}
