// Package settle encodes the on-chain settle instruction emitted at the
// end of a successful invocation.
package settle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"vortex-oracle/internal/params"
	"vortex-oracle/internal/solana"
)

// MethodName is the Anchor handler the payload dispatches to.
const MethodName = "process_tweet_settle"

// PayloadLength is the fixed payload size: discriminator(8) + points(8).
// An early comment in the on-chain repo claims 12 bytes; that comment is
// stale, the authoritative layout is 16 bytes.
const PayloadLength = solana.DiscriminatorLength + 8

// MaxInstructionSize is the serialized-size cap the consuming runtime
// imposes on the emitted instruction set.
const MaxInstructionSize = 700

// ErrInstructionTooLarge is returned when the encoded instruction would
// exceed MaxInstructionSize after serialization.
var ErrInstructionTooLarge = errors.New("settle instruction exceeds serialized size cap")

// ErrInvalidPayload is returned when decoding a payload of the wrong
// shape.
var ErrInvalidPayload = errors.New("invalid settle payload")

// Identity holds the account references the trusted-execution host
// supplies for the invocation: its enclave-generated signing key and the
// function/request accounts of the triggering on-chain request.
type Identity struct {
	Signer             solana.Pubkey
	Function           solana.Pubkey
	FunctionRequestKey solana.Pubkey
}

// EncodePayload builds the 16-byte instruction data:
//
//	bytes 0..8:  Anchor discriminator of MethodName
//	bytes 8..16: points, little-endian uint64
func EncodePayload(points uint64) []byte {
	disc := solana.InstructionDiscriminator(MethodName)

	data := make([]byte, PayloadLength)
	copy(data, disc[:])
	binary.LittleEndian.PutUint64(data[solana.DiscriminatorLength:], points)
	return data
}

// DecodePayload recovers the discriminator and points from a payload.
// Used by the inspect tool and round-trip verification.
func DecodePayload(data []byte) (disc [solana.DiscriminatorLength]byte, points uint64, err error) {
	if len(data) != PayloadLength {
		return disc, 0, fmt.Errorf("%w: length %d, want %d", ErrInvalidPayload, len(data), PayloadLength)
	}

	copy(disc[:], data[:solana.DiscriminatorLength])
	points = binary.LittleEndian.Uint64(data[solana.DiscriminatorLength:])
	return disc, points, nil
}

// BuildInstruction assembles the settle instruction for the on-chain
// program. The account composition and order are a protocol contract
// with the program's process_tweet_settle handler; any reordering or
// flag change breaks dispatch on-chain:
//
//	0. enclave signer (readonly, signer)
//	1. user (readonly)
//	2. realm PDA (writable)
//	3. user account PDA (writable)
//	4. user account PDA (writable; slot reserved by the program)
//	5. function account (readonly)
//	6. function request account (readonly)
func BuildInstruction(p *params.ContainerParams, identity Identity, points uint64) (*solana.Instruction, error) {
	ix := &solana.Instruction{
		ProgramID: p.ProgramID,
		Data:      EncodePayload(points),
		Accounts: []solana.AccountMeta{
			solana.NewReadonlyAccountMeta(identity.Signer, true),
			solana.NewReadonlyAccountMeta(p.User, false),
			solana.NewAccountMeta(p.RealmPDA, false),
			solana.NewAccountMeta(p.UserAccountPDA, false),
			solana.NewAccountMeta(p.UserAccountPDA, false),
			solana.NewReadonlyAccountMeta(identity.Function, false),
			solana.NewReadonlyAccountMeta(identity.FunctionRequestKey, false),
		},
	}

	if size := ix.SerializedSize(); size > MaxInstructionSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInstructionTooLarge, size)
	}

	return ix, nil
}
