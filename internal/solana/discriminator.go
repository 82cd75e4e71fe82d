package solana

import "crypto/sha256"

// DiscriminatorLength is the byte length of an Anchor instruction
// discriminator.
const DiscriminatorLength = 8

// InstructionDiscriminator derives the 8-byte Anchor dispatch tag for a
// global instruction handler: sha256("global:<name>")[0:8]. The on-chain
// program uses the same derivation, so this function is a pinned
// protocol contract and is golden-tested against known pairs.
func InstructionDiscriminator(name string) [DiscriminatorLength]byte {
	hash := sha256.Sum256([]byte("global:" + name))

	var disc [DiscriminatorLength]byte
	copy(disc[:], hash[:DiscriminatorLength])
	return disc
}
