package solana

// AccountMeta describes one account slot of an instruction.
// Order, writability and signer flags are part of the on-chain
// program's calling convention.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a writable, non-signing account slot.
func NewAccountMeta(pk Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pk, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only account slot.
func NewReadonlyAccountMeta(pk Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pk, IsSigner: isSigner, IsWritable: false}
}

// Instruction is a single Solana instruction ready for signing and
// submission by the host runtime.
type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// SerializedSize returns a conservative upper bound on the wire size of
// the instruction inside a legacy transaction message: program id,
// per-account pubkey plus meta flags, and the data payload with its
// length prefix.
func (ix *Instruction) SerializedSize() int {
	const perAccount = PubkeyLength + 2 // pubkey + signer/writable flags
	return PubkeyLength + len(ix.Accounts)*perAccount + 2 + len(ix.Data)
}
