// Package runner models the trusted-execution host boundary: the
// enclave identity, retrieval of the request's container parameters,
// and emission of the finished instruction set for signing and
// submission.
package runner

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"vortex-oracle/internal/settle"
	"vortex-oracle/internal/solana"
)

// Environment variables supplied by the host.
const (
	EnvFunctionKey        = "FUNCTION_KEY"
	EnvFunctionRequestKey = "FUNCTION_REQUEST_KEY"
	EnvContainerParams    = "CONTAINER_PARAMS"
)

// FunctionRunner holds the per-invocation identity and emits the
// result. The signing keypair is generated fresh inside the enclave for
// every run; the host attests and publishes what Emit writes.
type FunctionRunner struct {
	signerKey          ed25519.PrivateKey
	signer             solana.Pubkey
	function           solana.Pubkey
	functionRequestKey solana.Pubkey
	containerParams    []byte
	out                io.Writer
}

// NewFromEnv initializes a runner with a freshly generated keypair and
// the function/request accounts and parameter blob from the host
// environment.
func NewFromEnv() (*FunctionRunner, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate enclave keypair: %w", err)
	}

	var signer solana.Pubkey
	copy(signer[:], pub)

	function, err := pubkeyFromEnv(EnvFunctionKey)
	if err != nil {
		return nil, err
	}
	requestKey, err := pubkeyFromEnv(EnvFunctionRequestKey)
	if err != nil {
		return nil, err
	}

	raw := os.Getenv(EnvContainerParams)
	if raw == "" {
		return nil, fmt.Errorf("%s is not set", EnvContainerParams)
	}
	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// The host may pass the blob unencoded.
		blob = []byte(raw)
	}

	return &FunctionRunner{
		signerKey:          priv,
		signer:             signer,
		function:           function,
		functionRequestKey: requestKey,
		containerParams:    blob,
		out:                os.Stdout,
	}, nil
}

// New creates a runner with explicit values. Used by tests and tools.
func New(function, requestKey solana.Pubkey, containerParams []byte, out io.Writer) (*FunctionRunner, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate enclave keypair: %w", err)
	}

	var signer solana.Pubkey
	copy(signer[:], pub)

	return &FunctionRunner{
		signerKey:          priv,
		signer:             signer,
		function:           function,
		functionRequestKey: requestKey,
		containerParams:    containerParams,
		out:                out,
	}, nil
}

// ContainerParams returns the untrusted parameter blob for this
// invocation.
func (r *FunctionRunner) ContainerParams() []byte {
	return r.containerParams
}

// Identity returns the account references the settle instruction needs.
func (r *FunctionRunner) Identity() settle.Identity {
	return settle.Identity{
		Signer:             r.signer,
		Function:           r.function,
		FunctionRequestKey: r.functionRequestKey,
	}
}

// Signer returns the enclave-generated signing address.
func (r *FunctionRunner) Signer() solana.Pubkey {
	return r.signer
}

// emittedResult is the wire envelope the host consumes.
type emittedResult struct {
	Signer       string               `json:"signer"`
	Instructions []emittedInstruction `json:"instructions"`
}

type emittedInstruction struct {
	ProgramID string           `json:"program_id"`
	Accounts  []emittedAccount `json:"accounts"`
	Data      string           `json:"data"` // base64
}

type emittedAccount struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// Emit serializes the instruction set and writes it as the final word
// on stdout; the host treats the last stdout word as the result to sign
// and publish.
func (r *FunctionRunner) Emit(ixs []*solana.Instruction) error {
	result := emittedResult{Signer: r.signer.String()}

	for _, ix := range ixs {
		out := emittedInstruction{
			ProgramID: ix.ProgramID.String(),
			Data:      base64.StdEncoding.EncodeToString(ix.Data),
		}
		for _, acct := range ix.Accounts {
			out.Accounts = append(out.Accounts, emittedAccount{
				Pubkey:     acct.Pubkey.String(),
				IsSigner:   acct.IsSigner,
				IsWritable: acct.IsWritable,
			})
		}
		result.Instructions = append(result.Instructions, out)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if _, err := fmt.Fprintf(r.out, "%s\n", base64.StdEncoding.EncodeToString(encoded)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func pubkeyFromEnv(name string) (solana.Pubkey, error) {
	value := os.Getenv(name)
	if value == "" {
		return solana.ZeroPubkey, fmt.Errorf("%s is not set", name)
	}
	pk, err := solana.PubkeyFromBase58(value)
	if err != nil {
		return solana.ZeroPubkey, fmt.Errorf("parse %s: %w", name, err)
	}
	return pk, nil
}
