// Package main provides an operator tool for inspecting settle
// payloads and deriving Anchor instruction discriminators.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"vortex-oracle/internal/settle"
	"vortex-oracle/internal/solana"
)

func main() {
	payload := flag.String("payload", "", "Settle payload to decode (hex or base64)")
	method := flag.String("method", "", "Method name to derive the Anchor discriminator for")

	flag.Parse()

	logger := log.New(os.Stdout, "[inspect] ", 0)

	switch {
	case *payload != "":
		if err := inspectPayload(logger, *payload); err != nil {
			logger.Fatalf("Error: %v", err)
		}
	case *method != "":
		disc := solana.InstructionDiscriminator(*method)
		logger.Printf("method:        %s", *method)
		logger.Printf("discriminator: %s", hex.EncodeToString(disc[:]))
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// inspectPayload decodes a settle payload given as hex or base64 and
// prints its fields.
func inspectPayload(logger *log.Logger, input string) error {
	data, err := decodeInput(input)
	if err != nil {
		return err
	}

	disc, points, err := settle.DecodePayload(data)
	if err != nil {
		return err
	}

	expected := solana.InstructionDiscriminator(settle.MethodName)

	logger.Printf("discriminator: %s", hex.EncodeToString(disc[:]))
	logger.Printf("points:        %d", points)
	if disc == expected {
		logger.Printf("method:        %s", settle.MethodName)
	} else {
		logger.Printf("method:        unknown (want %s for %s)", hex.EncodeToString(expected[:]), settle.MethodName)
	}
	return nil
}

// decodeInput accepts hex first, then base64.
func decodeInput(input string) ([]byte, error) {
	if data, err := hex.DecodeString(input); err == nil {
		return data, nil
	}
	data, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("payload is neither hex nor base64: %w", err)
	}
	return data, nil
}
