// Package auth signs transactions and turns verified signatures into the
// authentication capability the counter program consumes.
package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/govm-net/counter/core"
	"github.com/hdevalence/ed25519consensus"
)

type (
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

const (
	PrivateKeyLen = ed25519.PrivateKeySize
	// ed25519.PrivateKey is seed|publicKey
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize
)

var (
	EmptyPrivateKey = PrivateKey{}
	EmptySignature  = Signature{}
)

// GeneratePrivateKey returns a new ed25519 private key.
func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PrivateKeyFromString decodes a hex private key with an optional 0x prefix.
func PrivateKeyFromString(s string) (PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return EmptyPrivateKey, fmt.Errorf("private key: %w: %v", core.ErrInvalidArgument, err)
	}
	if len(b) != PrivateKeyLen {
		return EmptyPrivateKey, fmt.Errorf("private key: %w: want %d bytes, got %d", core.ErrInvalidArgument, PrivateKeyLen, len(b))
	}
	return PrivateKey(b), nil
}

func (p PrivateKey) String() string {
	return hex.EncodeToString(p[:])
}

// Address returns the identity of p, its public key.
func (p PrivateKey) Address() core.Address {
	return core.Address(p[PrivateKeySeedLen:])
}

// Sign returns a signature of msg by p.
func Sign(msg []byte, p PrivateKey) Signature {
	return Signature(ed25519.Sign(p[:], msg))
}

// Verify reports whether s is a valid ZIP-215 signature of msg by addr.
func Verify(msg []byte, addr core.Address, s Signature) bool {
	return ed25519consensus.Verify(addr[:], msg, s[:])
}
