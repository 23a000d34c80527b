// Package core defines the identity and storage identifiers shared by the
// counter programs, the state backends and the execution engine.
package core

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a fixed-width identity token (an ed25519 public key)
type Address [32]byte

// ObjectID identifies the storage slot a state object occupies
type ObjectID [32]byte

type Hash [32]byte

var ZeroAddress = Address{}
var ZeroObjectID = ObjectID{}
var ZeroHash = Hash{}

func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseObjectID decodes a hex object ID with an optional 0x prefix.
func ParseObjectID(str string) (ObjectID, error) {
	var id ObjectID
	if err := decodeFixed(str, id[:]); err != nil {
		return ZeroObjectID, fmt.Errorf("object id: %w", err)
	}
	return id, nil
}

func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

// AddressFromString decodes a hex address, returning ZeroAddress on bad input.
func AddressFromString(str string) Address {
	addr, err := ParseAddress(str)
	if err != nil {
		return ZeroAddress
	}
	return addr
}

// ParseAddress decodes a hex address with an optional 0x prefix.
func ParseAddress(str string) (Address, error) {
	var addr Address
	if err := decodeFixed(str, addr[:]); err != nil {
		return ZeroAddress, fmt.Errorf("address: %w", err)
	}
	return addr, nil
}

func (addr Address) MarshalText() ([]byte, error) {
	return []byte(addr.String()), nil
}

func (addr *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*addr = parsed
	return nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func HashFromString(str string) Hash {
	var h Hash
	if err := decodeFixed(str, h[:]); err != nil {
		return ZeroHash
	}
	return h
}

func decodeFixed(str string, out []byte) error {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if len(b) != len(out) {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidArgument, len(out), len(b))
	}
	copy(out, b)
	return nil
}
