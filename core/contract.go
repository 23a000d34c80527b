package core

import (
	"errors"
)

// Errors returned by programs and state backends. Callers tell them apart
// with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrAuthentication   = errors.New("caller not authenticated")
	ErrUnauthorized     = errors.New("unauthorized operation")
	ErrAllocation       = errors.New("storage allocation failed")
	ErrNotFound         = errors.New("object not found")
	ErrOverflow         = errors.New("counter overflow")
	ErrContractNotFound = errors.New("contract not found")
	ErrFunctionNotFound = errors.New("function not found")

	ErrDuplicateTransaction = errors.New("transaction already processed")
)

// Encoder represents an object that can encode itself to bytes.
type Encoder interface {
	Encode() ([]byte, error)
}

// Decoder represents an object that can decode itself from bytes.
type Decoder interface {
	Decode(data []byte) error
}

// Authenticator reports whether the execution environment has verified that
// a request is attributable to identity.
type Authenticator interface {
	Authenticate(identity Address) bool
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(identity Address) bool

func (f AuthenticatorFunc) Authenticate(identity Address) bool {
	return f(identity)
}

var (
	// AllowAll treats every identity as authenticated. Only for trusted embedding.
	AllowAll Authenticator = AuthenticatorFunc(func(Address) bool { return true })
	// DenyAll rejects every identity.
	DenyAll Authenticator = AuthenticatorFunc(func(Address) bool { return false })
)
