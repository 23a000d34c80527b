// Package types contains the contract between programs and the state
// backends that persist their objects.
package types

import (
	"github.com/govm-net/counter/core"
)

// StateContext is the environment a program executes against.
// Each call runs with exclusive access; backends need not order concurrent writers.
type StateContext interface {
	// set transaction info for the call about to execute
	SetTransactionInfo(hash core.Hash, sender core.Address, program core.Address) error
	Sender() core.Address       // Get transaction sender
	TransactionHash() core.Hash // Get current transaction hash

	// CreateObjectWithID creates an object owned by contract with all of its
	// initial fields, or nothing at all. An occupied id fails with core.ErrAllocation.
	CreateObjectWithID(contract core.Address, id core.ObjectID, fields map[string][]byte) (VMObject, error)
	// GetObject fails with core.ErrNotFound when id is not occupied.
	GetObject(contract core.Address, id core.ObjectID) (VMObject, error)

	// SeenTransaction reports whether hash was marked by an earlier call.
	SeenTransaction(hash core.Hash) (bool, error)
	// MarkTransaction records hash as processed. Marking twice fails with
	// core.ErrDuplicateTransaction.
	MarkTransaction(hash core.Hash) error

	// Logs and events
	Log(contract core.Address, eventName string, keyValues ...any)

	Close() error
}

// VMObject is a handle to one stored object
type VMObject interface {
	ID() core.ObjectID      // Get object ID
	Owner() core.Address    // Get object owner
	Contract() core.Address // Get object's contract

	// Field operations
	Get(contract core.Address, field string) ([]byte, error)             // Get field value
	Set(contract, sender core.Address, field string, value []byte) error // Set field value
}

// Event is a program log entry
type Event struct {
	TxHash    core.Hash    `json:"tx_hash"`
	Contract  core.Address `json:"contract"`
	Name      string       `json:"event"`
	KeyValues []any        `json:"key_values,omitempty"`
}
