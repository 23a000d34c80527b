// Package counter implements the counter program: records holding a count
// that only their bound authority may increment.
package counter

import (
	"errors"
	"fmt"
	"math"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
)

// RecordField is the object field holding the encoded Record
const RecordField = "counter"

// Store creates and mutates counter records owned by one program.
//
// Every call assumes exclusive access to the records it touches; the
// execution engine serializes calls.
type Store struct {
	state   types.StateContext
	program core.Address
	auth    core.Authenticator
}

// NewStore returns a Store writing objects owned by program and trusting
// auth to vouch for caller identities.
func NewStore(state types.StateContext, program core.Address, auth core.Authenticator) *Store {
	return &Store{
		state:   state,
		program: program,
		auth:    auth,
	}
}

// Create binds identity as the authority of a new zeroed record at slot.
func (s *Store) Create(slot core.ObjectID, identity core.Address) (*Record, error) {
	if !s.auth.Authenticate(identity) {
		return nil, fmt.Errorf("create counter %s: %w", slot, core.ErrAuthentication)
	}

	record := &Record{Count: 0, Authority: identity}
	data, err := record.Encode()
	if err != nil {
		return nil, err
	}

	_, err = s.state.CreateObjectWithID(s.program, slot, map[string][]byte{RecordField: data})
	if err != nil {
		if errors.Is(err, core.ErrAllocation) {
			return nil, fmt.Errorf("create counter %s: %w", slot, err)
		}
		return nil, fmt.Errorf("create counter %s: %w: %w", slot, core.ErrAllocation, err)
	}

	s.state.Log(s.program, "initialize",
		"count", record.Count,
		"authority", record.Authority.String())
	return record, nil
}

// Increment adds one to the record at slot and returns the new count.
// Only the record's authority may increment, and the count never wraps.
func (s *Store) Increment(slot core.ObjectID, identity core.Address) (uint64, error) {
	if !s.auth.Authenticate(identity) {
		return 0, fmt.Errorf("increment counter %s: %w", slot, core.ErrAuthentication)
	}

	obj, record, err := s.load(slot)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", slot, err)
	}
	if identity != record.Authority {
		return 0, fmt.Errorf("increment counter %s by %s: %w", slot, identity, core.ErrUnauthorized)
	}
	if record.Count == math.MaxUint64 {
		return 0, fmt.Errorf("increment counter %s: %w", slot, core.ErrOverflow)
	}

	record.Count++
	data, err := record.Encode()
	if err != nil {
		return 0, err
	}
	if err := obj.Set(s.program, identity, RecordField, data); err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", slot, err)
	}

	s.state.Log(s.program, "increment", "count", record.Count)
	return record.Count, nil
}

// Get returns the record at slot. Reads need no authentication.
func (s *Store) Get(slot core.ObjectID) (*Record, error) {
	_, record, err := s.load(slot)
	if err != nil {
		return nil, fmt.Errorf("get counter %s: %w", slot, err)
	}
	return record, nil
}

func (s *Store) load(slot core.ObjectID) (types.VMObject, *Record, error) {
	obj, err := s.state.GetObject(s.program, slot)
	if err != nil {
		return nil, nil, err
	}
	data, err := obj.Get(s.program, RecordField)
	if err != nil {
		return nil, nil, err
	}

	var record Record
	if err := record.Decode(data); err != nil {
		return nil, nil, err
	}
	return obj, &record, nil
}
