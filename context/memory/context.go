package memory

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
)

// defaultStateContext keeps all objects in process memory
type defaultStateContext struct {
	// Virtual machine object storage
	objects        map[core.ObjectID]map[string][]byte
	objectOwner    map[core.ObjectID]core.Address
	objectContract map[core.ObjectID]core.Address
	events         []types.Event
	seen           map[core.Hash]struct{}

	// Current execution context
	contractAddr core.Address
	sender       core.Address
	txHash       core.Hash
	mu           sync.Mutex
}

func init() {
	context.Register(context.MemoryContextType, NewStateContext)
}

// NewStateContext creates an empty in-memory state context. params is unused.
func NewStateContext(params map[string]any) (types.StateContext, error) {
	return &defaultStateContext{
		objects:        make(map[core.ObjectID]map[string][]byte),
		objectOwner:    make(map[core.ObjectID]core.Address),
		objectContract: make(map[core.ObjectID]core.Address),
		seen:           make(map[core.Hash]struct{}),
	}, nil
}

func (ctx *defaultStateContext) SetTransactionInfo(hash core.Hash, sender core.Address, program core.Address) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.txHash = hash
	ctx.sender = sender
	ctx.contractAddr = program
	return nil
}

func (ctx *defaultStateContext) Sender() core.Address {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.sender
}

func (ctx *defaultStateContext) TransactionHash() core.Hash {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.txHash
}

func (ctx *defaultStateContext) SeenTransaction(hash core.Hash) (bool, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	_, ok := ctx.seen[hash]
	return ok, nil
}

func (ctx *defaultStateContext) MarkTransaction(hash core.Hash) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, ok := ctx.seen[hash]; ok {
		return fmt.Errorf("%s: %w", hash, core.ErrDuplicateTransaction)
	}
	ctx.seen[hash] = struct{}{}
	return nil
}

func (ctx *defaultStateContext) CreateObjectWithID(contract core.Address, id core.ObjectID, fields map[string][]byte) (types.VMObject, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, exists := ctx.objects[id]; exists {
		return nil, fmt.Errorf("object %s already exists: %w", id, core.ErrAllocation)
	}

	stored := make(map[string][]byte, len(fields))
	for k, v := range fields {
		stored[k] = append([]byte(nil), v...)
	}
	ctx.objects[id] = stored
	ctx.objectOwner[id] = contract
	ctx.objectContract[id] = contract

	return &vmObject{
		ctx:         ctx,
		objOwner:    contract,
		objContract: contract,
		id:          id,
	}, nil
}

func (ctx *defaultStateContext) GetObject(contract core.Address, id core.ObjectID) (types.VMObject, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	_, exists := ctx.objects[id]
	if !exists || ctx.objectContract[id] != contract {
		return nil, fmt.Errorf("object %s: %w", id, core.ErrNotFound)
	}

	return &vmObject{
		ctx:         ctx,
		objOwner:    ctx.objectOwner[id],
		objContract: ctx.objectContract[id],
		id:          id,
	}, nil
}

// Log records events
func (ctx *defaultStateContext) Log(contract core.Address, eventName string, keyValues ...any) {
	ctx.mu.Lock()
	ctx.events = append(ctx.events, types.Event{
		TxHash:    ctx.txHash,
		Contract:  contract,
		Name:      eventName,
		KeyValues: keyValues,
	})
	ctx.mu.Unlock()

	params := []any{
		"contract", contract,
		"event", eventName,
	}
	params = append(params, keyValues...)
	slog.Info("Contract log", params...)
}

// Events returns a copy of all events logged so far
func (ctx *defaultStateContext) Events() []types.Event {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return append([]types.Event(nil), ctx.events...)
}

func (ctx *defaultStateContext) Close() error {
	return nil
}

// vmObject implements the object interface
type vmObject struct {
	ctx         *defaultStateContext
	objOwner    core.Address
	objContract core.Address
	id          core.ObjectID
}

func (o *vmObject) ID() core.ObjectID {
	return o.id
}

func (o *vmObject) Owner() core.Address {
	return o.objOwner
}

func (o *vmObject) Contract() core.Address {
	return o.objContract
}

// Get gets the field value
func (o *vmObject) Get(contract core.Address, field string) ([]byte, error) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if contract != o.objContract {
		return nil, fmt.Errorf("invalid contract: %w", core.ErrUnauthorized)
	}
	obj, exists := o.ctx.objects[o.id]
	if !exists {
		return nil, fmt.Errorf("object %s: %w", o.id, core.ErrNotFound)
	}
	value, exists := obj[field]
	if !exists {
		return nil, fmt.Errorf("field %s: %w", field, core.ErrNotFound)
	}
	return append([]byte(nil), value...), nil
}

// Set sets the field value
func (o *vmObject) Set(contract core.Address, sender core.Address, field string, value []byte) error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if contract != o.objContract {
		return fmt.Errorf("invalid contract: %w", core.ErrUnauthorized)
	}
	if sender != o.objOwner && contract != o.objOwner {
		return fmt.Errorf("not owner: %w", core.ErrUnauthorized)
	}
	obj, exists := o.ctx.objects[o.id]
	if !exists {
		return fmt.Errorf("object %s: %w", o.id, core.ErrNotFound)
	}
	obj[field] = append([]byte(nil), value...)
	return nil
}
