package vm

import (
	"encoding/json"
	"fmt"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/counter"
	"github.com/govm-net/counter/greeting"
)

// Well-known program addresses
var (
	CounterProgramAddress  = core.Address{31: 0x01}
	GreetingProgramAddress = core.Address{31: 0x02}
)

// CounterArgs are the arguments of every counter function
type CounterArgs struct {
	Slot *core.ObjectID `json:"slot,omitempty"`
}

// CounterResult is returned by every counter function
type CounterResult struct {
	Slot      core.ObjectID `json:"slot"`
	Count     uint64        `json:"count"`
	Authority core.Address  `json:"authority"`
}

func decodeArgs(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	return nil
}

func requireSlot(args CounterArgs) (core.ObjectID, error) {
	if args.Slot == nil {
		return core.ZeroObjectID, fmt.Errorf("%w: slot is required", core.ErrInvalidArgument)
	}
	return *args.Slot, nil
}

func counterHandlers(address core.Address) map[string]Handler {
	store := func(call *Call) *counter.Store {
		return counter.NewStore(call.State, address, call.Auth)
	}

	return map[string]Handler{
		"Initialize": func(call *Call) (any, error) {
			var args CounterArgs
			if err := decodeArgs(call.Tx.Args, &args); err != nil {
				return nil, err
			}
			slot := call.NewObjectID()
			if args.Slot != nil {
				slot = *args.Slot
			}

			record, err := store(call).Create(slot, call.Tx.Sender)
			if err != nil {
				return nil, err
			}
			return CounterResult{Slot: slot, Count: record.Count, Authority: record.Authority}, nil
		},
		"Increment": func(call *Call) (any, error) {
			var args CounterArgs
			if err := decodeArgs(call.Tx.Args, &args); err != nil {
				return nil, err
			}
			slot, err := requireSlot(args)
			if err != nil {
				return nil, err
			}

			count, err := store(call).Increment(slot, call.Tx.Sender)
			if err != nil {
				return nil, err
			}
			return CounterResult{Slot: slot, Count: count, Authority: call.Tx.Sender}, nil
		},
		"Get": func(call *Call) (any, error) {
			var args CounterArgs
			if err := decodeArgs(call.Tx.Args, &args); err != nil {
				return nil, err
			}
			slot, err := requireSlot(args)
			if err != nil {
				return nil, err
			}

			record, err := store(call).Get(slot)
			if err != nil {
				return nil, err
			}
			return CounterResult{Slot: slot, Count: record.Count, Authority: record.Authority}, nil
		},
	}
}

func greetingHandlers(address core.Address) map[string]Handler {
	p := greeting.New(address)
	return map[string]Handler{
		"Initialize": func(call *Call) (any, error) {
			p.Initialize(call.State)
			return nil, nil
		},
	}
}
