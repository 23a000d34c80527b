package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/govm-net/counter/auth"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/vm"
)

func newEngine(path string) (*vm.Engine, error) {
	return vm.NewEngine(&vm.Config{
		ContextType:   "db",
		ContextParams: map[string]any{"db_path": path},
	})
}

// runExecute signs and executes one program call, printing its result to out
func runExecute(out io.Writer, path, keyHex string, program core.Address, function string, args any) error {
	var key auth.PrivateKey
	if keyHex != "" {
		var err error
		key, err = auth.PrivateKeyFromString(keyHex)
		if err != nil {
			return err
		}
	}

	tx := &auth.Transaction{
		Program:  program,
		Function: function,
		Nonce:    uint64(time.Now().UnixNano()),
	}
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("failed to marshal args: %w", err)
		}
		tx.Args = data
	}
	if key != auth.EmptyPrivateKey {
		tx.Sign(key)
	}

	engine, err := newEngine(path)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Execute(tx)
	if err != nil {
		return fmt.Errorf("failed to execute %s: %w", function, err)
	}

	var pretty any
	if err := json.Unmarshal(result, &pretty); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	if pretty == nil {
		fmt.Fprintln(out, "Function executed successfully with no return value")
		return nil
	}
	resultJSON, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintf(out, "%s\n", resultJSON)
	return nil
}

func parseSlot(s string) (*core.ObjectID, error) {
	if s == "" {
		return nil, nil
	}
	slot, err := core.ParseObjectID(s)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
