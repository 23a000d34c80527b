package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/govm-net/counter/auth"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")
	key, err := auth.GeneratePrivateKey()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runExecute(&out, path, key.String(), vm.CounterProgramAddress, "initialize", vm.CounterArgs{}))

	var created vm.CounterResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Equal(t, key.Address(), created.Authority)

	slot, err := parseSlot(created.Slot.String())
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, runExecute(&out, path, key.String(), vm.CounterProgramAddress, "increment", vm.CounterArgs{Slot: slot}))

	out.Reset()
	require.NoError(t, runExecute(&out, path, "", vm.CounterProgramAddress, "get", vm.CounterArgs{Slot: slot}))
	var got vm.CounterResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, uint64(1), got.Count)

	out.Reset()
	require.NoError(t, runExecute(&out, path, key.String(), vm.GreetingProgramAddress, "initialize", nil))
	assert.Contains(t, out.String(), "no return value")

	err = runExecute(&out, path, "", vm.CounterProgramAddress, "increment", vm.CounterArgs{Slot: slot})
	assert.ErrorIs(t, err, core.ErrAuthentication)

	err = runExecute(&out, path, "zz", vm.CounterProgramAddress, "increment", vm.CounterArgs{Slot: slot})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestParseSlot(t *testing.T) {
	slot, err := parseSlot("")
	require.NoError(t, err)
	assert.Nil(t, slot)

	_, err = parseSlot("abc")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
