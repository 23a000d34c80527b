package greeting

import (
	"testing"

	"github.com/govm-net/counter/context/memory"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	state, err := memory.NewStateContext(nil)
	require.NoError(t, err)

	address := core.Address{0x9e}
	sender := core.Address{0xa1}
	require.NoError(t, state.SetTransactionInfo(core.GetHash([]byte("tx")), sender, address))

	p := New(address)
	p.Initialize(state)
	p.Initialize(state)

	events := state.(interface{ Events() []types.Event }).Events()
	require.Len(t, events, 2)
	assert.Equal(t, "greetings", events[0].Name)
	assert.Equal(t, address, events[0].Contract)
	assert.Equal(t, []any{"program", address.String(), "sender", sender.String()}, events[0].KeyValues)

	_, err = state.GetObject(address, core.ZeroObjectID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
