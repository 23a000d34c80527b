package memory

import (
	"testing"

	"github.com/govm-net/counter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestContext(t *testing.T) *defaultStateContext {
	ctx, err := NewStateContext(nil)
	require.NoError(t, err)
	return ctx.(*defaultStateContext)
}

func TestTransactionContext(t *testing.T) {
	ctx := setupTestContext(t)

	sender := core.Address{0xaa}
	contract := core.Address{0xcc}
	txHash := core.GetHash([]byte("tx"))

	require.NoError(t, ctx.SetTransactionInfo(txHash, sender, contract))

	assert.Equal(t, sender, ctx.Sender())
	assert.Equal(t, txHash, ctx.TransactionHash())
}

func TestMarkTransaction(t *testing.T) {
	ctx := setupTestContext(t)
	txHash := core.GetHash([]byte("tx"))

	seen, err := ctx.SeenTransaction(txHash)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, ctx.MarkTransaction(txHash))
	assert.ErrorIs(t, ctx.MarkTransaction(txHash), core.ErrDuplicateTransaction)

	seen, err = ctx.SeenTransaction(txHash)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestObjectOperations(t *testing.T) {
	ctx := setupTestContext(t)

	contract := core.Address{0xcc}
	sender := core.Address{0xaa}
	id := core.ObjectID{1}

	// Test object creation with initial fields
	obj, err := ctx.CreateObjectWithID(contract, id, map[string][]byte{"name": []byte("test")})
	require.NoError(t, err)
	assert.Equal(t, id, obj.ID())
	assert.Equal(t, contract, obj.Owner())
	assert.Equal(t, contract, obj.Contract())

	value, err := obj.Get(contract, "name")
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), value)

	// The owning contract may write on behalf of any sender
	require.NoError(t, obj.Set(contract, sender, "name", []byte("updated")))

	obj2, err := ctx.GetObject(contract, id)
	require.NoError(t, err)
	value, err = obj2.Get(contract, "name")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), value)

	_, err = obj2.Get(contract, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateObjectTwice(t *testing.T) {
	ctx := setupTestContext(t)

	contract := core.Address{0xcc}
	id := core.ObjectID{1}

	_, err := ctx.CreateObjectWithID(contract, id, map[string][]byte{"v": {1}})
	require.NoError(t, err)

	_, err = ctx.CreateObjectWithID(contract, id, map[string][]byte{"v": {2}})
	assert.ErrorIs(t, err, core.ErrAllocation)

	obj, err := ctx.GetObject(contract, id)
	require.NoError(t, err)
	value, err := obj.Get(contract, "v")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, value)
}

func TestObjectIsolation(t *testing.T) {
	ctx := setupTestContext(t)

	contract := core.Address{0xcc}
	other := core.Address{0xdd}
	id := core.ObjectID{1}

	obj, err := ctx.CreateObjectWithID(contract, id, nil)
	require.NoError(t, err)

	_, err = ctx.GetObject(contract, core.ObjectID{2})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = ctx.GetObject(other, id)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.ErrorIs(t, obj.Set(other, other, "v", []byte{1}), core.ErrUnauthorized)
	_, err = obj.Get(other, "v")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestFieldsAreCopied(t *testing.T) {
	ctx := setupTestContext(t)

	contract := core.Address{0xcc}
	data := []byte{1, 2}
	obj, err := ctx.CreateObjectWithID(contract, core.ObjectID{1}, map[string][]byte{"v": data})
	require.NoError(t, err)

	data[0] = 9
	value, err := obj.Get(contract, "v")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, value)
}

func TestEventLogging(t *testing.T) {
	ctx := setupTestContext(t)

	contract := core.Address{0xcc}
	txHash := core.GetHash([]byte("tx"))
	require.NoError(t, ctx.SetTransactionInfo(txHash, core.Address{0xaa}, contract))

	ctx.Log(contract, "TestEvent", "key1", "value1", "key2", 123)

	events := ctx.Events()
	require.Len(t, events, 1)
	assert.Equal(t, txHash, events[0].TxHash)
	assert.Equal(t, contract, events[0].Contract)
	assert.Equal(t, "TestEvent", events[0].Name)
	assert.Equal(t, []any{"key1", "value1", "key2", 123}, events[0].KeyValues)
}
