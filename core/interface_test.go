package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFromString(t *testing.T) {
	hexAddr := strings.Repeat("ab", 32)

	addr := AddressFromString("0x" + hexAddr)
	assert.Equal(t, hexAddr, addr.String())
	assert.Equal(t, addr, AddressFromString(hexAddr))

	// bad input collapses to the zero address
	assert.Equal(t, ZeroAddress, AddressFromString("0xsender"))
	assert.Equal(t, ZeroAddress, AddressFromString("abcd"))

	_, err := ParseAddress("abcd")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestObjectIDText(t *testing.T) {
	id := ObjectID{1, 2, 3}

	data, err := json.Marshal(struct {
		Slot ObjectID `json:"slot"`
	}{id})
	require.NoError(t, err)
	assert.Equal(t, `{"slot":"`+id.String()+`"}`, string(data))

	var out struct {
		Slot ObjectID `json:"slot"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, id, out.Slot)

	err = json.Unmarshal([]byte(`{"slot":"zz"}`), &out)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeriveObjectID(t *testing.T) {
	h := GetHash([]byte("tx"))

	a := DeriveObjectID(h, 1)
	b := DeriveObjectID(h, 2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, DeriveObjectID(h, 1))
	assert.NotEqual(t, ZeroObjectID, a)
}

func TestAuthenticatorFunc(t *testing.T) {
	alice := Address{1}
	only := AuthenticatorFunc(func(id Address) bool { return id == alice })

	assert.True(t, only.Authenticate(alice))
	assert.False(t, only.Authenticate(Address{2}))
	assert.True(t, AllowAll.Authenticate(Address{2}))
	assert.False(t, DenyAll.Authenticate(alice))
}
