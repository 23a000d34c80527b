package core

import (
	"crypto/sha256"
	"encoding/binary"
)

// GetHash calculates the SHA-256 hash of data
func GetHash(data []byte) Hash {
	return sha256.Sum256(data)
}

// DeriveObjectID derives a slot ID from a transaction hash and a per-transaction nonce
func DeriveObjectID(txHash Hash, nonce uint64) ObjectID {
	buf := make([]byte, 0, len(txHash)+8)
	buf = append(buf, txHash[:]...)
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return ObjectID(GetHash(buf))
}
