package auth

import (
	"encoding/binary"

	"github.com/govm-net/counter/core"
)

// Transaction is a signed request to run one program function
type Transaction struct {
	Sender    core.Address
	Program   core.Address
	Function  string
	Args      []byte
	Nonce     uint64
	Signature Signature
}

// SigningBytes returns the message the sender signs. Every field except the
// signature is length-prefixed so no two transactions share an encoding.
func (tx *Transaction) SigningBytes() []byte {
	buf := make([]byte, 0, 2*len(core.Address{})+len(tx.Function)+len(tx.Args)+20)
	buf = append(buf, tx.Sender[:]...)
	buf = append(buf, tx.Program[:]...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(tx.Function)))
	buf = append(buf, tx.Function...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(tx.Args)))
	buf = append(buf, tx.Args...)
	buf = binary.BigEndian.AppendUint64(buf, tx.Nonce)
	return buf
}

// Hash identifies the transaction by its signed content. The signature is
// left out: ZIP-215 accepts more than one encoding of the same signature.
func (tx *Transaction) Hash() core.Hash {
	return core.GetHash(tx.SigningBytes())
}

// Sign sets the sender to the key's address and signs the transaction.
func (tx *Transaction) Sign(p PrivateKey) {
	tx.Sender = p.Address()
	tx.Signature = Sign(tx.SigningBytes(), p)
}

// Verify reports whether the signature was produced by the sender.
func (tx *Transaction) Verify() bool {
	return Verify(tx.SigningBytes(), tx.Sender, tx.Signature)
}

// ForTransaction authenticates exactly the sender of tx, and only when its
// signature verifies. Verification runs once.
func ForTransaction(tx *Transaction) core.Authenticator {
	valid := tx.Verify()
	sender := tx.Sender
	return core.AuthenticatorFunc(func(identity core.Address) bool {
		return valid && identity == sender
	})
}
