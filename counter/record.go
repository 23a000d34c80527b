package counter

import (
	"encoding/binary"
	"fmt"

	"github.com/govm-net/counter/core"
)

// RecordSize is the persisted size of a Record: count then authority.
const RecordSize = 8 + len(core.Address{})

// Record is a counter and the identity allowed to increment it.
type Record struct {
	Count     uint64       `json:"count"`
	Authority core.Address `json:"authority"`
}

var (
	_ core.Encoder = Record{}
	_ core.Decoder = (*Record)(nil)
)

// Encode returns the fixed-size layout: big-endian count, then authority.
func (r Record) Encode() ([]byte, error) {
	buf := make([]byte, 0, RecordSize)
	buf = binary.BigEndian.AppendUint64(buf, r.Count)
	buf = append(buf, r.Authority[:]...)
	return buf, nil
}

func (r *Record) Decode(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("counter record: %w: want %d bytes, got %d", core.ErrInvalidArgument, RecordSize, len(data))
	}
	r.Count = binary.BigEndian.Uint64(data[:8])
	copy(r.Authority[:], data[8:])
	return nil
}
