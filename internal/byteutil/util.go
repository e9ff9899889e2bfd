// Package byteutil holds key encodings for the bbolt stores.
package byteutil

import (
	"encoding/binary"
	"unsafe"
)

// EncodeInt64ToBytes encodes id as an 8-byte big-endian key, so keys sort
// numerically for non-negative ids.
func EncodeInt64ToBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func DecodeBytesToInt64(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// BytesToString converts without copying. b must not be modified afterwards;
// bbolt values are only valid for the life of a transaction.
func BytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// PrefixedKey returns prefix followed by the encoded id.
func PrefixedKey(prefix string, id int64) []byte {
	b := make([]byte, len(prefix)+8)
	copy(b, prefix)
	binary.BigEndian.PutUint64(b[len(prefix):], uint64(id))
	return b
}
