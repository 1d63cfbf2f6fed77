package util

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// DeriveSeed maps a global seed plus a record id to a per-record rng seed.
// The derivation is position-independent so shard order and worker count
// cannot change which seed a record gets.
func DeriveSeed(globalSeed int64, recordID string) int64 {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(globalSeed, 10)))
	h.Write([]byte{0})
	h.Write([]byte(recordID))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
