package core

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint returns a stable content digest for a stage invocation.
// The stage name and every part are length-prefixed before hashing so that
// ("ab","c") and ("a","bc") never collide. The result is identical across
// processes and hosts, which makes it safe to use as a shared cache key.
func Fingerprint(stage string, parts ...[]byte) string {
	h, _ := blake2b.New(32, nil) // 32 bytes = 256 bits
	var lenBuf [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(lenBuf[:], uint64(len(stage)))
	h.Write(lenBuf[:n])
	h.Write([]byte(stage))

	for _, part := range parts {
		n = binary.PutUvarint(lenBuf[:], uint64(len(part)))
		h.Write(lenBuf[:n])
		h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
