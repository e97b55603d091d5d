package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"fortio.org/safecast"

	"dust/internal/version"
)

// Digest is a sha256 value used as a cache key.
type Digest [32]byte

// combineDigest: H(content || salt1 || salt2 ...). Порядок солей важен.
func combineDigest(content Digest, salts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, s := range salts {
		_, _ = h.Write(s)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey derives the cache key of a file: its content hash salted with the
// tool version and the diagnostics limit, since both change the stored result.
func CacheKey(content [32]byte, maxDiagnostics int) Digest {
	limit, err := safecast.Conv[uint64](max(maxDiagnostics, 0))
	if err != nil {
		limit = 0
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], limit)
	return combineDigest(Digest(content), []byte(version.Version), buf[:])
}
