package utils

// FNV-1a parameters.
const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Hasher is a value-typed FNV-1a accumulator used for AST fingerprints.
// Every method returns the updated hasher, so fingerprints can be built
// without allocating a hash.Hash64.
type Hasher uint64

// NewHasher starts a fingerprint seeded with a node tag.
func NewHasher(tag string) Hasher {
	return Hasher(offset64).String(tag)
}

func (h Hasher) Byte(b byte) Hasher {
	x := uint64(h)
	x ^= uint64(b)
	x *= prime64
	return Hasher(x)
}

// String mixes s followed by a separator so that ("ab","c") and ("a","bc")
// produce different sums.
func (h Hasher) String(s string) Hasher {
	for i := 0; i < len(s); i++ {
		h = h.Byte(s[i])
	}
	return h.Byte(0xff)
}

func (h Hasher) U64(v uint64) Hasher {
	for i := 0; i < 8; i++ {
		h = h.Byte(byte(v >> (8 * i)))
	}
	return h
}

func (h Hasher) Int(v int) Hasher {
	return h.U64(uint64(v))
}

func (h Hasher) Bool(b bool) Hasher {
	if b {
		return h.Byte(1)
	}
	return h.Byte(0)
}

func (h Hasher) Sum() uint64 { return uint64(h) }

// FingerprintString hashes a plain string.
func FingerprintString(s string) uint64 {
	return NewHasher("").String(s).Sum()
}

// Mix64 combines two fingerprints; order matters.
func Mix64(a, b uint64) uint64 {
	return Hasher(offset64).U64(a).U64(b).Sum()
}
