// Bit position derivation for the Bloom filter.
//
// A filter key is a canonical k-mer value. It is turned into hashCount bit
// positions by one of two schemes, selectable via Config.Scheme:
//
//   - SchemeChained: a xorshift64 chain seeded with value+1. Each position
//     costs one mixing step and nothing else, at the price of correlated
//     positions: two keys whose chains meet stay together for the rest of
//     the chain. This is the scheme the index has always used and it stays
//     the default so results remain comparable run to run.
//   - SchemeDouble: double hashing, h1 + i*h2, from two independent strong
//     hashes of the key (xxHash3 and Murmur3). Positions are far less
//     correlated. Prefer it for large filters where the false positive rate
//     matters more than a few nanoseconds per base.
//
// Both schemes yield positions lazily, so neither Insert nor Contains needs
// a buffer sized by hashCount.
package kmerbloom

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Scheme selects how bit positions are derived from a key.
type Scheme int

// Position schemes. The zero value means "use the default".
const (
	SchemeChained Scheme = 1 // Default, xorshift chain
	SchemeDouble  Scheme = 2 // xxHash3 + Murmur3 double hashing
)

// String returns the name accepted by ParseScheme.
func (s Scheme) String() string {
	switch s {
	case SchemeChained:
		return "chained"
	case SchemeDouble:
		return "double"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// ParseScheme maps a scheme name to its constant.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "chained", "":
		return SchemeChained, nil
	case "double":
		return SchemeDouble, nil
	}
	return 0, fmt.Errorf("%w: unknown scheme %q", ErrInvalidConfiguration, name)
}

func (s Scheme) valid() bool {
	return s == SchemeChained || s == SchemeDouble
}

// positions yields hashCount positions in [0, size) for value.
func (s Scheme) positions(value, hashCount, size uint64) iter.Seq[uint64] {
	if s == SchemeDouble {
		return double(value, hashCount, size)
	}
	return chained(value, hashCount, size)
}

// xorshift64 is Marsaglia's 13/7/17 xorshift. Zero is its only fixed point.
func xorshift64(x uint64) uint64 {
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return x
}

// chained mixes value+1 so that the all-A k-mer (value 0) does not map
// every position to bit 0.
func chained(value, hashCount, size uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		h := value + 1
		for range hashCount {
			h = xorshift64(h)
			if !yield(h % size) {
				return
			}
		}
	}
}

// double forces h2 odd so the stride is never zero.
func double(value, hashCount, size uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], value)
		h1 := xxh3.Hash(buf[:])
		h2 := murmur3.Sum64(buf[:]) | 1
		for i := range hashCount {
			if !yield((h1 + i*h2) % size) {
				return
			}
		}
	}
}
