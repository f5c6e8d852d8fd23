// Bit-array Bloom filter keyed by canonical k-mer values.
//
// Storage is a bitset of exactly size bits. Insert sets the hashCount
// derived positions; Contains reports true only when all of them are set
// and stops at the first clear bit. Bits are never cleared, so a value
// that was inserted is always reported present (no false negatives) while
// an absent value may still collide (false positives).
//
// Contains keeps no scratch state, so a filter that is no longer being
// built can be queried from any number of goroutines. Insert must not run
// concurrently with anything else.
package kmerbloom

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/crypto/blake2b"
)

// Filter is a fixed-size Bloom filter.
type Filter struct {
	size      uint64
	hashCount uint64
	scheme    Scheme
	bits      *bitset.BitSet
}

// NewFilter allocates size cleared bits. A zero scheme selects
// SchemeChained.
func NewFilter(size, hashCount uint64, scheme Scheme) (*Filter, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: size must be positive", ErrInvalidConfiguration)
	}
	if hashCount == 0 {
		return nil, fmt.Errorf("%w: hash count must be positive", ErrInvalidConfiguration)
	}
	if scheme == 0 {
		scheme = SchemeChained
	}
	if !scheme.valid() {
		return nil, fmt.Errorf("%w: unknown scheme %d", ErrInvalidConfiguration, int(scheme))
	}
	return &Filter{
		size:      size,
		hashCount: hashCount,
		scheme:    scheme,
		bits:      bitset.New(uint(size)),
	}, nil
}

// Insert sets every position derived from value.
func (f *Filter) Insert(value uint64) {
	for pos := range f.scheme.positions(value, f.hashCount, f.size) {
		f.bits.Set(uint(pos))
	}
}

// Contains returns true if value might be present, false if definitely absent.
func (f *Filter) Contains(value uint64) bool {
	for pos := range f.scheme.positions(value, f.hashCount, f.size) {
		if !f.bits.Test(uint(pos)) {
			return false
		}
	}
	return true
}

// Positions returns the bit positions derived from value, in chain order.
func (f *Filter) Positions(value uint64) []uint64 {
	return slices.AppendSeq(make([]uint64, 0, f.hashCount), f.scheme.positions(value, f.hashCount, f.size))
}

func (f *Filter) Size() uint64 { return f.size }
func (f *Filter) HashCount() uint64 { return f.hashCount }
func (f *Filter) Scheme() Scheme { return f.scheme }

// Count returns the number of set bits.
func (f *Filter) Count() uint64 {
	return uint64(f.bits.Count())
}

// FillRatio returns the fraction of bits set.
func (f *Filter) FillRatio() float64 {
	return float64(f.Count()) / float64(f.size)
}

// FalsePositiveRate estimates the false positive probability after n
// insertions of distinct keys: (1 - e^(-kn/m))^k.
func (f *Filter) FalsePositiveRate(n uint64) float64 {
	k := float64(f.hashCount)
	return math.Pow(1-math.Exp(-k*float64(n)/float64(f.size)), k)
}

// Union ORs other into f. Both filters must share size, hash count and
// scheme, otherwise the same key would map to different positions in each.
// Filters built from separate shards of a sequence and merged this way
// answer exactly as one filter built from the whole sequence.
func (f *Filter) Union(other *Filter) error {
	if f.size != other.size || f.hashCount != other.hashCount || f.scheme != other.scheme {
		return fmt.Errorf("%w: %d/%d/%s vs %d/%d/%s", ErrIncompatible,
			f.size, f.hashCount, f.scheme, other.size, other.hashCount, other.scheme)
	}
	f.bits.InPlaceUnion(other.bits)
	return nil
}

// Digest returns a 64 hex character BLAKE2b-256 digest of the bit array.
// Two filters with equal geometry have equal digests iff their bits match.
func (f *Filter) Digest() string {
	h, _ := blake2b.New256(nil) // unkeyed never errors
	var buf [8]byte
	for _, w := range f.bits.Bytes() {
		binary.LittleEndian.PutUint64(buf[:], w)
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
