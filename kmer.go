// Canonical k-mer hashing.
//
// A window of k bases is packed two bits per base, most significant first,
// into a uint64 (so k is capped at 31). The hasher tracks two such values
// for the current window: forward, the window itself, and reverse, its
// reverse complement. The canonical hash is the smaller of the two, so a
// motif and its reverse complement (the same double stranded sequence read
// from the other strand) always produce the same key.
//
// The hasher has two states. While filling, bases are buffered until k
// have been seen; both values are then packed directly. While sliding,
// each new base updates both values in O(1):
//
//	forward = ((forward << 2) & mask) + code(c)
//	reverse = (reverse >> 2) + (code(complement(c)) << 2(k-1))
//
// Shifting forward left and masking drops the oldest base from the high
// end. Shifting reverse right drops the same base's complement from the
// low end. Both track one window from opposite ends.
package kmerbloom

import "fmt"

// MaxK is the longest k-mer that fits the packed 64-bit representation.
const MaxK = 31

// Hasher computes canonical hashes over a sliding window of bases.
type Hasher struct {
	alphabet Alphabet
	k        int
	mask     uint64
	shift    uint // 2*(k-1), position of the newest complement code
	filled   int
	window   []byte // bases seen while filling
	forward  uint64
	reverse  uint64
}

// NewHasher returns a hasher for k-mers of length k.
func NewHasher(k int, a Alphabet) (*Hasher, error) {
	if err := checkK(k); err != nil {
		return nil, err
	}
	return &Hasher{
		alphabet: a,
		k:        k,
		mask:     kmerMask(k),
		shift:    uint(2 * (k - 1)),
		window:   make([]byte, 0, k),
	}, nil
}

func checkK(k int) error {
	if k < 1 || k > MaxK {
		return fmt.Errorf("%w: k=%d, want 1..%d", ErrInvalidK, k, MaxK)
	}
	return nil
}

// kmerMask has exactly the low 2k bits set.
func kmerMask(k int) uint64 {
	return uint64(1)<<(2*uint(k)) - 1
}

// Push consumes one base. Once k bases have been consumed it returns the
// canonical hash of the window ending at c with ok set. An invalid base
// returns ErrInvalidSymbol and leaves the window unchanged.
func (h *Hasher) Push(c byte) (hash uint64, ok bool, err error) {
	if h.filled < h.k {
		if _, err := h.alphabet.Encode(c); err != nil {
			return 0, false, err
		}
		h.window = append(h.window, c)
		h.filled++
		if h.filled < h.k {
			return 0, false, nil
		}
		// Validated above, cannot fail.
		h.forward, _ = Pack(h.alphabet, h.window)
		h.reverse, _ = packReverse(h.alphabet, h.window)
		return min(h.forward, h.reverse), true, nil
	}

	code, err := h.alphabet.Encode(c)
	if err != nil {
		return 0, false, err
	}
	comp, _ := h.alphabet.encodeComplement(c)
	h.forward = ((h.forward << 2) & h.mask) + code
	h.reverse = (h.reverse >> 2) + (comp << h.shift)
	return min(h.forward, h.reverse), true, nil
}

// Reset discards the window and returns to the filling state.
func (h *Hasher) Reset() {
	h.filled = 0
	h.window = h.window[:0]
	h.forward = 0
	h.reverse = 0
}

func (h *Hasher) K() int { return h.k }
func (h *Hasher) Full() bool { return h.filled == h.k }
func (h *Hasher) Forward() uint64 { return h.forward }
func (h *Hasher) Reverse() uint64 { return h.reverse }
func (h *Hasher) Canonical() uint64 { return min(h.forward, h.reverse) }

// Pack encodes kmer two bits per base, first base most significant.
func Pack(a Alphabet, kmer []byte) (uint64, error) {
	var v uint64
	for _, c := range kmer {
		code, err := a.Encode(c)
		if err != nil {
			return 0, err
		}
		v = v<<2 + code
	}
	return v, nil
}

// packReverse packs the reverse complement of kmer without building it.
func packReverse(a Alphabet, kmer []byte) (uint64, error) {
	var v uint64
	for i := len(kmer) - 1; i >= 0; i-- {
		code, err := a.encodeComplement(kmer[i])
		if err != nil {
			return 0, err
		}
		v = v<<2 + code
	}
	return v, nil
}

// Canonical returns the canonical hash of a complete k-mer. It is the
// non-incremental form of Push and must agree with it for every window;
// queries go through here while ingestion goes through Push.
func Canonical(a Alphabet, kmer []byte) (uint64, error) {
	if err := checkK(len(kmer)); err != nil {
		return 0, err
	}
	fwd, err := Pack(a, kmer)
	if err != nil {
		return 0, err
	}
	rev, err := packReverse(a, kmer)
	if err != nil {
		return 0, err
	}
	return min(fwd, rev), nil
}

// Decode unpacks value into a k-mer of length k. Bits above 2k are ignored.
func Decode(value uint64, k int) string {
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = Bases[value&3]
		value >>= 2
	}
	return string(out)
}
