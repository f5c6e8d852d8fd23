// Nucleotide codec.
//
// Alphabet is a fixed bijection between the four DNA bases and 2-bit codes,
// plus the Watson-Crick complement relation. Codes follow lexicographic
// order (A < C < G < T maps to 0 < 1 < 2 < 3), which is what lets the
// hasher pick the canonical k-mer by comparing packed integers instead of
// strings.
//
// The tables are plain arrays held by value. An Alphabet is built once by
// NewAlphabet and handed to whoever needs it; there is no package state to
// mutate.
package kmerbloom

import "fmt"

// Bases lists the alphabet in code order.
const Bases = "ACGT"

// invalid marks a byte with no code in the lookup tables.
const invalid = 0xFF

// Alphabet holds the encoding and complement tables.
type Alphabet struct {
	code       [256]uint8
	complement [256]byte
}

// NewAlphabet returns the ACGT alphabet.
func NewAlphabet() Alphabet {
	var a Alphabet
	for i := range a.code {
		a.code[i] = invalid
	}
	for i := 0; i < len(Bases); i++ {
		a.code[Bases[i]] = uint8(i)
	}
	a.complement['A'] = 'T'
	a.complement['T'] = 'A'
	a.complement['C'] = 'G'
	a.complement['G'] = 'C'
	return a
}

// Encode returns the 2-bit code of base.
func (a *Alphabet) Encode(base byte) (uint64, error) {
	c := a.code[base]
	if c == invalid {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, base)
	}
	return uint64(c), nil
}

// Complement returns the Watson-Crick partner of base.
func (a *Alphabet) Complement(base byte) (byte, error) {
	c := a.complement[base]
	if c == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, base)
	}
	return c, nil
}

// encodeComplement returns the code of base's complement.
func (a *Alphabet) encodeComplement(base byte) (uint64, error) {
	c, err := a.Complement(base)
	if err != nil {
		return 0, err
	}
	return a.Encode(c)
}

// ReverseComplement reverses seq and complements every base.
func (a *Alphabet) ReverseComplement(seq string) (string, error) {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c, err := a.Complement(seq[len(seq)-1-i])
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	return string(out), nil
}
