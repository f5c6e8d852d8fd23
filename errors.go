// Package kmerbloom builds a probabilistic membership index over the
// k-mers of a DNA sequence. A FASTA file is streamed once: every window of
// k bases is reduced to its canonical 2-bit packed value (the smaller of
// the window and its reverse complement) and inserted into a Bloom filter.
// The filter is then queried for approximate presence.
//
// The pipeline is single pass and keeps O(1) state between characters. The
// hasher updates the forward and reverse complement values of the current
// window in constant time rather than repacking all k bases, and the
// filter derives its bit positions lazily from a xorshift chain so neither
// insert nor query allocates.
package kmerbloom

import "errors"

// Sentinel errors for programmatic handling. Every one of them is terminal
// for a run: a partially ingested filter is under-populated with no signal
// that it is incomplete, so nothing in the pipeline retries or skips.
var (
	ErrInvalidConfiguration = errors.New("invalid filter configuration")
	ErrInvalidK             = errors.New("k-mer length out of range")
	ErrMalformedInput       = errors.New("malformed sequence input")
	ErrInvalidSymbol        = errors.New("symbol outside nucleotide alphabet")
	ErrResourceUnavailable  = errors.New("sequence source unavailable")
	ErrIncompatible         = errors.New("filters have different geometry")
)
