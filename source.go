// Opening sequence sources.
//
// Reference genomes are usually shipped compressed. OpenSource sniffs the
// first bytes of the file and wraps it in a zstd or gzip decoder when the
// magic matches, so the scanner always sees plain FASTA text.
package kmerbloom

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression identifies the container a source was stored in.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

// Source is an opened sequence file, decompressed if needed.
type Source struct {
	io.Reader
	Compression Compression
	Size        int64 // on-disk size in bytes
	closers     []io.Closer
}

// Close releases the decoder and the file.
func (s *Source) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SourceOptions adjusts how OpenSource reads the file.
type SourceOptions struct {
	// Tap wraps the raw file reader before decompression, e.g. to count
	// on-disk bytes for a progress bar.
	Tap func(r io.Reader, size int64) io.Reader
}

// OpenSource opens path for reading. Failure to open or stat the file
// is reported as ErrResourceUnavailable. opts may be nil.
func OpenSource(path string, opts *SourceOptions) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
	var r io.Reader = f
	if opts != nil && opts.Tap != nil {
		r = opts.Tap(f, info.Size())
	}
	src, err := wrapSource(r)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.Size = info.Size()
	src.closers = append([]io.Closer{f}, src.closers...)
	return src, nil
}

// wrapSource picks a decoder for r by its magic bytes.
func wrapSource(r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(magicZstd))
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, magicZstd):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrMalformedInput, err)
		}
		return &Source{Reader: dec, Compression: CompressionZstd, closers: []io.Closer{zstdCloser{dec}}}, nil
	case bytes.HasPrefix(head, magicGzip):
		dec, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrMalformedInput, err)
		}
		return &Source{Reader: dec, Compression: CompressionGzip, closers: []io.Closer{dec}}, nil
	}
	return &Source{Reader: br, Compression: CompressionNone}, nil
}

// zstdCloser adapts zstd.Decoder, whose Close returns nothing.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}
