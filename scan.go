// Sequence scanner for single-record FASTA input.
//
// The first line is a header and is discarded whole. The rest is read one
// byte at a time. Line breaks and the ambiguous-base marker N are dropped
// so the hasher only ever sees a continuous run of bases.
//
// Dropping N joins the bases on either side of an N run. Windows that
// straddle the run are therefore k-mers that do not occur in the real
// sequence and end up in the filter. This is a known simplification:
// callers that need exact k-mer sets must split on N themselves.
package kmerbloom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// AmbiguousBase is elided from the sequence body.
const AmbiguousBase = 'N'

// Scanner yields the bases of a FASTA body.
type Scanner struct {
	r     *bufio.Reader
	bytes int64 // body bytes read, including elided ones
}

// NewScanner consumes the header line of r. It returns ErrMalformedInput if
// r ends before the first line break; nothing after that point is read.
func NewScanner(r io.Reader) (*Scanner, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	if _, err := br.ReadSlice('\n'); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: no header line", ErrMalformedInput)
		case errors.Is(err, bufio.ErrBufferFull):
			// Header longer than the buffer: keep discarding.
			if err := skipLine(br); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}
	return &Scanner{r: br}, nil
}

func skipLine(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: no header line", ErrMalformedInput)
		default:
			return err
		}
	}
}

// Next returns the next base, or io.EOF once the body is exhausted.
func (s *Scanner) Next() (byte, error) {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return 0, err
		}
		s.bytes++
		if c == '\n' || c == '\r' || c == AmbiguousBase {
			continue
		}
		return c, nil
	}
}

// BytesRead returns the number of body bytes consumed so far.
func (s *Scanner) BytesRead() int64 {
	return s.bytes
}
