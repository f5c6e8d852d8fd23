// Ingestion pipeline.
//
// Index ties the pieces together: a Scanner feeds bases to a Hasher, and
// every complete window's canonical hash is inserted into the Filter. The
// pass is synchronous with no buffering between stages. Each base read
// causes at most one insert before the next base is read.
//
// Any error ends the pass and is returned as is. The filter is left as it
// was at that point, but Ingest does not report the partial counts as a
// success, and callers are expected to discard the index.
package kmerbloom

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Stats summarises one ingestion pass.
type Stats struct {
	Bases       uint64        `json:"bases"`       // bases fed to the hasher
	Kmers       uint64        `json:"kmers"`       // windows inserted
	BytesRead   int64         `json:"bytes_read"`  // body bytes, including elided ones
	Elapsed     time.Duration `json:"elapsed_ns"`  // wall time of the pass
	Compression string        `json:"compression"` // source container, IngestFile only
}

// Index is a k-mer membership index.
type Index struct {
	config   Config
	alphabet Alphabet
	filter   *Filter
}

// New returns an empty index.
func New(config Config) (*Index, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	filter, err := NewFilter(config.Size, config.HashCount, config.Scheme)
	if err != nil {
		return nil, err
	}
	return &Index{
		config:   config,
		alphabet: NewAlphabet(),
		filter:   filter,
	}, nil
}

func (ix *Index) Config() Config  { return ix.config }
func (ix *Index) Filter() *Filter { return ix.filter }

// Ingest reads a FASTA record from r and inserts every k-mer of its body.
func (ix *Index) Ingest(r io.Reader) (Stats, error) {
	start := time.Now()
	sc, err := NewScanner(r)
	if err != nil {
		return Stats{}, err
	}
	h, err := NewHasher(ix.config.K, ix.alphabet)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for {
		c, err := sc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Stats{}, err
		}
		hash, ok, err := h.Push(c)
		if err != nil {
			return Stats{}, fmt.Errorf("base %d: %w", st.Bases, err)
		}
		st.Bases++
		if ok {
			ix.filter.Insert(hash)
			st.Kmers++
		}
	}
	st.BytesRead = sc.BytesRead()
	st.Elapsed = time.Since(start)
	return st, nil
}

// IngestFile opens path (decompressing if needed) and ingests it.
// opts may be nil.
func (ix *Index) IngestFile(path string, opts *SourceOptions) (Stats, error) {
	src, err := OpenSource(path, opts)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	st, err := ix.Ingest(src)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", path, err)
	}
	st.Compression = src.Compression.String()
	return st, nil
}

// Query reports whether kmer, or its reverse complement, may have been
// ingested. kmer must be exactly K bases long.
func (ix *Index) Query(kmer string) (bool, error) {
	if len(kmer) != ix.config.K {
		return false, fmt.Errorf("%w: query length %d, index k=%d", ErrInvalidK, len(kmer), ix.config.K)
	}
	hash, err := Canonical(ix.alphabet, []byte(kmer))
	if err != nil {
		return false, err
	}
	return ix.filter.Contains(hash), nil
}
