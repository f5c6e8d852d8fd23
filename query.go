// Random query driver.
//
// RandomQueries draws uniformly random k-mers and checks each against the
// index. Queries hash through Canonical, not through a Hasher, so they
// exercise the non-incremental formula and catch any disagreement with
// the rolling update used during ingestion.
package kmerbloom

import (
	"math/rand/v2"
	"strings"
)

// Result is the outcome of one membership query.
type Result struct {
	Kmer    string `json:"kmer"`
	Present bool   `json:"present"`
}

// RandomKmer returns a uniformly random k-mer over ACGT.
func RandomKmer(rng *rand.Rand, k int) string {
	var b strings.Builder
	b.Grow(k)
	for range k {
		b.WriteByte(Bases[rng.IntN(len(Bases))])
	}
	return b.String()
}

// RandomQueries runs n random queries against ix.
func (ix *Index) RandomQueries(rng *rand.Rand, n uint64) ([]Result, error) {
	results := make([]Result, 0, n)
	for range n {
		kmer := RandomKmer(rng, ix.config.K)
		present, err := ix.Query(kmer)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Kmer: kmer, Present: present})
	}
	return results, nil
}
