// Command kmerbloom builds a Bloom filter over the k-mers of a FASTA file
// and reports membership for a batch of random k-mers.
//
//	kmerbloom <file> <k> <filterSizeBits> <hashCount> <randomQueryCount>
//
// The report goes to Requests.txt unless --output says otherwise ("-" for
// standard output).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kmerbloom:", err)
		os.Exit(1)
	}
}
