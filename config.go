// Index configuration.
//
// Config mirrors the command line: k-mer length, filter size in bits, hash
// count and position scheme. Zero values that have a sensible default are
// filled in by New; the rest are rejected.
package kmerbloom

import "fmt"

// Default values applied by New.
const (
	DefaultScheme = SchemeChained
)

// Config holds index parameters.
type Config struct {
	K         int    // k-mer length, 1..MaxK
	Size      uint64 // filter size in bits
	HashCount uint64 // positions per k-mer
	Scheme    Scheme // 1=chained (default), 2=double
}

// withDefaults returns c with zero-valued optional fields filled in.
func (c Config) withDefaults() Config {
	if c.Scheme == 0 {
		c.Scheme = DefaultScheme
	}
	return c
}

// Validate checks c after defaults have been applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	if err := checkK(c.K); err != nil {
		return err
	}
	if c.Size == 0 || c.HashCount == 0 {
		return fmt.Errorf("%w: size=%d hashCount=%d", ErrInvalidConfiguration, c.Size, c.HashCount)
	}
	if !c.Scheme.valid() {
		return fmt.Errorf("%w: unknown scheme %d", ErrInvalidConfiguration, int(c.Scheme))
	}
	return nil
}
