package hasher

import "hash"

var _ hash.Hash = (*digest)(nil)

// digest adapts an Engine to hash.Hash. Sum works on a clone so
// writes may continue afterwards.
type digest struct {
	en *Engine
}

// NewHash returns a hash.Hash computing SHA-256 with the
// engine, usable wherever crypto/sha256.New is.
func NewHash() hash.Hash {
	return &digest{en: New()}
}

func (d *digest) Write(p []byte) (int, error) { return d.en.Write(p) }

func (d *digest) Sum(b []byte) []byte {
	sum := d.en.Clone().Sum()

	return append(b, sum[:]...)
}

func (d *digest) Reset()         { d.en.Reset() }
func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return BlockSize }
