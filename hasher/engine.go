package hasher

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/byte4ever/fastcrypt/wordbuf"
)

const (
	// Size is the digest length in bytes.
	Size = 32

	// BlockSize is the compression block length in bytes.
	BlockSize = 64

	// DigestLen is the length of the base64url digest text.
	DigestLen = 43

	blockWords = BlockSize / 4
)

// ErrFinalized is returned when input is appended to an engine
// that has already been finalized.
var ErrFinalized = errors.New("engine already finalized")

// Engine is an incremental SHA-256 computation. Use New to
// obtain one in the open state.
type Engine struct {
	pending   wordbuf.Buffer
	chain     [8]uint32
	total     uint64
	retained  int
	finalized bool
	schedule  [64]uint32
}

// New returns an open engine.
func New() *Engine {
	return &Engine{chain: initial}
}

// NewRetaining returns an open engine that keeps the last
// blocks complete blocks buffered while streaming. They are
// compressed by Finalize.
func NewRetaining(blocks int) *Engine {
	en := New()
	en.retained = max(blocks, 0)

	return en
}

// Append adds the significant bytes of b.
func (en *Engine) Append(b *wordbuf.Buffer) error {
	const errCtx = "appending buffer"

	if en.finalized {
		return fmt.Errorf("%s: %w", errCtx, ErrFinalized)
	}

	if b == nil {
		return nil
	}

	en.pending.Concat(b)
	en.total += uint64(b.Len())
	en.process(false)

	return nil
}

// AppendString adds the UTF-8 bytes of s.
func (en *Engine) AppendString(s string) error {
	const errCtx = "appending string"

	if en.finalized {
		return fmt.Errorf("%s: %w", errCtx, ErrFinalized)
	}

	en.pending.AppendString(s)
	en.total += uint64(len(s))
	en.process(false)

	return nil
}

// Write adds p. It implements io.Writer.
func (en *Engine) Write(p []byte) (int, error) {
	const errCtx = "writing bytes"

	if en.finalized {
		return 0, fmt.Errorf("%s: %w", errCtx, ErrFinalized)
	}

	en.pending.AppendBytes(p)
	en.total += uint64(len(p))
	en.process(false)

	return len(p), nil
}

// process compresses the blocks available in pending. When
// flush is false only complete blocks beyond the retained
// count are taken; when true every block is, the caller having
// padded pending to a whole number of blocks.
func (en *Engine) process(flush bool) {
	n := en.pending.Len()

	var blocks int
	if flush {
		blocks = (n + BlockSize - 1) / BlockSize
	} else {
		blocks = max(n/BlockSize-en.retained, 0)
	}

	if blocks == 0 {
		return
	}

	words := en.pending.Words()

	for i := range blocks {
		block(&en.chain, &en.schedule, words[i*blockWords:(i+1)*blockWords])
	}

	en.pending.Consume(blocks * blockWords)
}

// Finalize pads the message, compresses the remaining blocks
// and returns the chaining value. The engine accepts no more
// input afterwards; further calls return the same value.
func (en *Engine) Finalize() [8]uint32 {
	if en.finalized {
		return en.chain
	}

	bitLen := en.total * 8
	left := en.pending.Len() * 8

	en.pending.Clamp()
	en.pending.OrWord(left>>5, 0x80<<(24-uint(left%32)))

	last := ((left+64)>>9)<<4 + 15
	en.pending.SetWord(last-1, uint32(bitLen>>32))
	en.pending.SetWord(last, uint32(bitLen))
	en.pending.SetLen((last + 1) * 4)

	en.process(true)
	en.finalized = true

	return en.chain
}

// Sum finalizes the engine and returns the big-endian digest.
func (en *Engine) Sum() [Size]byte {
	chain := en.Finalize()

	var out [Size]byte
	for i, w := range chain {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}

	return out
}

// Finalized reports whether Finalize has run.
func (en *Engine) Finalized() bool { return en.finalized }

// Len returns the number of bytes appended so far.
func (en *Engine) Len() uint64 { return en.total }

// Reset returns the engine to the open state with no input.
// The retained block count is kept.
func (en *Engine) Reset() {
	retained := en.retained
	*en = Engine{chain: initial, retained: retained}
}

// Clone returns an independent copy of the engine.
func (en *Engine) Clone() *Engine {
	cp := &Engine{
		chain:     en.chain,
		total:     en.total,
		retained:  en.retained,
		finalized: en.finalized,
	}
	cp.pending = *en.pending.Clone()

	return cp
}

// Digest hashes the UTF-8 bytes of s and returns the digest as
// 43 characters of unpadded base64url.
func Digest(s string) string {
	en := New()
	_ = en.AppendString(s) //nolint:errcheck // fresh engine is open

	chain := en.Finalize()

	return wordbuf.EncodeBase64URL(chain[:], Size)
}

// Sum256 returns the SHA-256 digest of p.
func Sum256(p []byte) [Size]byte {
	en := New()
	_, _ = en.Write(p) //nolint:errcheck // fresh engine is open

	return en.Sum()
}
