package wordbuf

import "slices"

// Buffer is a growable sequence of big-endian packed words with
// a byte-precise length. The zero value is an empty buffer ready
// to use. A Buffer must not be shared between goroutines without
// external locking.
type Buffer struct {
	words    []uint32
	off      int
	sigBytes int
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// FromString packs the UTF-8 bytes of s.
func FromString(s string) *Buffer {
	b := &Buffer{}
	appendRaw(b, s)

	return b
}

// FromBytes packs a copy of p.
func FromBytes(p []byte) *Buffer {
	b := &Buffer{}
	appendRaw(b, p)

	return b
}

// FromWords wraps already packed words. A negative sigBytes
// means every byte of every word is significant. The buffer
// takes ownership of words.
func FromWords(words []uint32, sigBytes int) *Buffer {
	if sigBytes < 0 {
		sigBytes = len(words) * 4
	}

	return &Buffer{words: words, sigBytes: sigBytes}
}

// Len returns the number of significant bytes.
func (b *Buffer) Len() int { return b.sigBytes }

// Words returns the unconsumed words. The slice aliases the
// buffer and is only valid until the next mutation.
func (b *Buffer) Words() []uint32 { return b.words[b.off:] }

// Bytes unpacks the significant bytes into a new slice.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.sigBytes)
	w := b.Words()

	for i := range out {
		out[i] = byteAt(w, i)
	}

	return out
}

// Clone returns a deep copy holding only the unconsumed words.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		words:    slices.Clone(b.Words()),
		sigBytes: b.sigBytes,
	}
}

// Clamp zeroes the bits past the last significant byte and
// drops any words beyond it.
func (b *Buffer) Clamp() {
	n := (b.sigBytes + 3) / 4
	b.grow(n)
	b.words = b.words[:b.off+n]

	if r := b.sigBytes % 4; r != 0 {
		b.words[b.off+n-1] &= 0xffffffff << (32 - 8*uint(r))
	}
}

// Concat appends the significant bytes of src. Whole words are
// copied when the current length is word aligned, otherwise
// every byte is shifted into place.
func (b *Buffer) Concat(src *Buffer) {
	if src == nil || src.sigBytes <= 0 {
		return
	}

	if src == b {
		src = src.Clone()
	}

	b.Clamp()

	pos := b.sigBytes
	sw := src.Words()
	need := (src.sigBytes + 3) / 4

	if pos%4 == 0 && len(sw) >= need {
		b.words = append(b.words, sw[:need]...)
		b.sigBytes += src.sigBytes

		return
	}

	b.grow((pos + src.sigBytes + 3) / 4)
	dw := b.Words()

	for i := range src.sigBytes {
		at := pos + i
		dw[at>>2] |= uint32(byteAt(sw, i)) << shift(at)
	}

	b.sigBytes += src.sigBytes
}

// AppendString packs the UTF-8 bytes of s onto the tail.
func (b *Buffer) AppendString(s string) { appendRaw(b, s) }

// AppendBytes packs p onto the tail.
func (b *Buffer) AppendBytes(p []byte) { appendRaw(b, p) }

// Consume drops up to nWords words from the front and returns
// the number of significant bytes removed.
func (b *Buffer) Consume(nWords int) int {
	live := len(b.words) - b.off
	nWords = min(max(nWords, 0), live)

	n := min(nWords*4, b.sigBytes)
	b.off += nWords
	b.sigBytes -= n

	// Compact once the dead prefix outweighs the live tail.
	if b.off > 0 && b.off >= len(b.words)-b.off {
		k := copy(b.words, b.words[b.off:])
		b.words = b.words[:k]
		b.off = 0
	}

	return n
}

// SetWord stores v at word index i past the cursor, growing
// the buffer with zero words as needed. The byte length is not
// changed.
func (b *Buffer) SetWord(i int, v uint32) {
	b.grow(i + 1)
	b.words[b.off+i] = v
}

// OrWord merges v into word index i past the cursor, growing
// the buffer with zero words as needed.
func (b *Buffer) OrWord(i int, v uint32) {
	b.grow(i + 1)
	b.words[b.off+i] |= v
}

// SetLen sets the significant byte count, growing the buffer
// with zero words when n extends past the current words.
func (b *Buffer) SetLen(n int) {
	n = max(n, 0)
	b.grow((n + 3) / 4)
	b.sigBytes = n
}

// Base64URL renders the significant bytes with the URL-safe
// alphabet and no padding.
func (b *Buffer) Base64URL() string {
	return EncodeBase64URL(b.Words(), b.sigBytes)
}

// grow makes sure at least n words follow the cursor.
func (b *Buffer) grow(n int) {
	need := b.off + n
	if need <= len(b.words) {
		return
	}

	old := len(b.words)
	b.words = slices.Grow(b.words, need-old)[:need]
	clear(b.words[old:])
}

func appendRaw[T ~string | ~[]byte](b *Buffer, p T) {
	if len(p) == 0 {
		return
	}

	b.Clamp()

	pos := b.sigBytes
	b.grow((pos + len(p) + 3) / 4)
	w := b.Words()

	i := 0
	for ; i < len(p) && (pos+i)%4 != 0; i++ {
		w[(pos+i)>>2] |= uint32(p[i]) << shift(pos+i)
	}

	for ; i+4 <= len(p); i += 4 {
		w[(pos+i)>>2] = uint32(p[i])<<24 |
			uint32(p[i+1])<<16 |
			uint32(p[i+2])<<8 |
			uint32(p[i+3])
	}

	for ; i < len(p); i++ {
		w[(pos+i)>>2] |= uint32(p[i]) << shift(pos+i)
	}

	b.sigBytes += len(p)
}

// shift is the left shift placing byte i inside its word.
func shift(i int) uint {
	return 24 - 8*uint(i%4)
}

// byteAt extracts byte i from packed words, reading zero past
// the end of the slice.
func byteAt(w []uint32, i int) byte {
	if i>>2 >= len(w) {
		return 0
	}

	return byte(w[i>>2] >> shift(i))
}
