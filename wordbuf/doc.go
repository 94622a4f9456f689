// Package wordbuf holds byte strings packed four bytes per 32-bit word,
// most significant byte first, together with the exact count of
// significant bytes. It is the input queue of the hasher package: bytes
// are appended at the tail and whole words are consumed from the front
// through a read cursor, so partial consumption never reallocates.
//
// Bits of the final word beyond the significant byte count are
// unspecified. They are cleared before any data is merged into that word.
package wordbuf
