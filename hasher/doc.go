// Package hasher is a hand-written, incremental SHA-256 engine.
//
// An Engine accepts input through Append, AppendString or Write, compresses
// every complete 64-byte block as soon as it is available, and produces the
// eight-word chaining value once Finalize pads the message. Digest is the
// one-shot form returning the 43-character unpadded base64url rendering of
// the 32-byte result.
//
// The engine exists to be measured against crypto/sha256. It makes no
// constant-time guarantees. An Engine is not safe for concurrent use, but
// separate engines share nothing except the read-only round constants.
package hasher
