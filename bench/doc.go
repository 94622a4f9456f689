// Package bench measures the hasher engine against other SHA-256
// implementations on the same message: the standard library's
// crypto/sha256 and github.com/minio/sha256-simd. The fastcrypt-digest
// candidate covers the whole text path of the engine, from string packing
// to the base64url digest. Every candidate must
// produce the same digest; a disagreement fails the run.
//
// Run spreads the iterations of each candidate over a bounded pool of
// workers. Each worker keeps its own hash state, so the parallel mode
// also shows that engines share nothing. The resulting Report encodes to
// JSON with goccy/go-json.
package bench
