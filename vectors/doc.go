// Package vectors checks the hasher engine against SHA-256 known-answer
// vectors. Vectors are read from YAML documents; a built-in set taken
// from FIPS 180 examples and common reference strings is embedded.
//
// Each message is fed to the engine in uneven chunks so a vector also
// exercises block boundaries in the streaming path.
package vectors
