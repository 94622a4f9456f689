// Package digester computes SHA-256 digests of readers and files with
// the hasher engine and renders them as unpadded base64url. It stores
// digests in companion .digest files alongside the original so a later
// run can tell whether the content changed.
package digester
