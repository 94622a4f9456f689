package digester

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/byte4ever/fastcrypt/hasher"
	"github.com/byte4ever/fastcrypt/wordbuf"
)

// chunkSize is the read size used when streaming input.
const chunkSize = 32 << 10

// Suffix is appended to a path to name its sidecar file.
const Suffix = ".digest"

// Reader streams r through the engine and returns the
// base64url digest together with the number of bytes read.
func Reader(r io.Reader) (string, int64, error) {
	const errCtx = "digesting reader"

	sum, n, err := SumReader(r)
	if err != nil {
		return "", n, fmt.Errorf("%s: %w", errCtx, err)
	}

	return Encode(sum), n, nil
}

// SumReader streams r through the engine and returns the raw
// digest together with the number of bytes read.
func SumReader(r io.Reader) ([hasher.Size]byte, int64, error) {
	const errCtx = "summing reader"

	en := hasher.New()

	n, err := io.CopyBuffer(
		en, r, make([]byte, chunkSize),
	)
	if err != nil {
		return [hasher.Size]byte{}, n, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return en.Sum(), n, nil
}

// Encode renders a raw digest as unpadded base64url.
func Encode(sum [hasher.Size]byte) string {
	return wordbuf.FromBytes(sum[:]).Base64URL()
}

// CalculateDigest computes the digest of the file at path.
// Returns empty string with no error if the file does not
// exist.
func CalculateDigest(path string) (result string, retErr error) {
	const errCtx = "calculating digest"

	fi, err := os.Open(path) //nolint:gosec // caller-provided path
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	dg, _, err := Reader(fi)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return dg, nil
}

// GetDigest reads a stored digest from the sidecar file.
// Returns empty string with no error if the sidecar file does
// not exist.
func GetDigest(path string) (string, error) {
	const errCtx = "getting stored digest"

	digest, err := os.ReadFile(path + Suffix) //nolint:gosec // caller-provided path
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return string(digest), nil
}

// VerifyDigest compares the calculated digest of the file
// against its stored sidecar digest. A file without a sidecar
// never verifies.
func VerifyDigest(path string) (bool, error) {
	const errCtx = "verifying digest"

	calc, err := CalculateDigest(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	stored, err := GetDigest(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if stored == "" {
		return false, nil
	}

	return calc == stored, nil
}

// SaveDigest calculates the digest of a file and writes it
// to the sidecar file.
func SaveDigest(path string) error {
	const errCtx = "saving digest"

	digest, err := CalculateDigest(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if digest == "" {
		return fmt.Errorf("%s: %w", errCtx, os.ErrNotExist)
	}

	if err := os.WriteFile(path+Suffix, []byte(digest), 0o600); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
