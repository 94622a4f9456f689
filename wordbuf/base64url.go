package wordbuf

import "strings"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// EncodedLen returns the unpadded base64url length of n bytes.
func EncodedLen(n int) int {
	return (n*8 + 5) / 6
}

// EncodeBase64URL renders the first sigBytes bytes packed in
// words as unpadded base64url. A trailing group of one or two
// bytes yields two or three characters.
func EncodeBase64URL(words []uint32, sigBytes int) string {
	var sb strings.Builder

	sb.Grow(EncodedLen(sigBytes))

	for i := 0; i < sigBytes; i += 3 {
		triplet := uint32(byteAt(words, i))<<16 |
			uint32(sigByteAt(words, i+1, sigBytes))<<8 |
			uint32(sigByteAt(words, i+2, sigBytes))

		for j := 0; j < 4 && i*8+j*6 < sigBytes*8; j++ {
			sb.WriteByte(alphabet[(triplet>>(6*(3-uint(j))))&0x3f])
		}
	}

	return sb.String()
}

// sigByteAt is byteAt that also reads zero past sigBytes, so
// garbage in a partial last word never leaks into the output.
func sigByteAt(w []uint32, i, sigBytes int) byte {
	if i >= sigBytes {
		return 0
	}

	return byteAt(w, i)
}
