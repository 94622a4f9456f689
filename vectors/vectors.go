package vectors

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/fastcrypt/hasher"
	"github.com/byte4ever/fastcrypt/wordbuf"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidVector is returned when a vector is malformed.
var ErrInvalidVector = errors.New("invalid vector")

// chunkSizes is the cycle of append sizes used by Check.
var chunkSizes = []int{1, 3, 61, 64, 67, 4096}

// Vector is one known-answer test case. The message is Input
// repeated Repeat times; zero means once.
type Vector struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Repeat int    `yaml:"repeat"`
	Hex    string `yaml:"hex"`
}

// Result is the outcome of checking one Vector. Want and Got
// are base64url digests.
type Result struct {
	Name string
	Want string
	Got  string
	OK   bool
}

type document struct {
	Vectors []Vector `yaml:"vectors"`
}

// Message returns the full message of the vector.
func (v Vector) Message() string {
	return strings.Repeat(v.Input, max(v.Repeat, 1))
}

// Default returns the embedded vector set.
func Default() ([]Vector, error) {
	const errCtx = "loading default vectors"

	vs, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return vs, nil
}

// LoadFile reads vectors from a YAML file.
func LoadFile(path string) ([]Vector, error) {
	const errCtx = "loading vector file"

	fi, err := os.Open(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer fi.Close() //nolint:errcheck // read-only file

	vs, err := Load(fi)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return vs, nil
}

// Load decodes one or more YAML documents, each holding a
// "vectors" list, and validates every vector.
func Load(in io.Reader) ([]Vector, error) {
	const errCtx = "decoding vectors"

	decoder := yaml.NewDecoder(in)

	var out []Vector

	for {
		var doc document

		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf(
				"%s: decoding yaml: %w",
				errCtx, err,
			)
		}

		for _, v := range doc.Vectors {
			if err := v.validate(); err != nil {
				return nil, fmt.Errorf(
					"%s: %w", errCtx, err,
				)
			}

			out = append(out, v)
		}
	}

	return out, nil
}

func (v Vector) validate() error {
	if v.Name == "" {
		return fmt.Errorf(
			"%w: missing name (hex %q)",
			ErrInvalidVector, v.Hex,
		)
	}

	if v.Repeat < 0 {
		return fmt.Errorf(
			"%w: %s: negative repeat %d",
			ErrInvalidVector, v.Name, v.Repeat,
		)
	}

	raw, err := hex.DecodeString(v.Hex)
	if err != nil {
		return fmt.Errorf(
			"%w: %s: %w", ErrInvalidVector, v.Name, err,
		)
	}

	if len(raw) != hasher.Size {
		return fmt.Errorf(
			"%w: %s: digest is %d bytes, want %d",
			ErrInvalidVector, v.Name, len(raw), hasher.Size,
		)
	}

	return nil
}

// Check runs every vector through a fresh engine, appending
// the message in uneven chunks.
func Check(vs []Vector) []Result {
	out := make([]Result, 0, len(vs))

	for _, v := range vs {
		raw, _ := hex.DecodeString(v.Hex) //nolint:errcheck // bad hex never matches

		want := wordbuf.FromBytes(raw).Base64URL()
		got := digestChunked(v.Message())

		out = append(out, Result{
			Name: v.Name,
			Want: want,
			Got:  got,
			OK:   want == got,
		})
	}

	return out
}

// Passed reports whether every result is OK.
func Passed(rs []Result) bool {
	for _, r := range rs {
		if !r.OK {
			return false
		}
	}

	return true
}

func digestChunked(msg string) string {
	en := hasher.New()

	for i, off := 0, 0; off < len(msg); i++ {
		end := min(off+chunkSizes[i%len(chunkSizes)], len(msg))

		// Alternate between the string and buffer paths.
		if i%2 == 0 {
			_ = en.AppendString(msg[off:end]) //nolint:errcheck // engine is open
		} else {
			_ = en.Append(wordbuf.FromString(msg[off:end])) //nolint:errcheck // engine is open
		}

		off = end
	}

	chain := en.Finalize()

	return wordbuf.EncodeBase64URL(chain[:], hasher.Size)
}
