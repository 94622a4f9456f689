package render

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/fastcrypt/hasher"
	"github.com/byte4ever/fastcrypt/wordbuf"
)

// DefaultFormat prints the digest followed by the input name.
const DefaultFormat = "{digest}  {name}"

// Algorithm is the value of the {algorithm} placeholder.
const Algorithm = "sha256"

// Fields describes one digested input.
type Fields struct {
	// Sum is the raw digest.
	Sum [hasher.Size]byte

	// Name identifies the input (file path, "-" for
	// stdin, or the literal string).
	Name string

	// Size is the input length in bytes.
	Size int64
}

// Engine renders Fields through a format string. Zero value
// uses single-brace tags.
type Engine struct {
	StartTag string
	EndTag   string
}

// Render substitutes the placeholders of format with the
// values of fi. Unknown placeholders are preserved as-is.
func (en *Engine) Render(format string, fi Fields) string {
	startTag, endTag := en.tags()

	return fasttemplate.ExecuteStringStd(
		format, startTag, endTag, fi.values(),
	)
}

// Write renders fi followed by a newline into w.
func (en *Engine) Write(
	w io.Writer,
	format string,
	fi Fields,
) error {
	const errCtx = "writing rendered line"

	if _, err := io.WriteString(
		w, en.Render(format, fi)+"\n",
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// tags returns the configured start/end tags, falling back
// to single-brace defaults.
func (en *Engine) tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = "{"
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = "}"
	}

	return startTag, endTag
}

func (fi Fields) values() map[string]interface{} {
	return map[string]interface{}{
		"digest":    wordbuf.FromBytes(fi.Sum[:]).Base64URL(),
		"hex":       hex.EncodeToString(fi.Sum[:]),
		"name":      fi.Name,
		"size":      strconv.FormatInt(fi.Size, 10),
		"algorithm": Algorithm,
	}
}
