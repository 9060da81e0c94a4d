// Package charset decides how a source file's bytes should be decoded before
// parsing.
//
// Only two encodings are considered: UTF-8 and ISO-8859-1 (Latin-1). Latin-1
// maps every byte to a rune, so falling back to it can never fail; it exists
// for legacy Windows exports that are not valid UTF-8.
package charset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ProbeSize is the number of leading bytes inspected by Probe.
const ProbeSize = 1024

// Encoding identifies a supported text encoding.
type Encoding int

const (
	UTF8 Encoding = iota
	Latin1
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case Latin1:
		return "latin-1"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// Probe inspects the leading chunk of the file at path and returns UTF8 when it
// decodes cleanly, Latin1 otherwise. Only open and read failures are errors.
func Probe(path string, logger zerolog.Logger) (Encoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return UTF8, err
	}
	defer f.Close()

	return ProbeReader(f, path, logger)
}

// ProbeReader is Probe over an already opened reader. name is used in diagnostics.
func ProbeReader(r io.Reader, name string, logger zerolog.Logger) (Encoding, error) {
	buf := make([]byte, ProbeSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return UTF8, err
	}
	chunk := buf[:n]

	// A full chunk may end in the middle of a multi-byte rune.
	if n == ProbeSize {
		chunk = chunk[:len(chunk)-incompleteTrailingBytes(chunk)]
	}

	if utf8.Valid(chunk) {
		return UTF8, nil
	}

	logger.Info().
		Str("component", "charset").
		Str("file", name).
		Msg("utf-8 decode failed, falling back to latin-1")
	return Latin1, nil
}

// NewReader wraps r with a decoder for enc. UTF-8 input has a leading BOM
// removed and fails with encoding.ErrInvalidUTF8 on the first invalid byte.
func NewReader(r io.Reader, enc Encoding) io.Reader {
	switch enc {
	case Latin1:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return transform.NewReader(r, transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder()))
	}
}

// IsDecodeError reports whether err came from a decoding reader.
func IsDecodeError(err error) bool {
	return errors.Is(err, encoding.ErrInvalidUTF8)
}

// incompleteTrailingBytes returns the length of a truncated multi-byte sequence
// at the end of data, or 0 when the tail is complete or plainly invalid. Bytes
// that can never start a rune (0xC0, 0xC1, 0xF5-0xFF) are left for utf8.Valid.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(b) {
			if !utf8.FullRune(data[len(data)-i:]) {
				return i
			}
			return 0
		}
	}
	return 0
}
