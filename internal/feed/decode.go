package feed

import (
	"bytes"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is the single-byte encoding the feed is published in.
const DefaultCharset = "windows-1252"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts feed bytes to UTF-8 text using charset. Input starting with
// a UTF-8 byte order mark is taken as UTF-8 regardless of charset.
func Decode(raw []byte, charset string) (string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		body := raw[len(utf8BOM):]
		if !utf8.Valid(body) {
			return "", eris.New("decode: invalid utf-8 after byte order mark")
		}
		return string(body), nil
	}

	if charset == "" {
		charset = DefaultCharset
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", eris.Wrapf(err, "decode: unsupported charset %q", charset)
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", eris.Wrapf(err, "decode: %s", charset)
	}
	return string(out), nil
}
