package contentutil

import (
	"strings"
	"unicode/utf8"
)

// DecodeLossy interprets raw bytes as UTF-8 text, substituting U+FFFD for
// invalid sequences. The boolean reports whether any substitution happened:
// malformed encoding is a data-quality signal, not a fatal error.
func DecodeLossy(raw []byte) (string, bool) {
	if utf8.Valid(raw) {
		return string(raw), false
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), true
}
