package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Extractor decodes TXT and CSV uploads as UTF-8 with no structural parsing.
// Malformed byte sequences decode to replacement characters rather than
// failing the request.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return strings.TrimSpace(text), nil
}
