package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	pdfparse "github.com/ledongthuc/pdf"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed xref tables; that is a parse
	// failure, not a crash.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtractionFailed, "extract pdf", fmt.Errorf("parser panic: %v", r))
		}
	}()

	reader, err := pdfparse.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract pdf", fmt.Errorf("open document: %w", err))
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract pdf", fmt.Errorf("read text content: %w", err))
	}

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, content); err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract pdf", fmt.Errorf("copy text content: %w", err))
	}
	return strings.TrimSpace(buf.String()), nil
}
