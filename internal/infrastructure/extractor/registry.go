// Package extractor dispatches text extraction by declared media type.
package extractor

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/extractor/docx"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/extractor/pdf"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/extractor/spreadsheet"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeDOC  = "application/msword"
	MediaTypeText = "text/plain"
	MediaTypeCSV  = "text/csv"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// Some clients declare CSV uploads with this non-standard type.
	mediaTypeCSVAlt = "application/csv"
)

// ByteExtractor extracts plain text from one file format.
type ByteExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type Registry struct {
	byType map[string]ByteExtractor
}

func NewRegistry() *Registry {
	plain := plaintext.New()
	return &Registry{
		byType: map[string]ByteExtractor{
			MediaTypePDF:    pdf.New(),
			MediaTypeDOCX:   docx.New(),
			MediaTypeText:   plain,
			MediaTypeCSV:    plain,
			mediaTypeCSVAlt: plain,
			MediaTypeXLSX:   spreadsheet.New(),
		},
	}
}

func (r *Registry) ValidateMediaType(mediaType string) error {
	normalized := normalizeMediaType(mediaType)
	if normalized == MediaTypeDOC {
		return domain.WrapError(domain.ErrInvalidFileType, "validate media type",
			fmt.Errorf("legacy .doc is not supported, convert the document to DOCX"))
	}
	if _, ok := r.byType[normalized]; !ok {
		return domain.WrapError(domain.ErrInvalidFileType, "validate media type",
			fmt.Errorf("media type %q is not supported, use PDF, DOCX, TXT, CSV or XLSX", mediaType))
	}
	return nil
}

func (r *Registry) Extract(ctx context.Context, file *domain.UploadedFile) (string, error) {
	byteExtractor, ok := r.byType[normalizeMediaType(file.MediaType)]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedMediaType, "extract",
			fmt.Errorf("no extractor for media type %q", file.MediaType))
	}
	return byteExtractor.Extract(ctx, file.Data)
}

func normalizeMediaType(mediaType string) string {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return parsed
}
