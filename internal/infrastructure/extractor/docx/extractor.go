// Package docx extracts raw text runs from the Office Open XML package
// (archive/zip over word/document.xml). Formatting is discarded; paragraph
// and line breaks become newlines.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

const documentEntry = "word/document.xml"

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract docx", fmt.Errorf("open package: %w", err))
	}

	var document *zip.File
	for _, file := range archive.File {
		if file.Name == documentEntry {
			document = file
			break
		}
	}
	if document == nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract docx",
			fmt.Errorf("package has no %s entry", documentEntry))
	}

	reader, err := document.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract docx", fmt.Errorf("open %s: %w", documentEntry, err))
	}
	defer reader.Close()

	text, err := collectTextRuns(reader)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract docx", fmt.Errorf("parse %s: %w", documentEntry, err))
	}
	return text, nil
}

func collectTextRuns(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inRun := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch typed := token.(type) {
		case xml.StartElement:
			switch typed.Name.Local {
			case "t":
				inRun = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch typed.Name.Local {
			case "t":
				inRun = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				b.Write(typed)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
