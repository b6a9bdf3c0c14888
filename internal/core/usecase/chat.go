package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
	"github.com/mkorolev/legal-doc-assistant/internal/core/ports"
	"github.com/mkorolev/legal-doc-assistant/internal/core/prompt"
)

const DefaultMaxFileBytes = 10 << 20 // 10 MiB

// ChatUseCase orchestrates one exchange: validate, extract, assemble,
// complete. Nothing is persisted; every entity lives for one request.
type ChatUseCase struct {
	extractor    ports.DocumentExtractor
	gateway      ports.CompletionGateway
	maxFileBytes int64
	now          func() time.Time
}

func NewChatUseCase(extractor ports.DocumentExtractor, gateway ports.CompletionGateway, maxFileBytes int64) *ChatUseCase {
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &ChatUseCase{
		extractor:    extractor,
		gateway:      gateway,
		maxFileBytes: maxFileBytes,
		now:          time.Now,
	}
}

func (uc *ChatUseCase) Answer(ctx context.Context, req domain.ChatRequest) (*domain.ChatAnswer, error) {
	// Validation order is fixed, first failure wins: question presence,
	// then file size, then file type.
	if strings.TrimSpace(req.Question) == "" {
		return nil, domain.WrapError(domain.ErrMissingQuestion, "validate request",
			fmt.Errorf("question field is empty"))
	}

	var documentText *string
	var documentInfo *domain.DocumentInfo
	if req.File != nil {
		if req.File.Size > uc.maxFileBytes {
			return nil, domain.WrapError(domain.ErrFileTooLarge, "validate request",
				fmt.Errorf("file is %d bytes, limit is %d", req.File.Size, uc.maxFileBytes))
		}
		if err := uc.extractor.ValidateMediaType(req.File.MediaType); err != nil {
			return nil, err
		}

		// Extraction failures short-circuit here, before any completion
		// call is spent.
		text, err := uc.extractor.Extract(ctx, req.File)
		if err != nil {
			return nil, err
		}
		documentText = &text
		documentInfo = &domain.DocumentInfo{
			Filename: req.File.Name,
			MimeType: req.File.MediaType,
			Size:     req.File.Size,
		}
		slog.Info("document_extracted",
			"filename", req.File.Name,
			"media_type", req.File.MediaType,
			"chars", len(text),
		)
	}

	assembled := prompt.Assemble(prompt.Input{
		Instructions: prompt.SystemInstructions,
		DocumentText: documentText,
		History:      req.History,
		Question:     req.Question,
	})

	answer, err := uc.gateway.Complete(ctx, assembled)
	if err != nil {
		return nil, err
	}

	return &domain.ChatAnswer{
		Question:  req.Question,
		Document:  documentInfo,
		Response:  answer,
		Timestamp: uc.now().UTC(),
	}, nil
}
