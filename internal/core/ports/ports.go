package ports

import (
	"context"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

// DocumentExtractor turns an uploaded file into plain text.
type DocumentExtractor interface {
	Extract(ctx context.Context, file *domain.UploadedFile) (string, error)
	// ValidateMediaType rejects declared types with no extractor, so
	// validation can fail before any bytes are parsed.
	ValidateMediaType(mediaType string) error
}

// CompletionGateway sends an assembled prompt to the completion service.
// Implementations classify failures into the domain taxonomy and apply the
// retry policy; callers never re-classify.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Probe verifies the configured credential and model handle without
	// issuing a completion request.
	Probe(ctx context.Context) error
	ModelName() string
}

// ChatService is the inbound contract for one question/answer exchange.
type ChatService interface {
	Answer(ctx context.Context, req domain.ChatRequest) (*domain.ChatAnswer, error)
}
