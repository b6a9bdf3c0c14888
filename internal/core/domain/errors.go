package domain

import (
	"errors"
	"fmt"
)

// Validation failures, detected before any external call.
var (
	ErrMissingQuestion      = errors.New("question is required")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrExtractionFailed     = errors.New("text extraction failed")
)

// Completion-service failures, classified once at the gateway boundary.
var (
	ErrConfiguration    = errors.New("completion service not configured")
	ErrAuth             = errors.New("authentication failure")
	ErrRateLimited      = errors.New("rate limited")
	ErrTransientNetwork = errors.New("transient network failure")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrCompletion       = errors.New("completion failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ErrorLabel returns the short machine-readable kind that crosses the API
// boundary. Anything unclassified reports as internal_error.
func ErrorLabel(err error) string {
	switch {
	case IsKind(err, ErrMissingQuestion):
		return "missing_question"
	case IsKind(err, ErrFileTooLarge):
		return "file_too_large"
	case IsKind(err, ErrInvalidFileType):
		return "invalid_file_type"
	case IsKind(err, ErrUnsupportedMediaType):
		return "unsupported_media_type"
	case IsKind(err, ErrExtractionFailed):
		return "file_processing_error"
	case IsKind(err, ErrConfiguration):
		return "configuration_error"
	case IsKind(err, ErrAuth):
		return "auth_error"
	case IsKind(err, ErrRateLimited):
		return "rate_limited"
	case IsKind(err, ErrTransientNetwork):
		return "transient_network_error"
	case IsKind(err, ErrModelUnavailable):
		return "model_unavailable"
	case IsKind(err, ErrCompletion):
		return "ai_processing_error"
	default:
		return "internal_error"
	}
}
