package httpadapter

import (
	"net/http"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrMissingQuestion),
		domain.IsKind(err, domain.ErrFileTooLarge),
		domain.IsKind(err, domain.ErrInvalidFileType),
		domain.IsKind(err, domain.ErrUnsupportedMediaType),
		domain.IsKind(err, domain.ErrExtractionFailed):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrConfiguration):
		return http.StatusServiceUnavailable
	default:
		// Classified completion failures and anything unknown.
		return http.StatusInternalServerError
	}
}
