package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

// Classify maps a raw completion-call error onto the closed domain taxonomy.
// Structured googleapi codes take priority; the substring table below is the
// documented fallback for failures the SDK surfaces as plain strings.
func Classify(operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapError(domain.ErrTransientNetwork, operation, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return domain.WrapError(domain.ErrAuth, operation, err)
		case apiErr.Code == http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrRateLimited, operation, err)
		case apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusServiceUnavailable:
			return domain.WrapError(domain.ErrModelUnavailable, operation, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return domain.WrapError(domain.ErrTransientNetwork, operation, err)
		}
		// 400 responses fall through: an invalid API key arrives as a 400
		// with a message the table below recognizes.
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrTransientNetwork, operation, err)
	}

	return classifyByMessage(operation, err)
}

func classifyByMessage(operation string, err error) error {
	message := strings.ToLower(err.Error())
	switch {
	case containsAny(message, "api key not valid", "api_key_invalid", "unauthenticated", "permission denied"):
		return domain.WrapError(domain.ErrAuth, operation, err)
	case containsAny(message, "quota", "resource_exhausted", "rate limit", "too many requests"):
		return domain.WrapError(domain.ErrRateLimited, operation, err)
	case containsAny(message, "model is overloaded", "model not found", "unsupported model", "is not found for api version"):
		return domain.WrapError(domain.ErrModelUnavailable, operation, err)
	case containsAny(message, "connection refused", "connection reset", "timeout", "unavailable", "no such host"):
		return domain.WrapError(domain.ErrTransientNetwork, operation, err)
	default:
		return domain.WrapError(domain.ErrCompletion, operation, err)
	}
}

func containsAny(message string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(message, needle) {
			return true
		}
	}
	return false
}
