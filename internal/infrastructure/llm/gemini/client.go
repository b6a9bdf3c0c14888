// Package gemini is the gateway to the hosted completion service. Failures
// are classified into the domain taxonomy exactly once here; callers never
// re-classify.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/resilience"
)

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Placeholder values that ship in .env templates. A key matching one of
// these means "never configured", which operators must be able to tell apart
// from a rejected credential.
var placeholderKeys = map[string]struct{}{
	"your-api-key-here":   {},
	"your_api_key_here":   {},
	"changeme":            {},
	"YOUR_GEMINI_API_KEY": {},
}

func ValidateAPIKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return domain.WrapError(domain.ErrConfiguration, "validate api key",
			fmt.Errorf("GEMINI_API_KEY is not set"))
	}
	if _, ok := placeholderKeys[trimmed]; ok {
		return domain.WrapError(domain.ErrConfiguration, "validate api key",
			fmt.Errorf("GEMINI_API_KEY is a placeholder value"))
	}
	return nil
}

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	exec    *resilience.Executor
}

// New fails at construction time when the credential is missing or a
// placeholder; the failure is never deferred to the first completion call.
func New(ctx context.Context, cfg Config, exec *resilience.Executor) (*Client, error) {
	if err := ValidateAPIKey(cfg.APIKey); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, domain.WrapError(domain.ErrConfiguration, "validate model",
			fmt.Errorf("completion model name is empty"))
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, domain.WrapError(domain.ErrConfiguration, "create genai client", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		exec:    exec,
	}, nil
}

func (c *Client) ModelName() string {
	return c.model
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Probe verifies the client and model handle are constructible without
// sending a completion request.
func (c *Client) Probe(_ context.Context) error {
	if c.client == nil {
		return domain.WrapError(domain.ErrConfiguration, "probe",
			fmt.Errorf("genai client is not initialized"))
	}
	if c.client.GenerativeModel(c.model) == nil {
		return domain.WrapError(domain.ErrModelUnavailable, "probe",
			fmt.Errorf("model handle %q could not be created", c.model))
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var answer string
	err := c.exec.Execute(callCtx, "gemini_generate", func(ctx context.Context) error {
		model := c.client.GenerativeModel(c.model)
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return Classify("generate content", err)
		}
		text, err := responseText(resp)
		if err != nil {
			return err
		}
		answer = text
		return nil
	}, RetryClassifier)
	if err != nil {
		return "", ensureClassified(err)
	}
	return answer, nil
}

// RetryClassifier implements the retry policy: only rate-limit failures get
// another attempt.
func RetryClassifier(err error) resilience.ErrorClassification {
	return resilience.ErrorClassification{
		Retryable:     domain.IsKind(err, domain.ErrRateLimited),
		RecordFailure: !domain.IsKind(err, domain.ErrAuth) && !domain.IsKind(err, domain.ErrConfiguration),
	}
}

// ensureClassified covers errors the retry loop can surface from outside the
// completion call itself: an expired deadline before an attempt, or an open
// circuit breaker.
func ensureClassified(err error) error {
	switch {
	case domain.IsKind(err, domain.ErrAuth),
		domain.IsKind(err, domain.ErrRateLimited),
		domain.IsKind(err, domain.ErrTransientNetwork),
		domain.IsKind(err, domain.ErrModelUnavailable),
		domain.IsKind(err, domain.ErrConfiguration),
		domain.IsKind(err, domain.ErrCompletion):
		return err
	case resilience.IsCircuitOpen(err):
		return domain.WrapError(domain.ErrTransientNetwork, "generate content", err)
	default:
		return Classify("generate content", err)
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domain.WrapError(domain.ErrCompletion, "generate content",
			fmt.Errorf("model returned no candidates"))
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", domain.WrapError(domain.ErrCompletion, "generate content",
			fmt.Errorf("model response contained no text parts"))
	}
	return out, nil
}
