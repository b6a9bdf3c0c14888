package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/mkorolev/legal-doc-assistant/internal/config"
	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
	"github.com/mkorolev/legal-doc-assistant/internal/core/ports"
	"github.com/mkorolev/legal-doc-assistant/internal/core/usecase"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/extractor"
	"github.com/mkorolev/legal-doc-assistant/internal/infrastructure/llm/gemini"
	"github.com/mkorolev/legal-doc-assistant/internal/observability/metrics"
)

type stubGateway struct {
	answer  string
	err     error
	prompts []string
}

func (s *stubGateway) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *stubGateway) Probe(_ context.Context) error { return nil }
func (s *stubGateway) ModelName() string             { return "stub-model" }

func newTestHandler(t *testing.T, cfg config.Config, gateway ports.CompletionGateway, initErr error) http.Handler {
	t.Helper()
	var chat ports.ChatService
	apiKeyConfigured := initErr == nil
	if gateway != nil && initErr == nil {
		chat = usecase.NewChatUseCase(extractor.NewRegistry(), gateway, cfg.MaxUploadBytes)
	}
	health := usecase.NewHealthUseCase(gateway, initErr, apiKeyConfigured)
	return NewRouter(chat, health, metrics.NewHTTPServerMetrics("test"), cfg, initErr).Handler()
}

type filePart struct {
	name      string
	mediaType string
	data      []byte
}

func multipartRequest(t *testing.T, question string, file *filePart, history string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if question != "" {
		if err := writer.WriteField("question", question); err != nil {
			t.Fatalf("write question: %v", err)
		}
	}
	if history != "" {
		if err := writer.WriteField("chatHistory", history); err != nil {
			t.Fatalf("write history: %v", err)
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename=%q`, file.name))
		header.Set("Content-Type", file.mediaType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, res *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var payload errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return payload
}

func TestChatWithDocumentAnswersFromExtractedText(t *testing.T) {
	gateway := &stubGateway{answer: "You may terminate with 30 days notice."}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	req := multipartRequest(t, "What is the termination clause?", &filePart{
		name:      "agreement.txt",
		mediaType: "text/plain",
		data:      []byte("Either party may terminate with 30 days notice"),
	}, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload chatResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Response != gateway.answer {
		t.Fatalf("expected model answer, got %q", payload.Response)
	}
	if payload.Question != "What is the termination clause?" {
		t.Fatalf("expected echoed question, got %q", payload.Question)
	}
	if payload.Document == nil || payload.Document.Filename != "agreement.txt" {
		t.Fatalf("expected document metadata, got %+v", payload.Document)
	}
	if payload.Timestamp == "" {
		t.Fatalf("expected issuance timestamp")
	}

	if len(gateway.prompts) != 1 {
		t.Fatalf("expected one completion call, got %d", len(gateway.prompts))
	}
	if !strings.Contains(gateway.prompts[0], "Either party may terminate with 30 days notice") {
		t.Fatalf("expected document text verbatim in assembled prompt")
	}
}

func TestChatGreetingWithoutDocument(t *testing.T) {
	gateway := &stubGateway{answer: "Hello! Upload a legal document and I can help."}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	req := multipartRequest(t, "Hi", nil, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if strings.Contains(gateway.prompts[0], "Document content:") {
		t.Fatalf("expected no document section for question-only request")
	}

	var payload chatResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Document != nil {
		t.Fatalf("expected null document metadata, got %+v", payload.Document)
	}
}

func TestChatMissingQuestionWinsOverOversizedFile(t *testing.T) {
	gateway := &stubGateway{answer: "never"}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 1 << 20}, gateway, nil)

	req := multipartRequest(t, "", &filePart{
		name:      "huge.txt",
		mediaType: "text/plain",
		data:      bytes.Repeat([]byte("x"), 2<<20),
	}, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "missing_question" {
		t.Fatalf("expected missing_question, got %q", payload.Error)
	}
	if len(gateway.prompts) != 0 {
		t.Fatalf("expected no completion call")
	}
}

func TestChatOversizedFileRejectedBeforeExtraction(t *testing.T) {
	gateway := &stubGateway{answer: "never"}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 1 << 20}, gateway, nil)

	req := multipartRequest(t, "What is in here?", &filePart{
		name:      "huge.pdf",
		mediaType: "application/pdf",
		data:      bytes.Repeat([]byte("x"), 2<<20),
	}, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "file_too_large" {
		t.Fatalf("expected file_too_large, got %q", payload.Error)
	}
	if len(gateway.prompts) != 0 {
		t.Fatalf("expected no completion call")
	}
}

func TestChatRejectsUnsupportedDeclaredType(t *testing.T) {
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, &stubGateway{answer: "never"}, nil)

	req := multipartRequest(t, "What is this?", &filePart{
		name:      "photo.png",
		mediaType: "image/png",
		data:      []byte{0x89, 0x50, 0x4e, 0x47},
	}, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "invalid_file_type" {
		t.Fatalf("expected invalid_file_type, got %q", payload.Error)
	}
}

func TestChatCorruptPDFReturnsProcessingError(t *testing.T) {
	gateway := &stubGateway{answer: "never"}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	req := multipartRequest(t, "What is the venue clause?", &filePart{
		name:      "broken.pdf",
		mediaType: "application/pdf",
		data:      []byte("not a real pdf"),
	}, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "file_processing_error" {
		t.Fatalf("expected file_processing_error, got %q", payload.Error)
	}
	if len(gateway.prompts) != 0 {
		t.Fatalf("expected extraction failure before any completion call")
	}
}

func TestChatMalformedHistoryDegradesToEmpty(t *testing.T) {
	gateway := &stubGateway{answer: "Happy to help."}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	req := multipartRequest(t, "Can you help me?", nil, "{not valid json]")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected malformed history to be ignored, got %d: %s", res.Code, res.Body.String())
	}
	if strings.Contains(gateway.prompts[0], "Conversation history:") {
		t.Fatalf("expected no history section for unparseable history")
	}
}

func TestChatWellFormedHistoryReachesPrompt(t *testing.T) {
	gateway := &stubGateway{answer: "As discussed, clause 9 applies."}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	history := `[{"role":"user","content":"Can I sublet?"},{"role":"assistant","content":"Clause 9 requires consent."}]`
	req := multipartRequest(t, "What if consent is refused?", nil, history)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	sent := gateway.prompts[0]
	if !strings.Contains(sent, "User: Can I sublet?") || !strings.Contains(sent, "Assistant: Clause 9 requires consent.") {
		t.Fatalf("expected both history turns in prompt, got %q", sent)
	}
}

func TestChatGatewayAuthFailureMapsTo401(t *testing.T) {
	gateway := &stubGateway{
		err: domain.WrapError(domain.ErrAuth, "generate content", errors.New("API key not valid")),
	}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	req := multipartRequest(t, "Hi", nil, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "auth_error" {
		t.Fatalf("expected auth_error, got %q", payload.Error)
	}
}

func TestChatRateLimitedAfterRetriesMapsTo500(t *testing.T) {
	gateway := &stubGateway{
		err: domain.WrapError(domain.ErrRateLimited, "generate content", errors.New("quota exceeded")),
	}
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, gateway, nil)

	req := multipartRequest(t, "Hi", nil, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "rate_limited" {
		t.Fatalf("expected rate_limited, got %q", payload.Error)
	}
}

func TestChatUninitializedClientReturns503(t *testing.T) {
	initErr := gemini.ValidateAPIKey("your-api-key-here")
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, nil, initErr)

	req := multipartRequest(t, "Hi", nil, "")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
	if payload := decodeError(t, res); payload.Error != "configuration_error" {
		t.Fatalf("expected configuration_error, got %q", payload.Error)
	}
}

func TestHealthHealthy(t *testing.T) {
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, &stubGateway{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var payload healthResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if payload.Status != "healthy" || !payload.APIKeyConfigured || !payload.ModelAvailable {
		t.Fatalf("expected healthy flags, got %+v", payload)
	}
}

func TestHealthPlaceholderCredentialReturns500(t *testing.T) {
	initErr := gemini.ValidateAPIKey("your-api-key-here")
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, nil, initErr)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	var payload healthResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if payload.Status != "error" || payload.APIKeyConfigured || payload.ModelAvailable {
		t.Fatalf("expected unconfigured error state, got %+v", payload)
	}
	if !strings.Contains(payload.Message, "placeholder") {
		t.Fatalf("expected configuration message, got %q", payload.Message)
	}
}

func TestChatRejectsNonPOST(t *testing.T) {
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 10 << 20}, &stubGateway{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}
