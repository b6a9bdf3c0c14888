package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

// Form-field buffering threshold for multipart parsing; larger file parts
// spill to temp files. Unrelated to the upload size limit, which the use
// case enforces against the declared size.
const multipartMemoryLimit = 4 << 20

type chatResponse struct {
	Message   string               `json:"message"`
	Timestamp string               `json:"timestamp"`
	Question  string               `json:"question"`
	Document  *domain.DocumentInfo `json:"document"`
	Response  string               `json:"response"`
}

func (rt *Router) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}
	if rt.chat == nil {
		message := "AI client is not initialized"
		if rt.gatewayInitErr != nil {
			message = rt.gatewayInitErr.Error()
		}
		writeError(w, http.StatusServiceUnavailable, "configuration_error", message)
		return
	}

	start := time.Now()
	req, err := rt.parseChatRequest(r)
	if err != nil {
		rt.httpMetrics.RecordChatRequest(serviceName, domain.ErrorLabel(err), time.Since(start))
		writeError(w, mapErrorToHTTPStatus(err), domain.ErrorLabel(err), err.Error())
		return
	}

	answer, err := rt.chat.Answer(r.Context(), req)
	if req.File != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		rt.httpMetrics.RecordExtraction(serviceName, req.File.MediaType, status, req.File.Size)
	}
	if err != nil {
		rt.httpMetrics.RecordChatRequest(serviceName, domain.ErrorLabel(err), time.Since(start))
		writeError(w, mapErrorToHTTPStatus(err), domain.ErrorLabel(err), err.Error())
		return
	}

	rt.httpMetrics.RecordChatRequest(serviceName, "success", time.Since(start))
	writeJSON(w, http.StatusOK, chatResponse{
		Message:   "Chat processed successfully",
		Timestamp: answer.Timestamp.Format(time.RFC3339),
		Question:  answer.Question,
		Document:  answer.Document,
		Response:  answer.Response,
	})
}

func (rt *Router) parseChatRequest(r *http.Request) (domain.ChatRequest, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.ChatRequest{}, domain.WrapError(domain.ErrInvalidFileType, "parse request",
			fmt.Errorf("malformed multipart body: %w", err))
	}

	req := domain.ChatRequest{
		Question: r.FormValue("question"),
		History:  parseHistory(r.FormValue("chatHistory")),
	}

	file, header, err := r.FormFile("document")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return domain.ChatRequest{}, domain.WrapError(domain.ErrExtractionFailed, "parse request",
				fmt.Errorf("read uploaded file: %w", readErr))
		}
		size := header.Size
		if int64(len(data)) > size {
			size = int64(len(data))
		}
		req.File = &domain.UploadedFile{
			Name:      header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Size:      size,
			Data:      data,
		}
	case errors.Is(err, http.ErrMissingFile):
		// No attachment; question-only requests are fine.
	default:
		return domain.ChatRequest{}, domain.WrapError(domain.ErrInvalidFileType, "parse request",
			fmt.Errorf("unreadable document field: %w", err))
	}

	return req, nil
}

// parseHistory degrades malformed chatHistory payloads to empty history
// instead of failing the request.
func parseHistory(raw string) []domain.ConversationTurn {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var turns []domain.ConversationTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		slog.Warn("chat_history_unparseable", "error", err)
		return nil
	}
	return turns
}
