package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one prior exchange supplied by the caller. History is
// never stored server-side; the client resends it on every request.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UploadedFile holds one request's attachment. It lives for the duration of
// a single request and is never persisted.
type UploadedFile struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

type DocumentInfo struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// ChatRequest is the validated inbound shape handed to the chat use case.
type ChatRequest struct {
	Question string
	File     *UploadedFile
	History  []ConversationTurn
}

type ChatAnswer struct {
	Question  string
	Document  *DocumentInfo
	Response  string
	Timestamp time.Time
}
