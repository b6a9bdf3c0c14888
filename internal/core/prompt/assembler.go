// Package prompt builds the single text prompt sent to the completion
// service. Assembly is deterministic: identical inputs produce an identical
// string, with no truncation. Whatever context-window trimming happens is the
// model's concern, not this layer's.
package prompt

import (
	"strings"

	"github.com/mkorolev/legal-doc-assistant/internal/core/domain"
)

const SystemInstructions = "You are a legal document assistant. Explain legal terms in plain language " +
	"and point out clauses or obligations that carry risk for the reader. Always make clear that you " +
	"provide general information, not legal counsel. If the user only greets you, reply with a brief " +
	"greeting and offer to help with a legal document. If the question needs a document and none was " +
	"provided, ask the user to upload one."

const (
	documentHeader = "Document content:"
	historyHeader  = "Conversation history:"
	questionHeader = "Current question:"
)

// Input carries everything the prompt is built from. DocumentText is a
// pointer so "no document" and "document with empty extracted text" stay
// distinguishable; the latter still gets a document section.
type Input struct {
	Instructions string
	DocumentText *string
	History      []domain.ConversationTurn
	Question     string
}

func Assemble(in Input) string {
	instructions := in.Instructions
	if instructions == "" {
		instructions = SystemInstructions
	}

	var b strings.Builder
	b.WriteString(instructions)

	if in.DocumentText != nil {
		b.WriteString("\n\n")
		b.WriteString(documentHeader)
		b.WriteString("\n")
		b.WriteString(*in.DocumentText)
	}

	if len(in.History) > 0 {
		b.WriteString("\n\n")
		b.WriteString(historyHeader)
		for _, turn := range in.History {
			b.WriteString("\n")
			b.WriteString(renderRole(turn.Role))
			b.WriteString(": ")
			b.WriteString(turn.Content)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(questionHeader)
	b.WriteString("\n")
	b.WriteString(in.Question)

	return b.String()
}

func renderRole(role domain.Role) string {
	switch role {
	case domain.RoleAssistant:
		return "Assistant"
	case domain.RoleUser:
		return "User"
	default:
		return string(role)
	}
}
