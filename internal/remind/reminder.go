// Package remind implements reminder parsing, durable storage and
// one-shot scheduling for chat reminders.
package remind

import (
	"fmt"
	"time"
)

// Reminder is a single pending reminder. Reminders are never mutated in
// place: they are created once, persisted, and removed after delivery or
// cancellation.
type Reminder struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	FireAt         time.Time `json:"fireAt"`
	Note           string    `json:"note"`
}

// DefaultNote is substituted when a reminder carries no note text.
const DefaultNote = "Pengingat"

// ParseErrorCode identifies a reminder parse failure.
type ParseErrorCode string

const (
	// CodeAmbiguousFormat indicates a reminder prefix with no remainder.
	CodeAmbiguousFormat ParseErrorCode = "AMBIGUOUS_FORMAT"
	// CodeUnrecognizedTime indicates no temporal expression was found.
	CodeUnrecognizedTime ParseErrorCode = "UNRECOGNIZED_TIME"
)

// ParseError is a reminder parse failure with a user-facing message.
type ParseError struct {
	Code    ParseErrorCode
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newParseError(code ParseErrorCode, message string) *ParseError {
	return &ParseError{Code: code, Message: message}
}
