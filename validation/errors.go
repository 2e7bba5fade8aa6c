package validation

import "time"

// Code identifies the class of a validation failure.
type Code string

const (
	CodeMissingOrWrongType Code = "missing_or_wrong_type"
	CodeEmptyField         Code = "empty_field"
	CodeInvalidCharacters  Code = "invalid_characters"
	CodeTooShort           Code = "too_short"
	CodeInvalidEnum        Code = "invalid_enum"
	CodeMalformedTimestamp Code = "malformed_timestamp"
	CodeDueDateNotFuture   Code = "due_date_not_future"
)

// Error describes a rejected payload. Validation stops at the first
// failing check, so an Error always refers to exactly one rule. It is
// returned as a value and carries the time it was generated, which the
// HTTP layer echoes back in the response body.
type Error struct {
	Code      Code      `json:"code"`
	Field     string    `json:"field,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code Code, field, message string, now time.Time) *Error {
	return &Error{Code: code, Field: field, Message: message, Timestamp: now}
}
