package wizard

import "fmt"

// FieldErrors maps field names to messages. Every violated field of a step
// is reported in one pass, not one at a time.
type FieldErrors map[string]string

// ValidationError blocks a step from advancing. It never discards data the
// user has already entered.
type ValidationError struct {
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validationError: %s", e.Message)
}

func NewValidationError(msg string, fields FieldErrors) error {
	return &ValidationError{Message: msg, Fields: fields}
}

// SessionError means the session is missing or expired.
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("sessionError: %s", e.Message)
}

func NewSessionError(msg string) error {
	return &SessionError{Message: msg}
}

// SubmitError is a submission failure: the collaborator was unreachable or
// answered non-success. The draft stays intact and the message directs the
// user to the venue's phone line.
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submitError: %s", e.Message)
}

// ConflictError means a submission for this session is already in flight.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflictError: %s", e.Message)
}
