package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported format")
	ErrUnavailable  = errors.New("capability unavailable")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ErrorKind classifies extraction and answering failures.
type ErrorKind string

const (
	KindUnreadable  ErrorKind = "UNREADABLE"
	KindUnsupported ErrorKind = "UNSUPPORTED"
	KindOCR         ErrorKind = "OCR"
	KindAnswer      ErrorKind = "ANSWER"
)

// ExtractError is the structured failure carried by an extraction result.
// Message is the human-readable text that is folded into the unified context.
type ExtractError struct {
	Kind    ErrorKind
	Source  string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	return e.Message
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// NewReadError builds the KindUnreadable error for a reader failure, e.g.
// "Error reading PDF file: <cause>".
func NewReadError(source, format string, cause error) *ExtractError {
	return &ExtractError{
		Kind:    KindUnreadable,
		Source:  source,
		Message: fmt.Sprintf("Error reading %s file: %v", format, cause),
		Cause:   cause,
	}
}

// NewUnsupportedError builds the placeholder error for an unknown MIME type.
func NewUnsupportedError(source string) *ExtractError {
	return &ExtractError{
		Kind:    KindUnsupported,
		Source:  source,
		Message: "Unsupported file format: " + source,
		Cause:   ErrUnsupported,
	}
}

// NewOCRError tags a failure to recognize one embedded image. It never
// reaches the unified context; the image contributes no text.
func NewOCRError(source string, page, image int, cause error) *ExtractError {
	return &ExtractError{
		Kind:    KindOCR,
		Source:  source,
		Message: fmt.Sprintf("OCR failed for page %d image %d: %v", page, image, cause),
		Cause:   cause,
	}
}

// NewAnswerError builds the reply shown when the language model cannot answer.
func NewAnswerError(cause error) *ExtractError {
	return &ExtractError{
		Kind:    KindAnswer,
		Source:  "llm",
		Message: fmt.Sprintf("Error connecting to the language model: %v", cause),
		Cause:   cause,
	}
}

// IsKind reports whether err is an ExtractError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var xe *ExtractError
	if errors.As(err, &xe) {
		return xe.Kind == kind
	}
	return false
}
