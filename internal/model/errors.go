package model

import (
	"errors"
	"fmt"
)

// Use-case error taxonomy. The HTTP layer maps these to status codes; the
// parser's ParseError is always recovered into ErrInvalidInvoicePayload
// before leaving the upload use case.
var (
	ErrInvalidInvoicePayload = errors.New("invalid invoice payload")
	ErrInvoiceAlreadyExists  = errors.New("invoice already exists")
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrNoInvoicesToExport    = errors.New("no invoices to export")
	ErrPUCUpload             = errors.New("puc upload failed")
)

// ParseError represents XML extraction failures with field context.
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(field, message string, cause error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}
