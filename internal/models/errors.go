package models

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError rejects a file whose extension is not the supported
// tabular format. Fatal to the run, no rows processed.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension %q, only .csv files are accepted", e.Extension)
}

// ParseError means the raw content is structurally malformed, e.g. fewer than
// two lines. Fatal to the run.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// SchemaError means one or more required header columns are missing. Fatal to
// the run, no rows processed.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// RowValidationError is a per-row field violation. Non-fatal: the offending
// row is dropped, and the run only fails overall if every row is dropped.
type RowValidationError struct {
	Row     int
	Column  string
	Message string
}

func (e *RowValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return e.Message
}

// Error codes used in HTTP responses
const (
	ErrCodeFileRequired      = "FILE_REQUIRED"
	ErrCodeReadFailed        = "READ_FAILED"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeSchemaError       = "SCHEMA_ERROR"
	ErrCodeNoValidRows       = "NO_VALID_ROWS"
	ErrCodeNoResult          = "NO_RESULT"
	ErrCodeHistoryDisabled   = "HISTORY_DISABLED"
)

// Error represents an API error payload
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// ConvertResponse is the payload of a successful conversion
type ConvertResponse struct {
	Success      bool      `json:"success"`
	Status       Status    `json:"status"`
	Count        int       `json:"count"`
	FallbackRows int       `json:"fallbackRows"`
	Warnings     []Warning `json:"warnings,omitempty"`
	Products     []Product `json:"products"`
}
