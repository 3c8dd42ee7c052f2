// Package errors provides standardized error handling for the harvesting
// pipeline and its BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Recoverable per page/task: converted to an empty, error-tagged record.
	ErrCodeFetchFailure     ErrorCode = "FETCH_FAILURE"
	ErrCodeParseAnomaly     ErrorCode = "PARSE_ANOMALY"
	ErrCodeNoResolvableLink ErrorCode = "NO_RESOLVABLE_LINK"

	// Silently dropped candidates.
	ErrCodeValidationRejection ErrorCode = "VALIDATION_REJECTION"

	// Fatal for a query: nothing to harvest.
	ErrCodeSearchPageUnavailable ErrorCode = "SEARCH_PAGE_UNAVAILABLE"

	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeOutputSchemaInvalid    ErrorCode = "OUTPUT_SCHEMA_INVALID"
	ErrCodeNotFound               ErrorCode = "NOT_FOUND"
	ErrCodePostalCodeLookupFailed ErrorCode = "POSTAL_CODE_LOOKUP_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewFetchFailureError reports a page that could not be fetched: transport
// error, timeout or non-success status.
func NewFetchFailureError(url string, err error) *StandardError {
	return newError(ErrCodeFetchFailure, "Page fetch failed",
		fmt.Sprintf("url: %s, error: %v", url, err), true, err).
		WithMetadata("url", url)
}

// NewFetchStatusError reports a fetch that completed with a non-success status.
func NewFetchStatusError(url string, status int) *StandardError {
	return newError(ErrCodeFetchFailure, "Page fetch returned non-success status",
		fmt.Sprintf("url: %s, status: %d", url, status), status >= 500, nil).
		WithMetadata("url", url).
		WithMetadata("status", status)
}

// NewParseAnomalyError reports a document whose shape broke extraction.
func NewParseAnomalyError(details string) *StandardError {
	return newError(ErrCodeParseAnomaly, "Unexpected document shape", details, false, nil)
}

// NewNoResolvableLinkError reports an organic result without an absolute http(s) link.
func NewNoResolvableLinkError(link string) *StandardError {
	return newError(ErrCodeNoResolvableLink, "Result has no resolvable link",
		fmt.Sprintf("link: %q", link), false, nil)
}

// NewValidationRejectionError reports a candidate value that failed validation.
func NewValidationRejectionError(field, details string) *StandardError {
	return newError(ErrCodeValidationRejection, "Candidate rejected",
		fmt.Sprintf("field: %s, %s", field, details), false, nil)
}

// NewSearchPageUnavailableError reports that the results page itself could not
// be fetched, which aborts the query.
func NewSearchPageUnavailableError(query string, err error) *StandardError {
	return newError(ErrCodeSearchPageUnavailable, "Search results page unavailable",
		fmt.Sprintf("query: %s, error: %v", query, err), true, err).
		WithMetadata("query", query)
}

// NewInvalidInputError creates a non-retryable input error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false, nil)
}

// NewOutputSchemaInvalidError reports an output document that failed schema validation.
func NewOutputSchemaInvalidError(details string) *StandardError {
	return newError(ErrCodeOutputSchemaInvalid, "Output failed schema validation", details, false, nil)
}

// NewNotFoundError reports a lookup with no match.
func NewNotFoundError(resource, key string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource),
		fmt.Sprintf("key: %s", key), false, nil)
}

// NewPostalCodeLookupFailedError creates a retryable postal-code service error.
func NewPostalCodeLookupFailedError(postalCode string, err error) *StandardError {
	return newError(ErrCodePostalCodeLookupFailed, "Postal code lookup failed",
		fmt.Sprintf("postalCode: %s, error: %v", postalCode, err), true, err)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("%s request failed", service),
		fmt.Sprint(err), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("%s request timed out", service),
		fmt.Sprint(err), true, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeFetchFailure:           "FETCH_FAILURE",
	ErrCodeParseAnomaly:           "PARSE_ANOMALY",
	ErrCodeNoResolvableLink:       "NO_RESOLVABLE_LINK",
	ErrCodeValidationRejection:    "VALIDATION_REJECTION",
	ErrCodeSearchPageUnavailable:  "SEARCH_PAGE_UNAVAILABLE",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeOutputSchemaInvalid:    "OUTPUT_SCHEMA_INVALID",
	ErrCodeNotFound:               "NOT_FOUND",
	ErrCodePostalCodeLookupFailed: "POSTAL_CODE_LOOKUP_FAILED",
	ErrCodeExternalService:        "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:                "TIMEOUT",
}

// GetRetryCount returns the recommended job retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSearchPageUnavailable,
		ErrCodePostalCodeLookupFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err into a *StandardError when one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FETCH") || strings.Contains(codeStr, "LINK"):
		return "FETCH"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "PARSE"):
		return "PARSE"
	case strings.Contains(codeStr, "POSTAL") || code == ErrCodeNotFound:
		return "POSTAL_CODE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case code == ErrCodeExternalService || code == ErrCodeTimeout:
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
