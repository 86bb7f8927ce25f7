// internal/common/errors/errors.go

// Package errors provides standardized error handling for the aid-application
// approval and disbursement workflow.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Workflow errors.
	ErrCodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrCodeDisbursementNotAllowed ErrorCode = "DISBURSEMENT_NOT_ALLOWED"
	ErrCodeApplicantNotFound      ErrorCode = "APPLICANT_NOT_FOUND"
	ErrCodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"

	// PartialDisbursementFailure means the payment ledger write succeeded but
	// the application record could not be committed. It always requires
	// manual reconciliation and is never silently absorbed.
	ErrCodePartialDisbursementFailure ErrorCode = "PARTIAL_DISBURSEMENT_FAILURE"

	// Advisory path errors. These never gate workflow transitions.
	ErrCodeAnalysisUnavailable ErrorCode = "ANALYSIS_UNAVAILABLE"
	ErrCodeAnalysisFailed      ErrorCode = "ANALYSIS_FAILED"

	// Storage errors.
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"

	// Intake errors.
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// IsCode reports whether err is (or wraps) a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// CodeOf returns the error code of err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// NewInvalidTransitionError creates a non-retryable transition error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Status transition not allowed",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDisbursementNotAllowedError creates a non-retryable gate error citing
// the unmet precondition.
func NewDisbursementNotAllowedError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDisbursementNotAllowed,
		Message:   "Disbursement preconditions not met",
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicantNotFoundError creates a non-retryable directory lookup error.
func NewApplicantNotFoundError(applicantID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicantNotFound,
		Message:   "Applicant not found in person directory",
		Details:   fmt.Sprintf("applicantId: %s", applicantID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConcurrentModificationError signals a stale record at commit. The whole
// operation may be retried by the caller; the commit itself never overwrites
// silently.
func NewConcurrentModificationError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConcurrentModification,
		Message:   "Application was modified concurrently",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPartialDisbursementFailureError reports a payment that exists without a
// matching completed application. Metadata carries both identifiers for
// manual reconciliation.
func NewPartialDisbursementFailureError(applicationID, paymentID string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodePartialDisbursementFailure,
		Message:   "Payment recorded but application commit failed; manual reconciliation required",
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"applicationId": applicationID,
			"paymentId":     paymentID,
		},
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewAnalysisUnavailableError creates a non-retryable advisory error for
// applications without request detail text.
func NewAnalysisUnavailableError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisUnavailable,
		Message:   "No request detail available for analysis",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError creates a retryable advisory service error.
func NewAnalysisFailedError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Advisory analysis service error",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewRecordNotFoundError creates a non-retryable store lookup error.
func NewRecordNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Application record not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable database error.
func NewQueryExecutionFailedError(operation string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, cause.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewApplicationValidationFailedError creates a non-retryable intake
// validation error.
func NewApplicationValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}
