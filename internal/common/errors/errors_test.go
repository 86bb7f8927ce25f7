// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := NewInvalidTransitionError("pending", "completed")

	assert.True(t, IsCode(err, ErrCodeInvalidTransition))
	assert.False(t, IsCode(err, ErrCodeRecordNotFound))
	assert.False(t, IsCode(nil, ErrCodeInvalidTransition))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeInvalidTransition))
}

func TestIsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewConcurrentModificationError("app-1"))

	assert.True(t, IsCode(err, ErrCodeConcurrentModification))
	assert.Equal(t, ErrCodeConcurrentModification, CodeOf(err))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestRetryability(t *testing.T) {
	assert.True(t, IsRetryable(NewConcurrentModificationError("app-1")))
	assert.True(t, IsRetryable(NewAnalysisFailedError(stderrors.New("boom"))))
	assert.True(t, IsRetryable(NewQueryExecutionFailedError("op", stderrors.New("boom"))))

	assert.False(t, IsRetryable(NewInvalidTransitionError("a", "b")))
	assert.False(t, IsRetryable(NewDisbursementNotAllowedError("reason")))
	assert.False(t, IsRetryable(NewPartialDisbursementFailureError("app-1", "pay-1", stderrors.New("boom"))))
	assert.False(t, IsRetryable(stderrors.New("plain")))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("connection lost")
	err := NewPartialDisbursementFailureError("app-1", "pay-1", cause)

	assert.True(t, stderrors.Is(err, cause))
}

func TestPartialDisbursementFailureCarriesIdentifiers(t *testing.T) {
	err := NewPartialDisbursementFailureError("app-1", "pay-1", stderrors.New("commit failed"))

	assert.Equal(t, "app-1", err.Metadata["applicationId"])
	assert.Equal(t, "pay-1", err.Metadata["paymentId"])
	assert.Contains(t, err.Details, "commit failed")
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrorStringIncludesCode(t *testing.T) {
	err := NewRecordNotFoundError("app-1")
	assert.Contains(t, err.Error(), string(ErrCodeRecordNotFound))
}
