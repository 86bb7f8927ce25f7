// internal/workflow/intake/service_test.go
package intake

import (
	"context"
	"testing"
	"time"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	svc := NewService(store.NewApplicationStore(db, log), log)
	return svc, mock, func() { db.Close() }
}

func validInput() *Input {
	return &Input{
		ApplicantID:     "person-1",
		Category:        models.CategoryEducation,
		RequestedAmount: 1200,
		Priority:        models.PriorityMedium,
		RequestDetail:   "School books and supplies for two children",
	}
}

func TestSubmitSuccess(t *testing.T) {
	svc, mock, closeDB := newTestService(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(sqlmock.AnyArg(), "person-1", "education", 1200.0, "medium",
			sqlmock.AnyArg(), "pending", "School books and supplies for two children",
			"", "", "", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs("application_created", "application", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, err := svc.Submit(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Equal(t, models.ChairApprovalUnset, rec.ChairApproval)
	assert.Empty(t, rec.PaymentID)
	assert.Empty(t, rec.AISummary)

	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err, "application id should be a uuid")

	_, err = time.Parse(time.RFC3339, rec.SubmittedDate)
	assert.NoError(t, err, "submitted date should be RFC3339")
	assert.Equal(t, rec.SubmittedDate, rec.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitAuditFailureIsNonFatal(t *testing.T) {
	svc, mock, closeDB := newTestService(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WillReturnError(assert.AnError)

	_, err := svc.Submit(context.Background(), validInput())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing applicant", func(in *Input) { in.ApplicantID = "" }},
		{"unknown category", func(in *Input) { in.Category = "vacation" }},
		{"negative amount", func(in *Input) { in.RequestedAmount = -50 }},
		{"unknown priority", func(in *Input) { in.Priority = "urgent" }},
		{"empty detail", func(in *Input) { in.RequestDetail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, closeDB := newTestService(t)
			defer closeDB()

			input := validInput()
			tt.mutate(input)

			// Rejected before any database access.
			_, err := svc.Submit(context.Background(), input)

			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeApplicationValidationFailed))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubmitZeroAmountAllowed(t *testing.T) {
	svc, mock, closeDB := newTestService(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))

	input := validInput()
	input.RequestedAmount = 0

	_, err := svc.Submit(context.Background(), input)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitStoreError(t *testing.T) {
	svc, mock, closeDB := newTestService(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(assert.AnError)

	_, err := svc.Submit(context.Background(), validInput())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueryExecutionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
