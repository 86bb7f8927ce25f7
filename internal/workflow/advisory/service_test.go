// internal/workflow/advisory/service_test.go
package advisory

import (
	"context"
	"testing"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicationColumns = []string{
	"id", "applicant_id", "category", "requested_amount", "priority", "submitted_date",
	"status", "request_detail", "evaluation_note", "chair_approval", "chair_approval_note",
	"payment_id", "ai_summary", "ai_priority", "created_at", "updated_at",
}

type stubAnalyzer struct {
	analysis *Analysis
	err      error
	calls    int
}

func (a *stubAnalyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.analysis, nil
}

func newTestService(t *testing.T, analyzer Analyzer) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	svc := NewService(store.NewApplicationStore(db, log), analyzer, log)
	return svc, mock, func() { db.Close() }
}

func recordRows(id, detail string) *sqlmock.Rows {
	return sqlmock.NewRows(applicationColumns).AddRow(
		id, "person-1", "health", 300.0, "medium", "2026-08-01T10:00:00Z",
		"pending", detail, "", "", "", nil, "", "",
		"2026-08-01T10:00:00Z", "2026-08-01T10:00:00Z",
	)
}

func TestAnnotateSuccess(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &Analysis{
		Summary:  "Chronic medication costs for an elderly applicant",
		Priority: models.PriorityHigh,
	}}
	svc, mock, closeDB := newTestService(t, analyzer)
	defer closeDB()

	mock.ExpectQuery("FROM applications").
		WithArgs("app-1").
		WillReturnRows(recordRows("app-1", "Monthly medication is unaffordable"))
	mock.ExpectExec("UPDATE applications").
		WithArgs("app-1", "Chronic medication costs for an elderly applicant", "high", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := svc.Annotate(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, "Chronic medication costs for an elderly applicant", rec.AISummary)
	assert.Equal(t, models.PriorityHigh, rec.AIPriority)

	// The annotation never touches the workflow state.
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Equal(t, models.ChairApprovalUnset, rec.ChairApproval)
	assert.Empty(t, rec.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnotateWithoutDetail(t *testing.T) {
	for name, detail := range map[string]string{
		"empty":      "",
		"whitespace": "   \n\t",
	} {
		t.Run(name, func(t *testing.T) {
			analyzer := &stubAnalyzer{}
			svc, mock, closeDB := newTestService(t, analyzer)
			defer closeDB()

			mock.ExpectQuery("FROM applications").
				WithArgs("app-1").
				WillReturnRows(recordRows("app-1", detail))

			_, err := svc.Annotate(context.Background(), "app-1")

			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisUnavailable))
			assert.Equal(t, 0, analyzer.calls)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAnnotateAnalyzerFailure(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.NewAnalysisFailedError(assert.AnError)}
	svc, mock, closeDB := newTestService(t, analyzer)
	defer closeDB()

	mock.ExpectQuery("FROM applications").
		WithArgs("app-1").
		WillReturnRows(recordRows("app-1", "Some detail text"))

	_, err := svc.Annotate(context.Background(), "app-1")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnotateRecordNotFound(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, mock, closeDB := newTestService(t, analyzer)
	defer closeDB()

	mock.ExpectQuery("FROM applications").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	_, err := svc.Annotate(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRecordNotFound))
	assert.Equal(t, 0, analyzer.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
