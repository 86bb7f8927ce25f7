// internal/ledger/ledger_test.go
package ledger

import (
	"context"
	"testing"

	"aid-workflow/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(sqlmock.AnyArg(), "aid_disbursement", "Ayse Yilmaz", 750.0, "TRY",
			"Aid application app-1 - emergency", "bank_transfer", "completed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	paymentID, err := New("TRY").CreatePaymentTx(context.Background(), tx, PaymentInput{
		Payee:       "Ayse Yilmaz",
		Amount:      750,
		Description: "Aid application app-1 - emergency",
	})

	require.NoError(t, err)
	_, err = uuid.Parse(paymentID)
	assert.NoError(t, err, "payment id should be a uuid")

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentTxUsesConfiguredCurrency(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(sqlmock.AnyArg(), "aid_disbursement", "payee", 10.0, "EUR",
			"desc", "bank_transfer", "completed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = New("EUR").CreatePaymentTx(context.Background(), tx, PaymentInput{
		Payee:       "payee",
		Amount:      10,
		Description: "desc",
	})

	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentTxDiscardedByRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	paymentID, err := New("TRY").CreatePaymentTx(context.Background(), tx, PaymentInput{
		Payee:       "payee",
		Amount:      10,
		Description: "desc",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, paymentID)

	// Rolling back the transaction discards the payment write.
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentTxInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = New("TRY").CreatePaymentTx(context.Background(), tx, PaymentInput{
		Payee:       "payee",
		Amount:      10,
		Description: "desc",
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueryExecutionFailed))
	assert.True(t, errors.IsRetryable(err))

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
