// internal/ledger/ledger.go

// Package ledger appends disbursement payments to the payment ledger.
// The workflow core never updates or deletes ledger entries.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/models"

	"github.com/google/uuid"
)

// PaymentInput is everything the ledger needs to record one disbursement.
type PaymentInput struct {
	Payee       string
	Amount      float64
	Description string
}

// Ledger writes payment records to PostgreSQL. All writes go through the
// disbursement transaction, so it holds no connection of its own.
type Ledger struct {
	currency string
}

func New(currency string) *Ledger {
	return &Ledger{currency: currency}
}

// CreatePaymentTx appends one completed bank-transfer payment inside the
// caller's transaction and returns its identifier. The disbursement gate
// uses the transaction so the payment row and the application commit share
// one transactional boundary.
func (l *Ledger) CreatePaymentTx(ctx context.Context, tx *sql.Tx, input PaymentInput) (string, error) {
	paymentID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO payments (
			id, type, payee, amount, currency, description, method, status, payment_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		paymentID,
		string(models.PaymentTypeAidDisbursement),
		input.Payee,
		input.Amount,
		l.currency,
		input.Description,
		string(models.PaymentMethodBankTransfer),
		string(models.PaymentStatusCompleted),
		now,
	)
	if err != nil {
		return "", errors.NewQueryExecutionFailedError("create payment", err)
	}
	return paymentID, nil
}
