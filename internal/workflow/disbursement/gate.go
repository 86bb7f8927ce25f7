// internal/workflow/disbursement/gate.go

// Package disbursement is the single path by which an aid application
// becomes completed. The payment ledger write and the record commit share
// one database transaction, so a payment can never exist for a record that
// another evaluator already moved.
package disbursement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/common/metrics"
	"aid-workflow/internal/common/observability"
	"aid-workflow/internal/directory"
	"aid-workflow/internal/ledger"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"
)

type Gate struct {
	db        *sql.DB
	store     *store.ApplicationStore
	directory directory.Directory
	ledger    *ledger.Ledger
	logger    logger.Logger
	obs       *observability.Observability
}

func NewGate(db *sql.DB, st *store.ApplicationStore, dir directory.Directory, led *ledger.Ledger, log logger.Logger, obs *observability.Observability) *Gate {
	return &Gate{
		db:        db,
		store:     st,
		directory: dir,
		ledger:    led,
		logger:    log.WithFields(map[string]interface{}{"component": "disbursement-gate"}),
		obs:       obs,
	}
}

// CreateDisbursement checks every precondition before any side effect,
// resolves the applicant, then records the payment and advances the
// application to completed as one commit. A second call on an already
// completed (or paid) application fails fast without touching the ledger.
func (g *Gate) CreateDisbursement(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	start := time.Now()

	rec, err := g.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if reason := unmetPrecondition(rec); reason != "" {
		metrics.DisbursementsTotal.WithLabelValues("not_allowed").Inc()
		return nil, errors.NewDisbursementNotAllowedError(reason)
	}

	person, err := g.directory.Lookup(ctx, rec.ApplicantID)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeApplicantNotFound) {
			metrics.DisbursementsTotal.WithLabelValues("applicant_not_found").Inc()
		}
		return nil, err
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("begin disbursement", err)
	}

	paymentID, err := g.ledger.CreatePaymentTx(ctx, tx, ledger.PaymentInput{
		Payee:       person.FullName(),
		Amount:      rec.RequestedAmount,
		Description: fmt.Sprintf("Aid application %s - %s", rec.ID, rec.Category),
	})
	if err != nil {
		_ = tx.Rollback()
		metrics.DisbursementsTotal.WithLabelValues("ledger_error").Inc()
		return nil, err
	}

	if err := g.store.MarkCompletedTx(ctx, tx, id, paymentID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			// Rollback failure leaves the payment row in doubt.
			return nil, g.reportPartialFailure(ctx, id, paymentID, rbErr)
		}
		if errors.IsCode(err, errors.ErrCodeConcurrentModification) {
			metrics.DisbursementsTotal.WithLabelValues("concurrent_modification").Inc()
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		// The payment may have been persisted without the record commit;
		// this must be escalated, never absorbed.
		return nil, g.reportPartialFailure(ctx, id, paymentID, err)
	}

	metrics.DisbursementsTotal.WithLabelValues("completed").Inc()
	metrics.DisbursementDuration.Observe(time.Since(start).Seconds())
	if g.obs != nil {
		g.obs.RecordOperation(ctx, "disbursement", "completed")
		g.obs.RecordDuration(ctx, "disbursement", time.Since(start))
	}

	g.logger.Info("disbursement completed", map[string]interface{}{
		"applicationId": id,
		"paymentId":     paymentID,
		"amount":        rec.RequestedAmount,
	})

	rec.Status = models.StatusCompleted
	rec.PaymentID = paymentID
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return rec, nil
}

// unmetPrecondition returns the first unmet gate precondition, or "" when
// disbursement is allowed. All three are checked before any side effect.
func unmetPrecondition(rec *models.ApplicationRecord) string {
	if rec.Status != models.StatusApproved {
		return fmt.Sprintf("status must be %s, is %s", models.StatusApproved, rec.Status)
	}
	if rec.ChairApproval != models.ChairApprovalGranted {
		return "chair approval not granted"
	}
	if rec.PaymentID != "" {
		return "payment already recorded"
	}
	return ""
}

func (g *Gate) reportPartialFailure(ctx context.Context, id, paymentID string, cause error) error {
	partial := errors.NewPartialDisbursementFailureError(id, paymentID, cause)
	metrics.DisbursementsTotal.WithLabelValues("partial_failure").Inc()
	if g.obs != nil {
		g.obs.RecordOperation(ctx, "disbursement", "partial_failure")
	}
	g.logger.Error("partial disbursement failure, manual reconciliation required", map[string]interface{}{
		"applicationId": id,
		"paymentId":     paymentID,
		"error":         cause,
	})
	return partial
}
