// internal/store/applications.go

// Package store provides data access for aid-application records. Every
// mutating statement carries the expected prior state in its WHERE clause,
// so a record changed by another evaluator fails the commit instead of
// being overwritten.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"
)

const applicationColumns = `
	id, applicant_id, category, requested_amount, priority, submitted_date,
	status, request_detail, evaluation_note, chair_approval, chair_approval_note,
	payment_id, ai_summary, ai_priority, created_at, updated_at`

// ApplicationStore persists ApplicationRecords in PostgreSQL.
type ApplicationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationStore(db *sql.DB, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "application-store"}),
	}
}

// Create inserts a new record. The audit log write is non-critical; its
// failure is logged but does not fail the insert.
func (s *ApplicationStore) Create(ctx context.Context, rec *models.ApplicationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, applicant_id, category, requested_amount, priority, submitted_date,
			status, request_detail, evaluation_note, chair_approval, chair_approval_note,
			payment_id, ai_summary, ai_priority, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULL, $12, $13, $14, $14)`,
		rec.ID,
		rec.ApplicantID,
		string(rec.Category),
		rec.RequestedAmount,
		string(rec.Priority),
		rec.SubmittedDate,
		string(rec.Status),
		rec.RequestDetail,
		rec.EvaluationNote,
		string(rec.ChairApproval),
		rec.ChairApprovalNote,
		rec.AISummary,
		string(rec.AIPriority),
		rec.CreatedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create application", err)
	}

	s.writeAuditLog(ctx, "application_created", rec.ID, map[string]interface{}{
		"applicantId":     rec.ApplicantID,
		"category":        rec.Category,
		"requestedAmount": rec.RequestedAmount,
		"priority":        rec.Priority,
	})

	return nil
}

// Get loads one record by id.
func (s *ApplicationStore) Get(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+applicationColumns+`
		FROM applications
		WHERE id = $1`, id)

	rec, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get application", err)
	}
	return rec, nil
}

// List returns all records, newest submissions first. It serves the
// read-side consumers only; the workflow never iterates applications.
func (s *ApplicationStore) List(ctx context.Context) ([]*models.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+applicationColumns+`
		FROM applications
		ORDER BY submitted_date DESC, id`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list applications", err)
	}
	defer rows.Close()

	var recs []*models.ApplicationRecord
	for rows.Next() {
		rec, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan application", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list applications", err)
	}
	return recs, nil
}

// UpdateEvaluation commits an evaluator transition. The UPDATE is keyed on
// the status the caller observed; zero rows affected means another caller
// got there first.
func (s *ApplicationStore) UpdateEvaluation(ctx context.Context, id string, from, to models.Status, note string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $3, evaluation_note = $4, updated_at = $5
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to), note, nowRFC3339(),
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update evaluation", err)
	}
	return s.checkAffected(ctx, res, id)
}

// UpdateChairDecision commits a chair decision, valid only while the record
// is still in the approved state.
func (s *ApplicationStore) UpdateChairDecision(ctx context.Context, id string, approval models.ChairApproval, note string, newStatus models.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, chair_approval = $3, chair_approval_note = $4, updated_at = $5
		WHERE id = $1 AND status = $6`,
		id, string(newStatus), string(approval), note, nowRFC3339(), string(models.StatusApproved),
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update chair decision", err)
	}
	return s.checkAffected(ctx, res, id)
}

// MarkCompletedTx advances an approved, chair-granted, unpaid record to
// completed with its payment reference, inside the caller's transaction.
// The three gate preconditions are re-checked by the WHERE clause so the
// commit can never pair a payment with a record someone else already moved.
func (s *ApplicationStore) MarkCompletedTx(ctx context.Context, tx *sql.Tx, id, paymentID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, payment_id = $3, updated_at = $4
		WHERE id = $1 AND status = $5 AND chair_approval = $6 AND payment_id IS NULL`,
		id, string(models.StatusCompleted), paymentID, nowRFC3339(),
		string(models.StatusApproved), string(models.ChairApprovalGranted),
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark completed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark completed", err)
	}
	if affected == 0 {
		return errors.NewConcurrentModificationError(id)
	}

	s.writeAuditLogTx(ctx, tx, "application_disbursed", id, map[string]interface{}{
		"paymentId": paymentID,
	})

	return nil
}

// UpdateAnnotation writes the advisory fields. It is keyed on id alone:
// the annotation is a narrow field-level update that never contends with
// workflow transitions and never touches status, chair approval or payment.
func (s *ApplicationStore) UpdateAnnotation(ctx context.Context, id, summary string, priority models.Priority) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET ai_summary = $2, ai_priority = $3, updated_at = $4
		WHERE id = $1`,
		id, summary, string(priority), nowRFC3339(),
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update annotation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update annotation", err)
	}
	if affected == 0 {
		return errors.NewRecordNotFoundError(id)
	}
	return nil
}

// checkAffected distinguishes a vanished record from a concurrent change
// when a compare-and-set UPDATE touched no rows.
func (s *ApplicationStore) checkAffected(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("rows affected", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return errors.NewQueryExecutionFailedError("existence check", err)
	}
	if !exists {
		return errors.NewRecordNotFoundError(id)
	}
	return errors.NewConcurrentModificationError(id)
}

func (s *ApplicationStore) writeAuditLog(ctx context.Context, eventType, resourceID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("failed to marshal audit log details", map[string]interface{}{"error": err})
		detailsJSON = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventType, "application", resourceID, detailsJSON, nowRFC3339(),
	)
	if err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": resourceID,
		})
	}
}

func (s *ApplicationStore) writeAuditLogTx(ctx context.Context, tx *sql.Tx, eventType, resourceID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("failed to marshal audit log details", map[string]interface{}{"error": err})
		detailsJSON = []byte("{}")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventType, "application", resourceID, detailsJSON, nowRFC3339(),
	)
	if err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": resourceID,
		})
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.ApplicationRecord, error) {
	var rec models.ApplicationRecord
	var category, priority, status, chairApproval, aiPriority string
	var paymentID sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.ApplicantID,
		&category,
		&rec.RequestedAmount,
		&priority,
		&rec.SubmittedDate,
		&status,
		&rec.RequestDetail,
		&rec.EvaluationNote,
		&chairApproval,
		&rec.ChairApprovalNote,
		&paymentID,
		&rec.AISummary,
		&aiPriority,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Category = models.Category(category)
	rec.Priority = models.Priority(priority)
	rec.Status = models.Status(status)
	rec.ChairApproval = models.ChairApproval(chairApproval)
	rec.AIPriority = models.Priority(aiPriority)
	if paymentID.Valid {
		rec.PaymentID = paymentID.String
	}
	return &rec, nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
