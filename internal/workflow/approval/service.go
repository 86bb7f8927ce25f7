// internal/workflow/approval/service.go

// Package approval implements the aid-application approval state machine.
// It validates and commits status transitions; it never creates payments
// and never writes the advisory fields.
package approval

import (
	"context"
	"time"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/common/metrics"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"
)

type Service struct {
	store  *store.ApplicationStore
	logger logger.Logger
}

func NewService(st *store.ApplicationStore, log logger.Logger) *Service {
	return &Service{
		store:  st,
		logger: log.WithFields(map[string]interface{}{"component": "approval"}),
	}
}

// Evaluate applies an evaluator transition and overwrites the evaluation
// note. The requested target is restricted to the generic evaluate set;
// the commit is keyed on the status the evaluator saw, so a concurrent
// change fails with ConcurrentModification instead of overwriting.
func (s *Service) Evaluate(ctx context.Context, id string, target models.Status, note string) (*models.ApplicationRecord, error) {
	if !IsEvaluateTarget(target) {
		metrics.TransitionsRejected.WithLabelValues("target_not_allowed").Inc()
		return nil, errors.NewInvalidTransitionError("", string(target))
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(rec.Status, target) {
		metrics.TransitionsRejected.WithLabelValues("invalid_transition").Inc()
		return nil, errors.NewInvalidTransitionError(string(rec.Status), string(target))
	}

	if err := s.store.UpdateEvaluation(ctx, id, rec.Status, target, note); err != nil {
		if errors.IsCode(err, errors.ErrCodeConcurrentModification) {
			metrics.TransitionsRejected.WithLabelValues("concurrent_modification").Inc()
		}
		return nil, err
	}

	metrics.TransitionsApplied.WithLabelValues(string(rec.Status), string(target)).Inc()
	s.logger.Info("status transition applied", map[string]interface{}{
		"applicationId": id,
		"from":          rec.Status,
		"to":            target,
	})

	rec.Status = target
	rec.EvaluationNote = note
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return rec, nil
}

// RecordChairDecision records the chair's verdict on an approved
// application. Denied moves the application to rejected_by_chair; granted
// keeps it approved with chair approval set, leaving payment pending.
func (s *Service) RecordChairDecision(ctx context.Context, id string, granted bool, note string) (*models.ApplicationRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Status != models.StatusApproved {
		metrics.TransitionsRejected.WithLabelValues("invalid_transition").Inc()
		return nil, errors.NewInvalidTransitionError(string(rec.Status), "chair decision")
	}

	approval := models.ChairApprovalGranted
	newStatus := models.StatusApproved
	if !granted {
		approval = models.ChairApprovalDenied
		newStatus = models.StatusRejectedByChair
	}

	if err := s.store.UpdateChairDecision(ctx, id, approval, note, newStatus); err != nil {
		if errors.IsCode(err, errors.ErrCodeConcurrentModification) {
			metrics.TransitionsRejected.WithLabelValues("concurrent_modification").Inc()
		}
		return nil, err
	}

	if newStatus != rec.Status {
		metrics.TransitionsApplied.WithLabelValues(string(rec.Status), string(newStatus)).Inc()
	}
	s.logger.Info("chair decision recorded", map[string]interface{}{
		"applicationId": id,
		"granted":       granted,
	})

	rec.Status = newStatus
	rec.ChairApproval = approval
	rec.ChairApprovalNote = note
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return rec, nil
}
