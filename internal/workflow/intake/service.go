// internal/workflow/intake/service.go

// Package intake creates new aid applications. Every application starts in
// pending with its submission date fixed at creation; both are immutable
// afterwards.
package intake

import (
	"context"
	"time"

	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"

	"github.com/google/uuid"
)

// Input is one submission payload.
type Input struct {
	ApplicantID     string          `json:"applicantId"`
	Category        models.Category `json:"category"`
	RequestedAmount float64         `json:"requestedAmount"`
	Priority        models.Priority `json:"priority"`
	RequestDetail   string          `json:"requestDetail"`
}

type Service struct {
	store  *store.ApplicationStore
	logger logger.Logger
}

func NewService(st *store.ApplicationStore, log logger.Logger) *Service {
	return &Service{
		store:  st,
		logger: log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// Submit validates the payload and creates the application in pending.
func (s *Service) Submit(ctx context.Context, input *Input) (*models.ApplicationRecord, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rec := &models.ApplicationRecord{
		ID:              uuid.New().String(),
		ApplicantID:     input.ApplicantID,
		Category:        input.Category,
		RequestedAmount: input.RequestedAmount,
		Priority:        input.Priority,
		SubmittedDate:   now,
		Status:          models.StatusPending,
		RequestDetail:   input.RequestDetail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted", map[string]interface{}{
		"applicationId":   rec.ID,
		"applicantId":     rec.ApplicantID,
		"category":        rec.Category,
		"requestedAmount": rec.RequestedAmount,
	})

	return rec, nil
}
