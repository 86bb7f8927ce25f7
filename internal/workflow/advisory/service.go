// internal/workflow/advisory/service.go

// Package advisory attaches AI-derived summary and priority hints to aid
// applications. It is the only writer of those two fields and never reads
// or writes status, chair approval or payment state.
package advisory

import (
	"context"
	"strings"
	"time"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/common/metrics"
	"aid-workflow/internal/models"
	"aid-workflow/internal/store"
)

type Service struct {
	store    *store.ApplicationStore
	analyzer Analyzer
	logger   logger.Logger
}

func NewService(st *store.ApplicationStore, analyzer Analyzer, log logger.Logger) *Service {
	return &Service{
		store:    st,
		analyzer: analyzer,
		logger:   log.WithFields(map[string]interface{}{"component": "advisory"}),
	}
}

// Annotate analyzes the application's request detail and stores the
// advisory summary and priority hint. An application without detail text
// fails with AnalysisUnavailable before any service call.
func (s *Service) Annotate(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rec.RequestDetail) == "" {
		metrics.AdvisoryRequests.WithLabelValues("unavailable").Inc()
		return nil, errors.NewAnalysisUnavailableError(id)
	}

	analysis, err := s.analyzer.Analyze(ctx, rec.RequestDetail)
	if err != nil {
		metrics.AdvisoryRequests.WithLabelValues("failed").Inc()
		s.logger.Warn("advisory analysis failed", map[string]interface{}{
			"applicationId": id,
			"error":         err,
		})
		return nil, err
	}

	if err := s.store.UpdateAnnotation(ctx, id, analysis.Summary, analysis.Priority); err != nil {
		metrics.AdvisoryRequests.WithLabelValues("store_error").Inc()
		return nil, err
	}

	metrics.AdvisoryRequests.WithLabelValues("ok").Inc()
	s.logger.Info("advisory annotation stored", map[string]interface{}{
		"applicationId": id,
		"aiPriority":    analysis.Priority,
	})

	rec.AISummary = analysis.Summary
	rec.AIPriority = analysis.Priority
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return rec, nil
}
