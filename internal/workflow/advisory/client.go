// internal/workflow/advisory/client.go
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aid-workflow/internal/common/config"
	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"
)

// Analysis is the advisory service's verdict on one request text. It is a
// hint for human evaluators, never an input to the state machine.
type Analysis struct {
	Summary  string
	Priority models.Priority
}

// Analyzer is the external advisory analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

// Client calls the advisory analysis HTTP API. The service is stateless
// and best-effort; transient failures are retried with exponential backoff
// within the caller's deadline.
type Client struct {
	baseURL    string
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	logger     logger.Logger
}

func NewClient(cfg config.AdvisoryConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{},
		timeout:    time.Duration(cfg.Timeout) * time.Millisecond,
		maxRetries: cfg.MaxRetries,
		logger:     log.WithFields(map[string]interface{}{"component": "advisory-client"}),
	}
}

func (c *Client) Analyze(ctx context.Context, text string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, _ := json.Marshal(map[string]string{"text": text})

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewAnalysisFailedError(ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/analyze", bytes.NewReader(body))
		if err != nil {
			return nil, errors.NewAnalysisFailedError(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, errors.NewAnalysisFailedError(ctx.Err())
		}
	}

	if lastErr != nil {
		return nil, errors.NewAnalysisFailedError(lastErr)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Summary      string `json:"summary"`
		PriorityHint string `json:"priorityHint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("decode error: %w", err))
	}

	if strings.TrimSpace(apiResponse.Summary) == "" {
		return nil, errors.NewAnalysisFailedError(fmt.Errorf("empty summary in response"))
	}

	priority := models.Priority(apiResponse.PriorityHint)
	if !priority.Valid() {
		c.logger.Warn("unknown priority hint, defaulting to medium", map[string]interface{}{
			"priorityHint": apiResponse.PriorityHint,
		})
		priority = models.PriorityMedium
	}

	return &Analysis{
		Summary:  apiResponse.Summary,
		Priority: priority,
	}, nil
}
