package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/resonancehq/archetype-api/internal/domain"
	"github.com/resonancehq/archetype-api/internal/usecase"
)

// CRMGateway posts new results to the CRM webhook. Delivery is best
// effort and fire-and-forget: failures are logged and dropped, never
// retried, never surfaced.
type CRMGateway struct {
	client     *http.Client
	webhookURL string
}

func NewCRMGateway(webhookURL string, timeout time.Duration) *CRMGateway {
	return &CRMGateway{
		client:     &http.Client{Timeout: timeout},
		webhookURL: webhookURL,
	}
}

func (g *CRMGateway) Notify(ctx context.Context, record domain.Record) {
	if g.webhookURL == "" {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"recordId":     record.ID,
		"email":        record.Email,
		"name":         record.Name,
		"company":      record.Company,
		"archetypeId":  record.ArchetypeID,
		"demoInterest": record.DemoInterest,
	})
	if err != nil {
		slog.Warn("crm payload encode failed", "record", record.ID, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.webhookURL, bytes.NewReader(payload))
	if err != nil {
		slog.Warn("crm request failed", "record", record.ID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		slog.Warn("crm webhook unreachable", "record", record.ID, "error", err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		slog.Warn("crm webhook rejected payload", "record", record.ID, "status", resp.StatusCode)
	}
}

var _ usecase.Notifier = (*CRMGateway)(nil)
