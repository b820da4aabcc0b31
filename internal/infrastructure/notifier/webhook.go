package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
)

// WebhookDelivery posts notifications to the SMS/email gateway.
type WebhookDelivery struct {
	url    string
	client *http.Client
}

func NewWebhookDelivery(url string, timeout time.Duration) *WebhookDelivery {
	return &WebhookDelivery{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *WebhookDelivery) Send(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	slog.Debug("notification sent to webhook", "carrier_id", n.CarrierID, "bid_number", n.BidNumber)
	return nil
}
