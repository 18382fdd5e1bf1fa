package alert

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Webhook sends deal alerts to a generic HTTP endpoint as a signed
// JSON event.
type Webhook struct {
	client *http.Client
	url    string
	secret string
}

// NewWebhook creates a new generic webhook notifier.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}
}

func (w *Webhook) Name() string { return "webhook" }

// webhookEvent is the wire form of a deal alert. Flat fields so the
// receiver can verify the signature and route on "event" without
// unpacking nested structures.
type webhookEvent struct {
	Event    string  `json:"event"`
	SentAt   string  `json:"sent_at"`
	Title    string  `json:"title"`
	Body     string  `json:"body,omitempty"`
	Venue    string  `json:"venue"`
	Category string  `json:"category,omitempty"`
	Savings  string  `json:"savings,omitempty"`
	Score    float64 `json:"score"`
	Expires  string  `json:"expires,omitempty"`
}

func (w *Webhook) Send(ctx context.Context, n *Notification) error {
	body, err := json.Marshal(webhookEvent{
		Event:    "deal.alert",
		SentAt:   time.Now().UTC().Format(time.RFC3339),
		Title:    n.Title,
		Body:     n.Body,
		Venue:    n.Venue,
		Category: n.Category,
		Savings:  n.Savings,
		Score:    n.Score,
		Expires:  n.Expires,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "localpulse/1.0")

	// HMAC signature for verification.
	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Signature-256", "sha256="+sig)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	return nil
}
