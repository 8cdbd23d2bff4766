package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/atarasenko/contribution-service/pkg/logger/sl"
)

// Notifier is the outbound notification collaborator. Implementations must
// be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, event api.NotificationEvent) error
}

// WebhookNotifier posts events as JSON to a configured webhook.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(cfg config.Notifier) *WebhookNotifier {
	return &WebhookNotifier{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, event api.NotificationEvent) error {
	const op = "internal.service.notifier.Notify"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal event: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to deliver event: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: webhook returned status %d", op, resp.StatusCode)
	}

	return nil
}

// NoopNotifier discards events; used when no webhook is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, api.NotificationEvent) error { return nil }

// Dispatcher delivers events fire-and-forget with bounded retry. A delivery
// failure is logged and never propagates to the caller, so score and case
// persistence cannot be blocked or rolled back by the notification path.
type Dispatcher struct {
	notifier Notifier
	log      *slog.Logger
	retries  int
	backoff  time.Duration
}

func NewDispatcher(notifier Notifier, log *slog.Logger, cfg config.Notifier) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		log:      log,
		retries:  cfg.MaxRetries,
		backoff:  cfg.RetryBackoff,
	}
}

// Dispatch hands the event off to a background goroutine and returns
// immediately.
func (d *Dispatcher) Dispatch(event api.NotificationEvent) {
	go d.deliver(event)
}

func (d *Dispatcher) deliver(event api.NotificationEvent) {
	log := d.log.With(slog.String("event_type", event.Type), slog.String("user_id", event.UserID))

	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.backoff * time.Duration(attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := d.notifier.Notify(ctx, event)
		cancel()

		if err == nil {
			return
		}

		log.Warn("notification delivery failed", slog.Int("attempt", attempt+1), sl.Err(err))
	}

	log.Error("notification dropped after retries exhausted")
}
