package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxErrorBody = 512

// DiscordWebhook posts and edits messages through a Discord webhook URL.
type DiscordWebhook struct {
	url        string
	username   string
	client     *http.Client
	metrics    providers.MetricsProviderInterface
	retryDelay []time.Duration
}

func NewDiscordWebhook(conf structures.NotifierConfig, metrics providers.MetricsProviderInterface) *DiscordWebhook {
	return &DiscordWebhook{
		url:      strings.TrimRight(conf.WebhookURL, "/"),
		username: conf.Username,
		client:   &http.Client{Timeout: conf.Timeout},
		metrics:  metrics,
		retryDelay: []time.Duration{
			0,
			2 * time.Second,
			10 * time.Second,
		},
	}
}

type webhookResponse struct {
	ID string `json:"id"`
}

func (d *DiscordWebhook) Send(ctx context.Context, msg *Message) (string, error) {
	body, err := d.encode(msg)
	if err != nil {
		return "", err
	}

	resp, err := d.do(ctx, http.MethodPost, d.url+"?wait=true", body)
	d.metrics.IncNotifications("send", err == nil)
	if err != nil {
		return "", err
	}

	var created webhookResponse
	if err := json.Unmarshal(resp, &created); err != nil {
		return "", fmt.Errorf("decode webhook response: %w", err)
	}
	return created.ID, nil
}

func (d *DiscordWebhook) Edit(ctx context.Context, id string, msg *Message) error {
	body, err := d.encode(msg)
	if err != nil {
		return err
	}

	_, err = d.do(ctx, http.MethodPatch, d.url+"/messages/"+url.PathEscape(id), body)
	d.metrics.IncNotifications("edit", err == nil)
	return err
}

func (d *DiscordWebhook) encode(msg *Message) ([]byte, error) {
	out := *msg
	if out.Username == "" {
		out.Username = d.username
	}
	body, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode webhook message: %w", err)
	}
	return body, nil
}

// do sends the request, retrying rate limits and server errors. A 404 maps to
// ErrMessageNotFound and is never retried.
func (d *DiscordWebhook) do(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt, delay := range d.retryDelay {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("webhook request failed: %w", err)
			continue
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return respBody, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrMessageNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, truncate(respBody))
		default:
			return nil, fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, truncate(respBody))
		}
	}
	return nil, lastErr
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}
