package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookSMS posts messages to an SMS relay endpoint (Twilio proxy, shop
// phone bridge, etc). The relay owns transport-level retry.
type WebhookSMS struct {
	URL    string
	Client *http.Client
}

func NewWebhookSMS(url string) *WebhookSMS {
	return &WebhookSMS{URL: url, Client: &http.Client{Timeout: 15 * time.Second}}
}

func (g *WebhookSMS) Send(ctx context.Context, to, body string) error {
	payload := map[string]string{"to": to, "body": body}
	resp, err := postJSON(ctx, g.Client, g.URL, payload)
	if err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()
	return classifyStatus("sms send", resp.StatusCode)
}

// WebhookEmail talks to an email relay that exposes send/reply/thread
// endpoints and returns an opaque thread id per conversation.
type WebhookEmail struct {
	URL    string
	From   string
	Client *http.Client
}

func NewWebhookEmail(url, from string) *WebhookEmail {
	return &WebhookEmail{URL: url, From: from, Client: &http.Client{Timeout: 15 * time.Second}}
}

func (g *WebhookEmail) Send(ctx context.Context, to, subject, htmlBody string) (ThreadHandle, error) {
	payload := map[string]string{"from": g.From, "to": to, "subject": subject, "html": htmlBody}
	resp, err := postJSON(ctx, g.Client, g.URL+"/send", payload)
	if err != nil {
		return "", fmt.Errorf("email send: %w", err)
	}
	defer resp.Body.Close()
	if err := classifyStatus("email send", resp.StatusCode); err != nil {
		return "", err
	}
	var out struct {
		ThreadID string `json:"thread_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("email send: decode response: %w", err)
	}
	if out.ThreadID == "" {
		return "", fmt.Errorf("email send: relay returned no thread id")
	}
	return ThreadHandle(out.ThreadID), nil
}

func (g *WebhookEmail) SendReply(ctx context.Context, handle ThreadHandle, to, subject, htmlBody string) error {
	payload := map[string]string{
		"thread_id": string(handle),
		"from":      g.From,
		"to":        to,
		"subject":   subject,
		"html":      htmlBody,
	}
	resp, err := postJSON(ctx, g.Client, g.URL+"/reply", payload)
	if err != nil {
		return fmt.Errorf("email reply: %w", err)
	}
	defer resp.Body.Close()
	return classifyStatus("email reply", resp.StatusCode)
}

func (g *WebhookEmail) GetThread(ctx context.Context, handle ThreadHandle) ([]ThreadMessage, error) {
	payload := map[string]string{"thread_id": string(handle)}
	resp, err := postJSON(ctx, g.Client, g.URL+"/thread", payload)
	if err != nil {
		return nil, fmt.Errorf("email thread: %w", err)
	}
	defer resp.Body.Close()
	if err := classifyStatus("email thread", resp.StatusCode); err != nil {
		return nil, err
	}
	var out struct {
		Messages []struct {
			Outbound  bool      `json:"outbound"`
			Timestamp time.Time `json:"timestamp"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("email thread: decode response: %w", err)
	}
	msgs := make([]ThreadMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, ThreadMessage{IsOutbound: m.Outbound, Timestamp: m.Timestamp})
	}
	return msgs, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) (*http.Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return client.Do(req)
}

func classifyStatus(op string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &AuthError{Op: op, Err: fmt.Errorf("relay returned %d", code)}
	default:
		return fmt.Errorf("%s: relay returned %d", op, code)
	}
}
