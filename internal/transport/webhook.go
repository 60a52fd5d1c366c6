// Package transport carries messages between the bot core and the chat
// system. The chat side is reached over webhooks: outbound sends POST to a
// configured URL, inbound messages arrive on a small HTTP server.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultSendTimeout = 20 * time.Second

// outboundMessage is the webhook payload for a send.
type outboundMessage struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// WebhookClient delivers outbound messages as JSON POSTs. Sends are rate
// limited per conversation so a burst of due reminders cannot flood one
// chat.
type WebhookClient struct {
	url  string
	http *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewWebhookClient creates a client posting to url. Each conversation is
// limited to one send per second with a burst of five.
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &WebhookClient{
		url:      url,
		http:     &http.Client{Timeout: timeout},
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Second),
		burst:    5,
	}
}

// Send posts one message. Delivery is best-effort: the caller decides what
// to do with a failure, this client never retries.
func (c *WebhookClient) Send(ctx context.Context, conversationID, text string) error {
	if err := c.limiter(conversationID).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(outboundMessage{ConversationID: conversationID, Text: text})
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("send message status=%d body=%s", res.StatusCode, string(payload))
	}
	return nil
}

func (c *WebhookClient) limiter(conversationID string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, ok := c.limiters[conversationID]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(c.limit, c.burst)
	c.limiters[conversationID] = limiter
	return limiter
}
