// Package client is the transport a chat frontend uses to talk to the
// relay. Every failure path resolves to a displayable string; nothing in
// this package ever surfaces an error to the rendering layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Fallback strings shown in place of a reply. They are fixed so repeated
// failures render identically.
const (
	FallbackUnreachable     = "⚠️ Cannot reach the assistant. Check the server and try again."
	FallbackInvalidResponse = "⚠️ The assistant sent an invalid response. Try again."
)

const defaultTimeout = 35 * time.Second

// Client posts messages to a relay endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the relay at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// SendMessage relays one message and returns the reply text, or a fixed
// fallback string on any failure. Exactly one network attempt is made per
// call; resending is the user's decision.
func (c *Client) SendMessage(ctx context.Context, text string) string {
	return c.send(ctx, chatRequest{Message: text})
}

// SendMessageSession is SendMessage with a session identifier so the relay
// can associate the turn with a stored conversation.
func (c *Client) SendMessageSession(ctx context.Context, text, sessionID string) string {
	return c.send(ctx, chatRequest{Message: text, SessionID: sessionID})
}

func (c *Client) send(ctx context.Context, payload chatRequest) string {
	body, err := json.Marshal(payload)
	if err != nil {
		return FallbackInvalidResponse
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return FallbackUnreachable
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return FallbackUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FallbackUnreachable
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Reply == "" {
		return FallbackInvalidResponse
	}
	return out.Reply
}

// Health probes the relay's liveness route.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay health check returned status %d", resp.StatusCode)
	}
	return nil
}
