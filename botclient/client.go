// Package botclient is the bot-side reference client for the operations
// backend: register, report status, poll for commands, acknowledge them,
// push logs and messages.
package botclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"botops-svc/app/domains"
)

// Client talks to the backend API on behalf of one bot.
type Client struct {
	baseURL    string
	botID      string
	token      string
	httpClient *http.Client
}

// NewClient creates an unauthenticated client; Register fills in the token.
func NewClient(baseURL, botID string) *Client {
	return &Client{
		baseURL: baseURL,
		botID:   botID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Register registers the bot and stores the issued token on the client.
func (c *Client) Register(ctx context.Context, name string, metadata map[string]interface{}) error {
	var result struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, "POST", "/api/bots/register", map[string]interface{}{
		"bot_id":   c.botID,
		"name":     name,
		"status":   domains.BotStatusOnline,
		"metadata": metadata,
	}, &result)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	c.token = result.Token
	return nil
}

// ReportStatus posts a status report with an optional metadata patch.
func (c *Client) ReportStatus(ctx context.Context, status string, data map[string]interface{}) error {
	return c.do(ctx, "POST", "/api/bot/"+c.botID+"/status", map[string]interface{}{
		"status": status,
		"data":   data,
	}, nil)
}

// PollCommands fetches up to limit pending commands; the server marks them
// dispatched on hand-off, so everything returned is this caller's to run.
func (c *Client) PollCommands(ctx context.Context, limit int) ([]domains.Command, error) {
	var result struct {
		Commands []domains.Command `json:"commands"`
	}
	path := fmt.Sprintf("/api/bot/%s/commands?limit=%d", c.botID, limit)
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return result.Commands, nil
}

// Acknowledge reports a terminal status and result for a command.
func (c *Client) Acknowledge(ctx context.Context, commandID string, status domains.CommandState, result map[string]interface{}) error {
	return c.do(ctx, "POST", "/api/commands/"+commandID+"/ack", map[string]interface{}{
		"status": string(status),
		"result": result,
	}, nil)
}

// PushLog sends one log entry.
func (c *Client) PushLog(ctx context.Context, logType, message string, metadata map[string]interface{}) error {
	return c.do(ctx, "POST", "/api/bot/"+c.botID+"/logs", map[string]interface{}{
		"type":     logType,
		"message":  message,
		"metadata": metadata,
	}, nil)
}

// PushMessage relays a chat message the bot observed.
func (c *Client) PushMessage(ctx context.Context, msg domains.Message) error {
	return c.do(ctx, "POST", "/api/bot/"+c.botID+"/messages", msg, nil)
}

// SyncData uploads the bot's data blob.
func (c *Client) SyncData(ctx context.Context, data map[string]interface{}) error {
	return c.do(ctx, "POST", "/api/bot/"+c.botID+"/sync", map[string]interface{}{
		"data": data,
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
