package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"proctorlink/internal/core/domain"
)

// Client talks to the account/room persistence API. The coordinator never
// uses it; only the worker does, replaying the submitter's credential so
// the API applies its own authorization.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type appendLogRequest struct {
	RoomSlug  string  `json:"roomSlug"`
	EventType string  `json:"eventType"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// AppendLog writes one log event under the given bearer credential.
func (c *Client) AppendLog(ctx context.Context, credential string, event domain.LogEvent) error {
	body, err := json.Marshal(appendLogRequest{
		RoomSlug:  event.RoomSlug,
		EventType: event.EventType,
		Message:   event.Message,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to encode log event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/room/add-log", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("append-log request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// keep a little of the body for the error log
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("append-log returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
