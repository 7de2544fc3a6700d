package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"internportal-backend/internal/models"
)

// Client wraps the remote status service. Every failure mode (dial
// error, non-2xx, malformed body, unsuccessful envelope) is normalized
// into an error value here; nothing else escapes this boundary.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the remote wire format: {success, data?, message?, error?}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", msg)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "remote call unsuccessful"
		}
		return nil, fmt.Errorf("%s", msg)
	}

	return &env, nil
}

func (c *Client) GetUserStatus(ctx context.Context, userID string) (*models.UserStatus, error) {
	env, err := c.do(ctx, http.MethodGet, "/user-status/"+userID, nil)
	if err != nil {
		return nil, err
	}

	var status models.UserStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode user status: %w", err)
	}
	return &status, nil
}

func (c *Client) StartAssignment(ctx context.Context, userID, assignmentID string) error {
	_, err := c.do(ctx, http.MethodPost, "/user-status/"+userID+"/start-assignment",
		map[string]string{"assignmentId": assignmentID})
	return err
}

func (c *Client) SubmitAssignment(ctx context.Context, userID, assignmentID string, sub models.SubmitRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/user-status/"+userID+"/submit-assignment",
		map[string]interface{}{"assignmentId": assignmentID, "submission": sub})
	return err
}

func (c *Client) UpdateAssignmentStatus(ctx context.Context, userID, assignmentID string, upd models.AssignmentUpdate) error {
	_, err := c.do(ctx, http.MethodPut, "/user-status/"+userID+"/assignment/"+assignmentID, upd)
	return err
}

func (c *Client) GetUserStats(ctx context.Context, userID string) (*models.Stats, error) {
	env, err := c.do(ctx, http.MethodGet, "/user-status/"+userID+"/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats models.Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return &stats, nil
}

// Health probes the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}
