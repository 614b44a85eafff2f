// Package syncclient talks to the mango-lens API on behalf of the agent.
package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/almonsour13/mango-lens/internal/model"
)

var (
	ErrUnauthorized = errors.New("syncclient: unauthorized")
	ErrNotFound     = errors.New("syncclient: not found")
)

// RemoteError carries the server's own error message so the CLI can show
// it verbatim.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates and returns the cached-credential row for the
// account, token included. The client keeps the access token for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email string, password string) (model.UserCredentials, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(model.LoginRequest{Email: email, Password: password}).
		Post("/api/v1/auth/login")
	if err != nil {
		return model.UserCredentials{}, fmt.Errorf("login request: %w", err)
	}

	var tokens model.TokenPair
	if err := decodeEnvelope(resp, &tokens); err != nil {
		return model.UserCredentials{}, err
	}
	c.SetToken(tokens.AccessToken)

	me, err := c.Me(ctx)
	if err != nil {
		return model.UserCredentials{}, err
	}

	return model.UserCredentials{
		UserID: me.ID,
		FName:  me.FName,
		LName:  me.LName,
		Email:  me.Email,
		Role:   me.Role,
		Token:  tokens.AccessToken,
	}, nil
}

func (c *Client) Me(ctx context.Context) (model.AuthUser, error) {
	resp, err := c.authed(ctx).Get("/api/v1/auth/me")
	if err != nil {
		return model.AuthUser{}, fmt.Errorf("me request: %w", err)
	}

	var user model.AuthUser
	if err := decodeEnvelope(resp, &user); err != nil {
		return model.AuthUser{}, err
	}
	return user, nil
}

// SubmitScan uploads one queued scan. The pendingID travels with the
// payload so a retried upload after a lost response is acknowledged
// instead of stored twice.
func (c *Client) SubmitScan(ctx context.Context, req model.SaveScanRequest) (model.SaveScanResponse, error) {
	resp, err := c.authed(ctx).
		SetBody(req).
		Post("/api/v1/scans")
	if err != nil {
		return model.SaveScanResponse{}, fmt.Errorf("submit scan request: %w", err)
	}

	var result model.SaveScanResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return model.SaveScanResponse{}, err
	}
	return result, nil
}

func (c *Client) MoveToTrash(ctx context.Context, req model.MoveToTrashRequest) (model.TrashEntry, error) {
	resp, err := c.authed(ctx).
		SetBody(req).
		Post("/api/v1/trash")
	if err != nil {
		return model.TrashEntry{}, fmt.Errorf("move to trash request: %w", err)
	}

	var entry model.TrashEntry
	if err := decodeEnvelope(resp, &entry); err != nil {
		return model.TrashEntry{}, err
	}
	return entry, nil
}

func (c *Client) ListTrash(ctx context.Context) ([]model.TrashEntry, error) {
	resp, err := c.authed(ctx).Get("/api/v1/trash")
	if err != nil {
		return nil, fmt.Errorf("list trash request: %w", err)
	}

	var entries []model.TrashEntry
	if err := decodeEnvelope(resp, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) TrashAction(ctx context.Context, action int, trashIDs []string) ([]model.TrashActionResult, error) {
	resp, err := c.authed(ctx).
		SetBody(model.TrashActionRequest{Action: action, TrashIDs: trashIDs}).
		Post("/api/v1/trash/actions")
	if err != nil {
		return nil, fmt.Errorf("trash action request: %w", err)
	}

	var result model.TrashActionResponse
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) authed(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// decodeEnvelope unwraps the API's {success, data, error} envelope into
// target, mapping error responses to client errors.
func decodeEnvelope(resp *resty.Response, target any) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *model.APIError `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode(), err)
	}

	if !envelope.Success || resp.StatusCode() >= http.StatusBadRequest {
		remote := &RemoteError{StatusCode: resp.StatusCode()}
		if envelope.Error != nil {
			remote.Code = envelope.Error.Code
			remote.Message = envelope.Error.Message
		}
		if resp.StatusCode() == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, remote.Message)
		}
		return remote
	}

	if target == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
