package companionsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the HTTP client the desktop companion app uses to talk to the
// dashboard backend. Device metadata set on the client rides along with every
// authenticated request as X-Companion-* headers, which doubles as the
// implicit session heartbeat.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Device metadata attached to authenticated requests.
	Device HeartbeatRequest

	accessToken  string
	refreshToken string
}

// NewClient creates a companion client for the given dashboard base URL.
func NewClient(baseURL string, device HeartbeatRequest) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Device: device,
	}
}

// ExchangeCode redeems a one-time code (received via the phishguard:// URI
// scheme) for a token pair and stores the tokens on the client.
//
// A transport failure mid-exchange is safe to retry: if the earlier attempt
// already consumed the code server-side, the retry surfaces code_consumed and
// the user re-runs the browser handshake.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.postJSON(ctx, "/v1/auth/token", TokenRequest{Code: code}, &out, ""); err != nil {
		return nil, err
	}

	c.accessToken = out.AccessToken
	c.refreshToken = out.RefreshToken
	return &out, nil
}

// Refresh trades the stored refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context) (*TokenResponse, error) {
	if c.refreshToken == "" {
		return nil, ErrUnauthorized
	}

	var out TokenResponse
	if err := c.postJSON(ctx, "/v1/auth/token", TokenRequest{}, &out, c.refreshToken); err != nil {
		return nil, err
	}

	c.accessToken = out.AccessToken
	c.refreshToken = out.RefreshToken
	return &out, nil
}

// Heartbeat explicitly registers liveness for this device.
func (c *Client) Heartbeat(ctx context.Context) (*HeartbeatResponse, error) {
	var out HeartbeatResponse
	if err := c.postJSON(ctx, "/v1/sessions/heartbeat", c.Device, &out, c.accessToken); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions returns the operator session view. Requires an admin token.
func (c *Client) ListSessions(ctx context.Context, activeOnly bool) (*SessionListResponse, error) {
	path := "/v1/sessions"
	if activeOnly {
		path += "?activeOnly=true"
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil, c.accessToken)
	if err != nil {
		return nil, err
	}

	var out SessionListResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Disconnect deactivates a desktop session by ID. Requires an admin token.
func (c *Client) Disconnect(ctx context.Context, sessionID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/sessions/"+sessionID, nil, c.accessToken)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Ready checks the backend readiness probe.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/readyz", nil, "")
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any, bearer string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload), bearer)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, bearer string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)

		// Device metadata doubles as the implicit heartbeat.
		if c.Device.Platform != "" {
			req.Header.Set("X-Companion-Platform", c.Device.Platform)
			req.Header.Set("X-Companion-App-Version", c.Device.AppVersion)
			req.Header.Set("X-Companion-OS-Version", c.Device.OSVersion)
			req.Header.Set("X-Companion-Hostname", c.Device.Hostname)
		}
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ParseAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
