package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotAuthenticated means no credentials are stored at all.
	ErrNotAuthenticated = errors.New("apiclient: not authenticated")

	// ErrSessionExpired means a token refresh failed terminally. The
	// stored credentials have been cleared by the time a caller sees it.
	ErrSessionExpired = errors.New("apiclient: session expired")
)

// APIError is a non-2xx server response decoded from the error envelope.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Config configures a Client.
type Config struct {
	BaseURL string

	// HTTPClient is optional; the default carries a 30s timeout.
	HTTPClient *http.Client

	// Credentials is optional; the default is an in-memory store.
	Credentials CredentialStore

	// OnSessionExpired runs exactly once per terminal refresh failure,
	// after stored credentials are cleared. UI layers hook their
	// redirect-to-login here.
	OnSessionExpired func()
}

// Client talks to the API and transparently refreshes an expired
// access token: one refresh at a time, one retry per call.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore

	onSessionExpired func()

	refresh refreshCoordinator
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	c := &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		http:             cfg.HTTPClient,
		creds:            cfg.Credentials,
		onSessionExpired: cfg.OnSessionExpired,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.creds == nil {
		c.creds = NewMemoryCredentials()
	}
	return c, nil
}

// do performs one API call. For authenticated calls a 401 triggers a
// single-flight token refresh followed by exactly one retry; a 401 on
// the retried call surfaces directly.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	token := ""
	if authed {
		creds, err := c.creds.Load()
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		if creds.AccessToken == "" && creds.RefreshToken == "" {
			return ErrNotAuthenticated
		}
		token = creds.AccessToken
	}

	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authed {
		drain(resp)

		refreshed, err := c.refresh.do(c.refreshAccessToken)
		if err != nil {
			return err
		}

		// The retried call carries the refreshed token explicitly so
		// every waiter of one flight retries with the same token.
		resp, err = c.send(ctx, method, path, payload, refreshed)
		if err != nil {
			return err
		}
	}

	return decode(resp, out)
}

// send issues a single HTTP request attempt.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// refreshAccessToken trades the stored refresh token for a new access
// token. It runs inside the single-flight coordinator, detached from
// any caller's context: an in-flight refresh always runs to completion.
// Terminal failure clears all credentials and fires OnSessionExpired.
func (c *Client) refreshAccessToken() (string, error) {
	creds, err := c.creds.Load()
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if creds.RefreshToken == "" {
		return "", c.expireSession(errors.New("no refresh token stored"))
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": creds.RefreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}
	resp, err := c.send(context.Background(), http.MethodPost, "/auth/refresh", payload, "")
	if err != nil {
		return "", c.expireSession(err)
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := decode(resp, &out); err != nil {
		return "", c.expireSession(err)
	}
	if out.AccessToken == "" {
		return "", c.expireSession(errors.New("refresh response carried no access token"))
	}

	creds.AccessToken = out.AccessToken
	if err := c.creds.Save(creds); err != nil {
		return "", fmt.Errorf("persist refreshed credentials: %w", err)
	}
	return out.AccessToken, nil
}

// expireSession is the terminal path: wipe credentials, notify once,
// report ErrSessionExpired with the cause attached.
func (c *Client) expireSession(cause error) error {
	_ = c.creds.Clear()
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}

// decode consumes the response. 2xx unmarshals into out; anything else
// becomes an *APIError built from the {errorCode, message} envelope.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var envelope struct {
			ErrorCode string `json:"errorCode"`
			Message   string `json:"message"`
		}
		if jsonErr := json.Unmarshal(raw, &envelope); jsonErr == nil && envelope.ErrorCode != "" {
			apiErr.ErrorCode = envelope.ErrorCode
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
