// Package api is a thin authenticated executor for the shop backend's JSON
// API. Every outcome is normalized: a successful call decodes into the
// caller's output value, a failed call returns an *Error from the fixed
// taxonomy. Transport errors, timeouts and non-2xx statuses never escape in
// raw form.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway for the given API base URL,
// e.g. "http://localhost:8000/api/v1".
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Get performs an authenticated GET. token may be empty for public routes.
// out may be nil when the response body is irrelevant.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			// Marshal failure of a caller-supplied struct is programmer error
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return newError(ErrCancelled, 0)
		}
		// Timeouts and unreachable hosts both read as network failures
		return newError(ErrNetwork, 0)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return newError(ErrCancelled, 0)
		}
		return newError(ErrNetwork, 0)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(kindForStatus(resp.StatusCode), resp.StatusCode)
		if detail := errorDetail(data); detail != "" {
			apiErr.Message = detail
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return newError(ErrUnknown, resp.StatusCode)
		}
	}

	return nil
}

// errorDetail extracts the server's own error message from a failure body.
// The backend reports either {"detail": "..."} or {"message": "..."}.
func errorDetail(data []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}
