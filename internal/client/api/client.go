// Package api is the outbound HTTP adapter for the platform REST API.
// It joins paths onto the configured base URL, injects the bearer token,
// and converts non-2xx responses into structured *Error values. Every
// store goes through this adapter; it performs no retries and no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenSource supplies the current access token. An empty string means the
// request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client wraps an *http.Client with the platform conventions.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// New constructs a Client for the given API base URL. tokens may be nil for
// a client that never authenticates. httpClient may be nil to use
// http.DefaultClient.
func New(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   httpClient,
		tokens: tokens,
	}
}

// Get performs a GET and decodes the response into out (skipped when out is
// nil). query may be nil. The response headers are returned so callers can
// read pagination metadata such as x-total-count.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	p := path
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, p, "", nil, out)
}

// Post performs a POST with a JSON body (nil for an empty body) and decodes
// the response into out when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, path, contentType, body, out)
	return err
}

// PostForm performs a POST with form-encoded values. The token endpoint
// requires this encoding instead of JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	_, err := c.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", body, out)
	return err
}

// Put performs a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPut, path, contentType, body, out)
	return err
}

// Delete performs a DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, "", nil, nil)
	return err
}

func jsonBody(in any) (io.Reader, string, error) {
	if in == nil {
		return nil, "application/json", nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, "", fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return resp.Header, newError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("invalid response from %s %s: %w", method, path, err)
		}
	}
	return resp.Header, nil
}
