// Package httpclient provides the outbound HTTP collaborator used by
// http steps.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyChars   = 5000
)

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Do performs one HTTP request and returns the status code and the response
// body truncated to 5000 characters. A non-nil body is sent as JSON.
func (c *Client) Do(ctx context.Context, method, url string, body any) (int, string, error) {
	var payload io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, "", fmt.Errorf("encode request body: %w", err)
		}

		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return 0, "", fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	// Read one byte past the cap so truncation is detectable without
	// draining an arbitrarily large body.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyChars+1))
	if err != nil {
		return 0, "", fmt.Errorf("read response body: %w", err)
	}

	text := string(raw)
	if len(text) > maxBodyChars {
		text = text[:maxBodyChars]
	}

	return resp.StatusCode, text, nil
}
