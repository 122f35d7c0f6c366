// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jaeger implements a minimal client for the Jaeger Query
// HTTP API. It is only used to verify the trace export path end to
// end, the span transport itself is wholly the OTel SDK's.
package jaeger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client calls the Jaeger Query HTTP API, e.g. http://localhost:16686.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a fully initialized Client. The given http.Client
// is expected to be constructed via the httpclient package so requests
// are retried and circuit broken.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// StatusCodeError occurs when the query API responds with a non-200
// status code.
type StatusCodeError struct {
	StatusCode int
}

// Error implements the [builtin.error] interface.
func (e StatusCodeError) Error() string {
	return fmt.Sprintf("jaeger query api responded with unexpected status code: %d", e.StatusCode)
}

// Services returns the names of all services Jaeger has received
// spans for.
func (c *Client) Services(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/services", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, StatusCodeError{StatusCode: resp.StatusCode}
	}

	var body struct {
		Data []string `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, err
	}
	return body.Data, nil
}
