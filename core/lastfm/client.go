// Package lastfm is a small client for the Last.fm web service. It only
// performs the read-only, key-based lookups needed for enrichment.
package lastfm

import (
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

const (
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	DefaultTimeout = 10 * time.Second
)

// ErrNotFound is returned when Last.fm has no record for the query.
var ErrNotFound = errors.New("lastfm: not found")

// Client Last.fm API客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient 创建新的API客户端
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// SetBaseURL 设置API基础URL
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		c.baseURL = baseURL
	}
}

// SetTimeout 设置请求超时时间
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
}

// apiError is the error envelope Last.fm returns with HTTP 200 or 4xx.
type apiError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

// call performs one GET for the given method and decodes the body into
// out. The autocorrect flag asks Last.fm for fuzzy name matching.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("method", method)
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	q.Set("autocorrect", "1")

	endpoint := c.baseURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + q.Encode()
	} else {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("lastfm: %s: build request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lastfm: %s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lastfm: %s: read response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code == errCodeInvalidParams {
			return ErrNotFound
		}
		return fmt.Errorf("lastfm: %s: unexpected status %d", method, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("lastfm: %s: decode response: %w", method, err)
	}
	return nil
}

// errCodeInvalidParams is what Last.fm answers for unknown tracks/artists.
const errCodeInvalidParams = 6
