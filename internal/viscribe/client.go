// Package viscribe is a minimal HTTP client for the Viscribe image
// analysis API. It performs exactly one request per call: no retries,
// no caching.
package viscribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://api.viscribe.ai/v1"
	// APIKeyEnv is the environment variable the API key is read from when
	// none is configured explicitly.
	APIKeyEnv = "VISCRIBE_API_KEY"

	defaultTimeout = 60 * time.Second
	maxErrorBody   = 8 * 1024
	userAgent      = "viscribe-go/0.1"
)

// ErrMissingAPIKey is returned by every call on a client built without a key.
var ErrMissingAPIKey = errors.New("viscribe: API key is not set (configure viscribe.api_key or " + APIKeyEnv + ")")

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the base URL for the Viscribe API.
// Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient replaces the underlying http.Client. A nil client keeps
// the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout. The http.Client given to
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client talks to the Viscribe REST API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewClient creates a Client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.client.Timeout != c.timeout {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

func (c *Client) DescribeImage(ctx context.Context, req *DescribeImageRequest) (*DescribeImageResponse, error) {
	var out DescribeImageResponse
	if err := c.do(ctx, http.MethodPost, "/images/describe", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AskImage(ctx context.Context, req *AskImageRequest) (*AskImageResponse, error) {
	var out AskImageResponse
	if err := c.do(ctx, http.MethodPost, "/images/ask", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClassifyImage(ctx context.Context, req *ClassifyImageRequest) (*ClassifyImageResponse, error) {
	var out ClassifyImageResponse
	if err := c.do(ctx, http.MethodPost, "/images/classify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExtractImage(ctx context.Context, req *ExtractImageRequest) (*ExtractImageResponse, error) {
	var out ExtractImageResponse
	if err := c.do(ctx, http.MethodPost, "/images/extract", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompareImages(ctx context.Context, req *CompareImagesRequest) (*CompareImagesResponse, error) {
	var out CompareImagesResponse
	if err := c.do(ctx, http.MethodPost, "/images/compare", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCredits(ctx context.Context) (*CreditsResponse, error) {
	var out CreditsResponse
	if err := c.do(ctx, http.MethodGet, "/credits", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, req *FeedbackRequest) (*FeedbackResponse, error) {
	var out FeedbackResponse
	if err := c.do(ctx, http.MethodPost, "/feedback", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one JSON request and decodes a 2xx JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("viscribe: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("viscribe: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("viscribe: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("viscribe: decode %s response: %w", path, err)
	}
	return nil
}
