/*
Package edinet provides the EDINET v2 filing registry client and the
backward day-by-day document discovery engine built on top of it.
*/
package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/shanehull/edinetai/internal/common"
	"github.com/shanehull/edinetai/internal/types"
)

const (
	DefaultBaseURL      = "https://api.edinet-fsa.go.jp/api/v2"
	DefaultListTimeout  = 10 * time.Second
	DefaultFetchTimeout = 60 * time.Second // document payloads are larger than listings
	DefaultRateLimit    = 2                // requests per second
)

const userAgent = "edinetai/1.0"

// Client performs the two registry calls: daily document listings and
// per-document content fetches. It holds no state beyond configuration and
// never retries internally; the scan loop owns backoff policy.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	listTimeout  time.Duration
	fetchTimeout time.Duration
	limiter      *rate.Limiter
	logger       *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the request rate limit. Non-positive values keep the
// default; a zero-burst limiter would reject every request.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithListTimeout sets the timeout for listing calls
func WithListTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.listTimeout = timeout
	}
}

// WithFetchTimeout sets the timeout for document content calls
func WithFetchTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.fetchTimeout = timeout
	}
}

// NewClient creates a registry client authenticated with the given
// Subscription-Key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{},
		listTimeout:  DefaultListTimeout,
		fetchTimeout: DefaultFetchTimeout,
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:       common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-2xx response from the registry.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EDINET API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ListResult is the outcome of one listing call. HTTPStatus is
// types.StatusTransportFailure when the request never produced a status.
type ListResult struct {
	HTTPStatus     int
	MetadataStatus string
	Results        []types.FilingDescriptor
}

// listResponse mirrors the registry's documents.json envelope.
type listResponse struct {
	Metadata struct {
		Status string `json:"status"`
	} `json:"metadata"`
	Results []types.FilingDescriptor `json:"results"`
}

// ListDocuments fetches all filings submitted on the given date. It issues
// exactly one request. A non-nil error means the day produced no usable
// data (transport failure or undecodable body); the HTTP classification in
// ListResult is still meaningful to the caller. On HTTP 200 with a
// non-success embedded metadata status, Results is empty and
// MetadataStatus carries the registry's own status so the caller can tell
// "no documents" apart from "registry reported an internal error".
func (c *Client) ListDocuments(ctx context.Context, date time.Time) (ListResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return ListResult{HTTPStatus: types.StatusTransportFailure}, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))
	params.Set("type", "2")
	params.Set("Subscription-Key", c.apiKey)

	reqURL := fmt.Sprintf("%s/documents.json?%s", c.baseURL, params.Encode())

	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return ListResult{HTTPStatus: types.StatusTransportFailure}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("date", date.Format("2006-01-02")).Msg("EDINET listing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ListResult{HTTPStatus: types.StatusTransportFailure}, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Classification (404 vs transient) belongs to the scan loop.
		io.Copy(io.Discard, resp.Body)
		return ListResult{HTTPStatus: resp.StatusCode}, nil
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ListResult{HTTPStatus: resp.StatusCode}, fmt.Errorf("failed to decode listing response: %w", err)
	}

	result := ListResult{
		HTTPStatus:     resp.StatusCode,
		MetadataStatus: body.Metadata.Status,
	}

	if body.Metadata.Status != "" && body.Metadata.Status != "200" {
		// Valid JSON but the registry reported an internal failure; no
		// partial results are surfaced.
		return result, nil
	}

	result.Results = body.Results
	return result, nil
}

// FetchDocument downloads the raw payload for a document ID and returns the
// bytes together with the declared Content-Type, unchanged, for the
// extraction stage to interpret. The body is read fully into memory;
// regulatory filings are bounded in size. Any non-2xx status is a hard
// *APIError.
func (c *Client) FetchDocument(ctx context.Context, docID string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("type", "2")
	params.Set("Subscription-Key", c.apiKey)

	endpoint := fmt.Sprintf("/documents/%s", docID)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("docID", docID).Msg("EDINET document fetch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("document fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
			Endpoint:   endpoint,
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")

	c.logger.Debug().
		Str("docID", docID).
		Str("contentType", contentType).
		Int("bytes", len(payload)).
		Msg("Document downloaded")

	return payload, contentType, nil
}
