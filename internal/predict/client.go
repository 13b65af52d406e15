package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/variant"
)

// DefaultBaseURL is the production endpoint of the prediction service.
const DefaultBaseURL = "https://api.oncoreg.io"

// Client is an HTTP Predictor backed by the remote prediction service.
// Calls are rate limited and wrapped in a circuit breaker; failures are
// surfaced immediately, never retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the service endpoint (used in tests).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the request rate limit in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewClient creates a prediction service client. The API key is required;
// without one the client returns ErrNotConfigured.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "prediction-service",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return c, nil
}

// scoreRequest is the JSON body sent to the score_variant endpoint.
type scoreRequest struct {
	Chromosome     string `json:"chromosome"`
	Position       int64  `json:"position"`
	ReferenceBases string `json:"reference_bases"`
	AlternateBases string `json:"alternate_bases"`
	SequenceWindow int    `json:"sequence_window"`
}

// scoreResponse is the JSON body returned by the score_variant endpoint.
type scoreResponse struct {
	Scores []score.Row `json:"scores"`
}

// ScoreVariant requests a score table for a single variant. The returned
// table covers the service's recommended output types across all tissues.
func (c *Client) ScoreVariant(ctx context.Context, v variant.Variant) (*score.Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.scoreVariant(ctx, v)
	})
	if err != nil {
		return nil, fmt.Errorf("score variant %s: %w", v, err)
	}
	return result.(*score.Table), nil
}

func (c *Client) scoreVariant(ctx context.Context, v variant.Variant) (*score.Table, error) {
	body, err := json.Marshal(scoreRequest{
		Chromosome:     v.Chrom,
		Position:       v.Pos,
		ReferenceBases: v.Ref,
		AlternateBases: v.Alt,
		SequenceWindow: SequenceWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/score_variant", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("prediction service error %d: %s", resp.StatusCode, string(msg))
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode prediction response: %w", err)
	}

	return &score.Table{Variant: v, Rows: sr.Scores}, nil
}
