// Package metadata is the client for the third-party film/person metadata
// API used to enrich catalog rows.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// Kind selects the remote collection.
type Kind string

const (
	Movie  Kind = "movie"
	Person Kind = "person"
)

// ErrUpstream is returned for any non-2xx answer.
var ErrUpstream = errors.New("metadata api error")

// Config holds the client settings.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout is the transport ceiling; callers usually set a tighter
	// deadline on the context.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the
	// circuit.
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open.
	BreakerCooldown time.Duration
}

// Client performs GET /{kind}/{id} lookups.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient builds a Client. An open circuit fails lookups immediately so a
// struggling upstream does not eat the per-row timeout of every row.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		rc.SetAuthToken(cfg.APIKey)
	}

	failures := cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "metadata-api",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		// a cancelled caller says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{http: rc, breaker: cb}
}

// Get fetches the raw JSON document for id.
func (c *Client) Get(ctx context.Context, kind Kind, id int64) (json.RawMessage, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParams(map[string]string{
				"kind": string(kind),
				"id":   strconv.FormatInt(id, 10),
			}).
			Get("/{kind}/{id}")
		if err != nil {
			return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
		}
		if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
			return nil, fmt.Errorf("%w: get %s %d: status %d", ErrUpstream, kind, id, resp.StatusCode())
		}
		body := resp.Body()
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: get %s %d: invalid json", ErrUpstream, kind, id)
		}
		return json.RawMessage(body), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(json.RawMessage), nil
}

// Fetcher binds kind so the result can be handed to enrich.Enrich.
func (c *Client) Fetcher(kind Kind) func(ctx context.Context, id int64) (json.RawMessage, error) {
	return func(ctx context.Context, id int64) (json.RawMessage, error) {
		return c.Get(ctx, kind, id)
	}
}
