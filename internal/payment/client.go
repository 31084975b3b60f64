// Package payment talks to the card payment provider that bills
// subscriptions.
package payment

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Provider cancels recurring payments.
type Provider interface {
	Cancel(ctx context.Context, externalID string) error
}

// Config holds provider credentials and the client's rate and retry limits.
type Config struct {
	BaseURL           string
	PublicID          string
	Secret            string
	RequestsPerSecond float64
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration
}

// DefaultConfig returns conservative limits for the production provider.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.cloudpayments.ru",
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           30 * time.Second,
	}
}

// ErrRejected is wrapped when the provider answers but refuses the call.
var ErrRejected = errors.New("payment provider rejected the request")

// Client is a rate-limited, retrying Provider.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config
	logger     zerolog.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a provider client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	burst := max(1, int(cfg.RequestsPerSecond))
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		cfg:        cfg,
		logger:     logger.With().Str("component", "payment").Logger(),
	}
}

type cancelRequest struct {
	ID string `json:"Id"`
}

type providerResponse struct {
	Success bool   `json:"Success"`
	Message string `json:"Message"`
}

// Cancel stops the recurring payment with the provider's subscription id.
func (c *Client) Cancel(ctx context.Context, externalID string) error {
	body, err := json.Marshal(cancelRequest{ID: externalID})
	if err != nil {
		return fmt.Errorf("encode cancel request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/subscriptions/cancel", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode cancel response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: cancel %s: %s", ErrRejected, externalID, out.Message)
	}
	c.logger.Info().Str("subscription", externalID).Msg("subscription cancelled with provider")
	return nil
}

// do sends a request, retrying transport errors, 429 and 5xx responses with
// backoff. Every attempt carries the same idempotency key.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	requestID := uuid.NewString()
	fail := func(attempt, status int, err error) error {
		return &RetryError{URL: url, Attempts: attempt + 1, LastStatus: status, LastError: err}
	}

	var lastStatus int
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fail(attempt, lastStatus, err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fail(attempt, lastStatus, err)
		}
		req.SetBasicAuth(c.cfg.PublicID, c.cfg.Secret)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.httpClient.Do(req)
		var delay time.Duration
		switch {
		case err != nil:
			if attempt >= c.cfg.MaxRetries || ctx.Err() != nil {
				return nil, fail(attempt, lastStatus, err)
			}
			delay = Backoff(attempt, c.cfg)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		default:
			lastStatus = resp.StatusCode
			drain(resp)
			if !IsRetryableStatus(resp.StatusCode) || attempt >= c.cfg.MaxRetries {
				return nil, fail(attempt, lastStatus, nil)
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				delay = RateLimitBackoff(attempt, c.cfg, resp.Header.Get("Retry-After"))
			} else {
				delay = Backoff(attempt, c.cfg)
			}
		}

		c.logger.Warn().
			Err(err).
			Int("status", lastStatus).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("payment request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, fail(attempt, lastStatus, ctx.Err())
		case <-time.After(delay):
		}
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
