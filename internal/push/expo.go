package push

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gymvy/internal/middleware"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// MaxBatch is the largest request the Expo API accepts.
const MaxBatch = 100

// ExpoConfig configures ExpoClient.
type ExpoConfig struct {
	URL         string
	AccessToken string
	Timeout     time.Duration

	// RequestsPerSecond throttles batch posts. Zero means unlimited.
	RequestsPerSecond float64
}

// ExpoClient posts batches to the Expo push API behind a circuit breaker.
type ExpoClient struct {
	url         string
	accessToken string
	http        *http.Client
	cb          *gobreaker.CircuitBreaker[[]Ticket]
	limiter     *rate.Limiter
}

type expoResponse struct {
	Data   []Ticket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// NewExpoClient returns a client for cfg.URL.
func NewExpoClient(cfg ExpoConfig) *ExpoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker[[]Ticket](gobreaker.Settings{
		Name:        "expo-push",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			middleware.Logger.Warn("push circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &ExpoClient{
		url:         cfg.URL,
		accessToken: cfg.AccessToken,
		http:        &http.Client{Timeout: timeout},
		cb:          cb,
		limiter:     rate.NewLimiter(limit, 1),
	}
}

// Send delivers msgs in chunks of MaxBatch. It stops at the first failed
// chunk and returns the tickets gathered so far with the error.
func (c *ExpoClient) Send(ctx context.Context, msgs []Message) ([]Ticket, error) {
	tickets := make([]Ticket, 0, len(msgs))
	for start := 0; start < len(msgs); start += MaxBatch {
		end := min(start+MaxBatch, len(msgs))
		chunk := msgs[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return tickets, err
		}
		got, err := c.cb.Execute(func() ([]Ticket, error) {
			return c.post(ctx, chunk)
		})
		if err != nil {
			return tickets, err
		}
		tickets = append(tickets, got...)
	}
	return tickets, nil
}

func (c *ExpoClient) post(ctx context.Context, chunk []Message) ([]Ticket, error) {
	body, err := json.Marshal(chunk)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("expo push: status %d", resp.StatusCode)
	}

	var parsed expoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("expo push: decode response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, errors.New("expo push: " + parsed.Errors[0].Code + ": " + parsed.Errors[0].Message)
	}
	if len(parsed.Data) != len(chunk) {
		return nil, fmt.Errorf("expo push: got %d tickets for %d messages", len(parsed.Data), len(chunk))
	}
	return parsed.Data, nil
}
