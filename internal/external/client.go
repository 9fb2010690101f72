// Package external provides the anti-corruption layer between the dispatch
// domain logic and the mail-transfer provider's API. All outbound HTTP calls
// are routed through the BaseClient, which enforces consistent resilience
// patterns: circuit breaking, trace propagation, and error mapping.
//
// There is deliberately no retry machinery here. The dispatch contract is one
// provider attempt per invocation; re-sending after a failure is the caller's
// decision, not the service's.
package external

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"aquareport/internal/types"
)

// errUpstreamStatus marks 5xx responses as failures for the circuit breaker
// without discarding the response itself.
var errUpstreamStatus = errors.New("upstream returned server error")

// msgRelaySuspended is the localized client-facing message used when the
// circuit breaker is refusing outbound sends.
const msgRelaySuspended = "送信機能が一時的に利用できません。しばらく時間をおいてから再試行してください。"

// BaseClient wraps an *http.Client and a circuit breaker to enforce consistent
// behavior on all outbound provider calls. Provider clients embed BaseClient to
// inherit it. The client itself is process-wide and read-only after creation;
// per-call credentials are attached to individual requests, never stored here.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewBaseClient creates a BaseClient with the given http client, circuit
// breaker settings name, and user agent string.
func NewBaseClient(httpClient *http.Client, breakerName string, userAgent string) *BaseClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &BaseClient{
		client:    httpClient,
		breaker:   cb,
		userAgent: userAgent,
	}
}

// NewBaseClientWithBreaker creates a BaseClient with a caller-provided circuit
// breaker. This is useful for testing or when sharing a breaker across clients.
func NewBaseClientWithBreaker(httpClient *http.Client, breaker *gobreaker.CircuitBreaker[*http.Response], userAgent string) *BaseClient {
	return &BaseClient{
		client:    httpClient,
		breaker:   breaker,
		userAgent: userAgent,
	}
}

// Do executes the HTTP request exactly once with:
//  1. Trace ID injection (X-B3-TraceId from context)
//  2. User-Agent header injection
//  3. Circuit breaker wrapping (5xx responses count as breaker failures)
//
// Any response the provider produced, including 4xx and 5xx, is returned
// as-is for the caller to interpret; the caller is responsible for closing
// the response body.
//
// When no response exists, Do returns a *types.RelayError for network-level
// failures, or a *types.AppError (resource_exhausted) when the breaker is
// open and refusing calls.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if traceID := types.GetRequestID(req.Context()); traceID != "" {
		req.Header.Set("X-B3-TraceId", traceID)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx trips the breaker; the response still goes back to the caller.
		if r.StatusCode >= 500 {
			return r, fmt.Errorf("%w: %d", errUpstreamStatus, r.StatusCode)
		}
		return r, nil
	})

	if err == nil {
		return resp, nil
	}

	// Server-error responses were recorded as breaker failures but the
	// caller still gets to read the provider's body.
	if resp != nil {
		return resp, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, types.NewAppError(types.ErrCodeResourceExhausted, msgRelaySuspended, err)
	}

	// Network-level failure (DNS, connect, TLS, timeout). No status code to
	// classify on; the classifier maps this to internal.
	return nil, &types.RelayError{Message: err.Error(), Err: err}
}
