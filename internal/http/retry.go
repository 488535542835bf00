package http

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/hashicorp/go-retryablehttp"
)

// respDrainLimit caps how much of an abandoned response body is read so the
// underlying connection can still be reused.
const respDrainLimit = 4096

// newRetryClient builds the retryablehttp client enforcing the retry policy:
// at most maxAttempts total attempts, retrying only throttled and transient
// server responses.
func newRetryClient(c *Client) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: c.httpTimeout}
	rc.RetryMax = c.maxAttempts - 1
	rc.Logger = nil
	rc.CheckRetry = checkRetry
	rc.Backoff = backoff
	rc.PrepareRetry = c.prepareRetry
	rc.ErrorHandler = c.errorHandler

	return rc
}

// checkRetry classifies each attempt. Context cancellation and transport
// errors abort immediately; only throttled and transient server statuses earn
// another attempt. Non-retryable statuses surface as a clean response for the
// caller to convert.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return false, err
	}

	return retryableStatus(resp.StatusCode), nil
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// backoff computes the wait before the next attempt. Throttled responses
// honor Retry-After with no jitter. Transient server failures wait 2^n
// seconds plus up to a second of jitter, where n is the zero-indexed attempt
// that just failed.
func backoff(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
	var wait time.Duration

	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		wait = throttleWait(resp)

		retriesTotal.WithLabelValues("throttling").Inc()
	} else {
		jitter := time.Duration(rand.Intn(constants.BackoffJitterMillis)) * time.Millisecond
		wait = time.Duration(1<<attemptNum)*time.Second + jitter

		retriesTotal.WithLabelValues("transient").Inc()
	}

	retryBackoffSeconds.Observe(wait.Seconds())

	return wait
}

// throttleWait reads the Retry-After header as integer seconds, falling back
// to the default throttle wait when the header is absent or malformed.
func throttleWait(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return constants.DefaultThrottleWait
	}

	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return constants.DefaultThrottleWait
	}

	return time.Duration(seconds) * time.Second
}

// prepareRetry refreshes the Authorization header before the next attempt so
// a long backoff never replays a token that expired while waiting.
func (c *Client) prepareRetry(req *http.Request) error {
	if c.tokenManager == nil {
		return nil
	}

	token, err := c.tokenManager.GetToken(req.Context())
	if err != nil {
		return fmt.Errorf("failed to refresh token for retry: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	return nil
}

// errorHandler shapes the terminal failure once the retry budget is spent.
// Transport errors pass through unchanged; a still-retryable final response
// becomes a RetriesExhaustedError naming the request URL.
func (c *Client) errorHandler(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp == nil {
		return nil, err
	}

	drainBody(resp.Body)

	if err != nil {
		return nil, err
	}

	retriesExhaustedTotal.Inc()

	return nil, &graph.RetriesExhaustedError{
		URL:        resp.Request.URL.String(),
		Attempts:   attempts,
		LastStatus: resp.StatusCode,
	}
}

func drainBody(body io.ReadCloser) {
	defer func() {
		_ = body.Close()
	}()

	_, _ = io.Copy(io.Discard, io.LimitReader(body, respDrainLimit))
}
