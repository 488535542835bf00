// Package http provides the HTTP client for Graph API communication: URL
// construction with version resolution, per-attempt authorization, retry
// with throttling awareness, response caching, and pagination.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/hashicorp/go-retryablehttp"
)

// TokenManager supplies the bearer token attached to every attempt. The
// session layer refreshes expiring credentials behind this interface, so a
// token fetched for a retry is always current.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// Version overrides version resolution for this request.
	Version string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the HTTP client for API communication.
type Client struct {
	baseURL        string
	tokenManager   TokenManager
	retryClient    *retryablehttp.Client
	logger         graph.Logger
	debug          bool
	userAgent      string
	defaultVersion string
	maxAttempts    int
	httpTimeout    time.Duration
	tenant         func() string
	cache          *graph.CacheManager
	interceptors   *graph.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a logger for the client.
func WithLogger(logger graph.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithMaxAttempts sets the total attempt budget per request, the initial
// call included.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithHTTPTimeout sets the timeout for individual attempts.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// WithAPIVersion sets the default API version used when neither the request
// nor the beta endpoint list selects one.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.defaultVersion = version
	}
}

// WithTenantProvider wires the current-tenant lookup used to scope cache
// keys.
func WithTenantProvider(tenant func() string) Option {
	return func(c *Client) {
		c.tenant = tenant
	}
}

// WithCacheManager enables response caching through the given manager.
func WithCacheManager(cache *graph.CacheManager) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithInterceptors attaches a request/response interceptor chain.
func WithInterceptors(chain *graph.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new API client. A nil token manager sends
// unauthenticated requests, which the tests rely on.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
		maxAttempts:  constants.DefaultMaxAttempts,
		httpTimeout:  constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.retryClient = newRetryClient(client)

	return client
}

// Do executes an HTTP request with version resolution, caching, and the
// retry policy applied. Error statuses return both the response and a
// RequestError so callers can inspect either.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	version := ResolveVersion(req.Version, req.Path, c.defaultVersion)
	fullURL := c.buildURL(version, req.Path, req.Query)

	parsed, err := url.Parse(fullURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request URL: %w", err)
	}

	cacheKey, cacheable := c.cacheKey(req.Method, parsed)
	if cacheable {
		if data, cacheErr := c.cache.Get(ctx, cacheKey); cacheErr == nil {
			return &Response{StatusCode: http.StatusOK, Headers: http.Header{}, Body: data}, nil
		}
	}

	bodyBytes, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	headers, err := c.buildHeaders(ctx, req, bodyBytes)
	if err != nil {
		return nil, err
	}

	ireq := &graph.Request{
		Method:   req.Method,
		Path:     fullURL,
		Headers:  headers,
		Body:     bodyBytes,
		Metadata: map[string]interface{}{},
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, ireq)
		if err != nil {
			return nil, err
		}

		headers = ireq.Headers
		bodyBytes = ireq.Body
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	var rawBody interface{}
	if bodyBytes != nil {
		rawBody = bodyBytes
	}

	attempt, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	attempt.Header = headers

	start := time.Now()

	resp, err := c.retryClient.Do(attempt)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	duration := time.Since(start)

	requestsTotal.WithLabelValues(parsed.Path, strconv.Itoa(resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(parsed.Path).Observe(duration.Seconds())

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   resp.StatusCode,
			"duration": duration.String(),
		})
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var reqErr error

	if resp.StatusCode >= http.StatusBadRequest {
		requestError := graph.NewRequestError(resp.StatusCode, fullURL, body)
		requestError.RetryAfter = resp.Header.Get("Retry-After")
		reqErr = requestError
	}

	if c.interceptors != nil {
		iresp := &graph.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       body,
			Error:      reqErr,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, ireq, iresp)
		if err != nil {
			return nil, err
		}
	}

	if reqErr != nil {
		return response, reqErr
	}

	if cacheable && c.cache.Policy().ShouldCache(req.Method, parsed.Path, resp.StatusCode) {
		_ = c.cache.SetWithETag(ctx, cacheKey, body, resp.Header.Get("ETag"), 0)
	}

	return response, nil
}

// buildURL joins the base URL, resolved version, and request path. Absolute
// URLs pass through untouched so continuation links replay exactly as the
// server issued them. Exactly one leading slash is stripped from relative
// paths.
func (c *Client) buildURL(version, path string, query url.Values) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if len(query) == 0 {
			return path
		}

		separator := "?"
		if strings.Contains(path, "?") {
			separator = "&"
		}

		return path + separator + query.Encode()
	}

	endpoint := c.baseURL + "/" + version + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return endpoint
}

// buildHeaders assembles the headers for one logical request. Authorization
// is set last so custom headers cannot clobber it; retries rebuild it through
// prepareRetry.
func (c *Client) buildHeaders(ctx context.Context, req *Request, body []byte) (http.Header, error) {
	headers := make(http.Header)
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", c.userAgent)
	headers.Set("ConsistencyLevel", "eventual")

	if body != nil {
		headers.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get token: %w", err)
		}

		headers.Set("Authorization", "Bearer "+token)
	}

	return headers, nil
}

// cacheKey derives the tenant-scoped cache key for a request when the
// caching policy admits the method and path. The key is built from the
// parsed URL so continuation links carrying skip tokens never collide.
func (c *Client) cacheKey(method string, u *url.URL) (string, bool) {
	if c.cache == nil {
		return "", false
	}

	if !c.cache.Policy().ShouldCache(method, u.Path, http.StatusOK) {
		return "", false
	}

	var tenant string
	if c.tenant != nil {
		tenant = c.tenant()
	}

	return c.cache.GetCacheKey(tenant, method, u.Path, flattenQuery(u.Query())), true
}

func flattenQuery(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}

	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}

	return params
}

func encodeBody(body interface{}) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return value, nil
	case []byte:
		return value, nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		return data, nil
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
