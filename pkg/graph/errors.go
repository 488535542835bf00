package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ODataError is the error object carried inside a Graph error envelope.
type ODataError struct {
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *ODataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// errorEnvelope is the wire shape of a Graph error response.
type errorEnvelope struct {
	Error *ODataError `json:"error"`
}

// ErrorKind classifies a failed request for retry and reporting decisions.
type ErrorKind string

const (
	// KindThrottling marks a 429 response; transient, retried honoring
	// Retry-After.
	KindThrottling ErrorKind = "throttling"

	// KindTransientServer marks a 500/502/503/504 response; transient,
	// retried with exponential backoff and jitter.
	KindTransientServer ErrorKind = "transient_server"

	// KindPermanent marks every other failure status; never retried.
	KindPermanent ErrorKind = "permanent"
)

// KindForStatus maps an HTTP status to its retry classification. The set of
// transient statuses is fixed: 429 plus {500, 502, 503, 504}. Every other
// non-2xx status is permanent.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindThrottling
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return KindTransientServer
	default:
		return KindPermanent
	}
}

// RequestError represents a non-2xx response from the API. Endpoint and
// kind are always populated so unattended callers can report what failed
// and why without re-parsing response bodies.
type RequestError struct {
	StatusCode int         `json:"status_code" yaml:"status_code"`
	Endpoint   string      `json:"endpoint"    yaml:"endpoint"`
	Kind       ErrorKind   `json:"kind"        yaml:"kind"`
	OData      *ODataError `json:"odata"       yaml:"odata"`
	RetryAfter string      `json:"retry_after" yaml:"retry_after"`
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.OData != nil {
		return fmt.Sprintf("request to %s failed: status %d (%s): %s", e.Endpoint, e.StatusCode, e.Kind, e.OData.Error())
	}

	return fmt.Sprintf("request to %s failed: status %d (%s)", e.Endpoint, e.StatusCode, e.Kind)
}

// NewRequestError builds a RequestError from a response status and body,
// parsing the Graph error envelope when one is present.
func NewRequestError(status int, endpoint string, body []byte) *RequestError {
	reqErr := &RequestError{
		StatusCode: status,
		Endpoint:   endpoint,
		Kind:       KindForStatus(status),
	}

	if len(body) > 0 {
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
			reqErr.OData = envelope.Error
		}
	}

	return reqErr
}

// AuthenticationError reports a failed credential flow. Fatal to the call;
// never retried.
type AuthenticationError struct {
	TenantID string
	Flow     string
	Err      error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed for tenant %s (%s flow): %v", e.TenantID, e.Flow, e.Err)
	}

	return fmt.Sprintf("authentication failed for tenant %s (%s flow)", e.TenantID, e.Flow)
}

// Unwrap exposes the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is raised when a request stays throttled or keeps
// failing transiently through the whole retry budget. It names the URL and
// the number of attempts performed.
type RetriesExhaustedError struct {
	URL        string
	Attempts   int
	LastStatus int
}

// Error implements the error interface.
func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts (last status %d)", e.URL, e.Attempts, e.LastStatus)
}

// Common static errors that can be wrapped with context.
var (
	ErrNotConnected           = errors.New("not connected: no active tenant session")
	ErrTenantIDRequired       = errors.New("tenant id is required")
	ErrClientIDRequired       = errors.New("client id is required")
	ErrConfigRequired         = errors.New("config is required")
	ErrUnknownDisconnectScope = errors.New("unknown disconnect scope")
	ErrBatchIDCollision       = errors.New("duplicate batch item id")
	ErrBatchUnmatchedID       = errors.New("batch response id does not match any submitted item")
	ErrBatchMissingResult     = errors.New("batch response missing result for submitted item")
	ErrBatchEmpty             = errors.New("batch contains no items")
	ErrStaticTokenNoRefresh   = errors.New("static token cannot be refreshed")
	ErrUnsupportedFlow        = errors.New("unsupported credential flow")
	ErrInteractiveUnavailable = errors.New("interactive flow unavailable in a non-interactive session")
	ErrCertificateUnreadable  = errors.New("certificate material could not be read")
	ErrDeviceFlowDeclined     = errors.New("device code authorization was declined")
	ErrDeviceFlowExpired      = errors.New("device code expired before authorization completed")
	ErrUnknownCacheType       = errors.New("unknown cache type")
	ErrCacheEntryTooLarge     = errors.New("cache value exceeds size limit")
	ErrTenantNotRegistered    = errors.New("tenant not present in registry")
	ErrNoMoreItems            = errors.New("no more items")
	ErrUnknownConfigKey       = errors.New("unknown configuration key")
	ErrOrganizationEmpty      = errors.New("organization collection is empty")
)

// IsThrottling checks if the error is a throttling (429) request error.
func IsThrottling(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.Kind == KindThrottling
	}

	return false
}

// IsTransientServer checks if the error is a transient 5xx request error.
func IsTransientServer(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.Kind == KindTransientServer
	}

	return false
}

// IsPermanent checks if the error is a non-retryable request error.
func IsPermanent(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.Kind == KindPermanent
	}

	return false
}

// IsNotFound checks if the error is a 404 request error.
func IsNotFound(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is a 401 request error.
func IsUnauthorized(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is a 403 request error.
func IsForbidden(err error) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsRetriesExhausted checks if the error reports an exhausted retry budget.
func IsRetriesExhausted(err error) bool {
	exhausted := &RetriesExhaustedError{}

	return errors.As(err, &exhausted)
}

// IsAuthentication checks if the error is a failed credential flow.
func IsAuthentication(err error) bool {
	authErr := &AuthenticationError{}

	return errors.As(err, &authErr)
}
