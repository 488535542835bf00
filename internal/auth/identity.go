package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// Static errors for err113 compliance.
var (
	ErrTokenEndpoint      = errors.New("token endpoint rejected the request")
	ErrEmptyTokenResponse = errors.New("token response carried no access token")
)

// IdentityClient calls the identity platform's tenant-scoped OAuth2
// endpoints. One instance serves all tenants; the tenant id is part of each
// endpoint path.
type IdentityClient struct {
	base       string
	resource   string
	httpClient *http.Client

	// pollInterval overrides the device-code polling interval when set.
	pollInterval time.Duration
}

// NewIdentityClient builds a client against an identity platform base URL
// such as https://login.microsoftonline.com. Empty arguments select the
// defaults.
func NewIdentityClient(base, resource string) *IdentityClient {
	if base == "" {
		base = "https://" + constants.DefaultIdentityHost
	}

	if resource == "" {
		resource = constants.DefaultResource
	}

	return &IdentityClient{
		base:       strings.TrimSuffix(base, "/"),
		resource:   resource,
		httpClient: &http.Client{Timeout: constants.TokenHTTPTimeout},
	}
}

// TokenEndpoint returns the tenant's token endpoint URL. It is also the
// audience named in client assertions.
func (c *IdentityClient) TokenEndpoint(tenantID string) string {
	return c.endpoint(tenantID, "token")
}

func (c *IdentityClient) endpoint(tenantID, operation string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/%s", c.base, tenantID, operation)
}

func (c *IdentityClient) scope() string {
	return c.resource + "/.default"
}

// tokenResponse is the token endpoint envelope. OAuth protocol errors ride
// inside the payload rather than the HTTP status.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
	Message         string `json:"message"`
	Error           string `json:"error"`
	ErrorDesc       string `json:"error_description"`
}

// TokenWithClientSecret runs the client-credentials grant with a shared
// secret.
func (c *IdentityClient) TokenWithClientSecret(ctx context.Context, tenantID, clientID, clientSecret string) (*Credential, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("scope", c.scope())
	form.Set("grant_type", "client_credentials")

	token, err := c.postToken(ctx, tenantID, form)
	if err != nil {
		return nil, err
	}

	return credentialFrom(tenantID, clientID, "client_secret", token)
}

// TokenWithAssertion runs the client-credentials grant with a signed client
// assertion in place of a shared secret.
func (c *IdentityClient) TokenWithAssertion(ctx context.Context, tenantID, clientID, assertion string) (*Credential, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_assertion_type", constants.ClientAssertionType)
	form.Set("client_assertion", assertion)
	form.Set("scope", c.scope())
	form.Set("grant_type", "client_credentials")

	token, err := c.postToken(ctx, tenantID, form)
	if err != nil {
		return nil, err
	}

	return credentialFrom(tenantID, clientID, "certificate", token)
}

// DeviceCodeGrant runs the device-code flow: starts the device
// authorization, hands the user instructions to the prompt, and polls the
// token endpoint until the user completes, declines, or the code expires.
func (c *IdentityClient) DeviceCodeGrant(ctx context.Context, tenantID, clientID string, prompt graph.DeviceCodePromptFunc) (*Credential, error) {
	if clientID == "" {
		return nil, graph.ErrClientIDRequired
	}

	start, err := c.startDeviceCode(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if prompt != nil {
		prompt(graph.DeviceCodePrompt{
			UserCode:        start.UserCode,
			VerificationURI: start.VerificationURI,
			Message:         start.Message,
			ExpiresIn:       start.ExpiresIn,
		})
	}

	return c.pollDeviceCode(ctx, tenantID, clientID, start)
}

func (c *IdentityClient) startDeviceCode(ctx context.Context, tenantID, clientID string) (*deviceCodeResponse, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("scope", c.scope())

	var start deviceCodeResponse

	err := c.postForm(ctx, c.endpoint(tenantID, "devicecode"), form, &start)
	if err != nil {
		return nil, err
	}

	if start.Error != "" {
		return nil, fmt.Errorf("%w: %s (%s)", ErrTokenEndpoint, start.Error, start.ErrorDesc)
	}

	if start.DeviceCode == "" {
		return nil, fmt.Errorf("%w: missing device code", ErrTokenEndpoint)
	}

	return &start, nil
}

func (c *IdentityClient) pollDeviceCode(ctx context.Context, tenantID, clientID string, start *deviceCodeResponse) (*Credential, error) {
	interval := time.Duration(start.Interval) * time.Second
	if c.pollInterval > 0 {
		interval = c.pollInterval
	}

	if interval <= 0 {
		interval = constants.DefaultDevicePollInterval
	}

	deadline := time.Now().Add(time.Duration(start.ExpiresIn) * time.Second)

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("grant_type", constants.DeviceCodeGrantType)
	form.Set("device_code", start.DeviceCode)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		if time.Now().After(deadline) {
			return nil, graph.ErrDeviceFlowExpired
		}

		token, err := c.postRaw(ctx, tenantID, form)
		if err != nil {
			return nil, err
		}

		switch token.Error {
		case "":
			return credentialFrom(tenantID, clientID, "device_code", token)
		case "authorization_pending":
			continue
		case "slow_down":
			interval += 5 * time.Second
		case "authorization_declined":
			return nil, graph.ErrDeviceFlowDeclined
		case "expired_token":
			return nil, graph.ErrDeviceFlowExpired
		default:
			return nil, fmt.Errorf("%w: %s (%s)", ErrTokenEndpoint, token.Error, token.ErrorDesc)
		}
	}
}

// postToken posts to the token endpoint and converts protocol errors into Go
// errors.
func (c *IdentityClient) postToken(ctx context.Context, tenantID string, form url.Values) (*tokenResponse, error) {
	token, err := c.postRaw(ctx, tenantID, form)
	if err != nil {
		return nil, err
	}

	if token.Error != "" {
		return nil, fmt.Errorf("%w: %s (%s)", ErrTokenEndpoint, token.Error, token.ErrorDesc)
	}

	return token, nil
}

// postRaw posts to the token endpoint and returns the decoded envelope with
// any protocol error left inside it, which the device-code poller inspects.
func (c *IdentityClient) postRaw(ctx context.Context, tenantID string, form url.Values) (*tokenResponse, error) {
	var token tokenResponse

	err := c.postForm(ctx, c.endpoint(tenantID, "token"), form, &token)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

func (c *IdentityClient) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	return nil
}

// credentialFrom converts a token payload into a credential for the tenant.
func credentialFrom(tenantID, account, flow string, token *tokenResponse) (*Credential, error) {
	if token.AccessToken == "" {
		return nil, ErrEmptyTokenResponse
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &Credential{
		TenantID:    tenantID,
		Account:     account,
		Flow:        flow,
		AccessToken: token.AccessToken,
		TokenType:   tokenType,
		ExpiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}, nil
}
