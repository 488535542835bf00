// Package client assembles the working API client behind the public
// constructors: the tenant session core, the HTTP executor with retries and
// caching, the batch executor, and the typed directory resource clients.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/graphops-io/tenantctl/internal/auth"
	"github.com/graphops-io/tenantctl/internal/constants"
	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// Client implements graph.Client.
type Client struct {
	config     *graph.Config
	session    *auth.AuthContext
	httpClient *internalhttp.Client

	organizationClient *OrganizationClient
	usersClient        *UsersClient
	groupsClient       *GroupsClient
	domainsClient      *DomainsClient
	licensesClient     *LicensesClient
}

// sessionTokenSource feeds the session's current bearer token to the HTTP
// layer, which re-reads it before every attempt.
type sessionTokenSource struct {
	session *auth.AuthContext
}

func (s sessionTokenSource) GetToken(ctx context.Context) (string, error) {
	return s.session.AccessToken(ctx)
}

// New creates a client from configuration. Credential material named in the
// config is retained for its tenant but no network call happens until a
// session operation needs one; a configured static access token connects
// immediately without any flow.
func New(config *graph.Config) (*Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	session, err := buildSession(config)
	if err != nil {
		return nil, err
	}

	httpClient, err := buildHTTPClient(config, session)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:     config,
		session:    session,
		httpClient: httpClient,
	}

	client.initializeResourceClients()

	return client, nil
}

// buildSession wires the identity client and auth context, seeds retained
// material from the config, and installs a static token when one is given.
func buildSession(config *graph.Config) (*auth.AuthContext, error) {
	var identityBase string
	if config.IdentityHost != "" {
		identityBase = hostToURL(config.IdentityHost)
	}

	identity := auth.NewIdentityClient(identityBase, config.Resource)

	opts := []auth.ContextOption{auth.WithDefaultClientID(config.ClientID)}

	if config.Directory != nil {
		opts = append(opts, auth.WithDirectory(config.Directory))
	}

	if config.Logger != nil {
		opts = append(opts, auth.WithContextLogger(config.Logger))
	}

	session := auth.NewAuthContext(identity, opts...)

	if config.TenantID != "" {
		if material := materialFromConfig(config); material != nil {
			session.Retain(config.TenantID, material)
		}
	}

	if config.AccessToken != "" {
		err := session.UseStaticToken(config.TenantID, config.AccessToken)
		if err != nil {
			return nil, err
		}
	}

	return session, nil
}

// buildHTTPClient assembles the executor with the config's retry, cache,
// and observability settings.
func buildHTTPClient(config *graph.Config, session *auth.AuthContext) (*internalhttp.Client, error) {
	apiHost := config.APIHost
	if apiHost == "" {
		apiHost = constants.DefaultAPIHost
	}

	opts := []internalhttp.Option{
		internalhttp.WithUserAgent(config.UserAgent),
		internalhttp.WithMaxAttempts(config.MaxAttempts),
		internalhttp.WithHTTPTimeout(config.HTTPTimeout),
		internalhttp.WithAPIVersion(config.APIVersion),
		internalhttp.WithTenantProvider(session.CurrentTenant),
	}

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.Cache.Type != "" && config.Cache.Type != graph.CacheTypeNone {
		cache, err := graph.NewCacheFromConfig(&config.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to build response cache: %w", err)
		}

		manager := graph.NewCacheManager(cache, graph.DefaultCachingPolicy())
		opts = append(opts, internalhttp.WithCacheManager(manager))
	}

	interceptors := graph.NewInterceptorChain()
	interceptors.AddRequestInterceptor(graph.ClientRequestIDInterceptor())

	if config.Debug && config.Logger != nil {
		interceptors.AddRequestInterceptor(graph.LoggingInterceptor(config.Logger))
		interceptors.AddResponseInterceptor(graph.LoggingResponseInterceptor(config.Logger))
	}

	opts = append(opts, internalhttp.WithInterceptors(interceptors))

	return internalhttp.NewClient(hostToURL(apiHost), sessionTokenSource{session}, opts...), nil
}

// materialFromConfig maps configuration fields to credential material using
// the fixed flow priority: client secret first, then certificate. Device
// code and interactive need runtime callbacks the config cannot carry.
func materialFromConfig(config *graph.Config) graph.CredentialMaterial {
	if config.ClientID == "" {
		return nil
	}

	if config.ClientSecret != "" {
		return graph.ClientSecret(config.ClientID, config.ClientSecret)
	}

	if config.CertificatePath != "" {
		return graph.Certificate(config.ClientID, config.CertificatePath, config.CertificatePassword)
	}

	return nil
}

// hostToURL accepts either a bare host or a full URL and returns a URL.
func hostToURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}

	return "https://" + host
}

func (c *Client) initializeResourceClients() {
	c.organizationClient = NewOrganizationClient(c.httpClient)
	c.usersClient = NewUsersClient(c.httpClient)
	c.groupsClient = NewGroupsClient(c.httpClient)
	c.domainsClient = NewDomainsClient(c.httpClient)
	c.licensesClient = NewLicensesClient(c.httpClient)
}

// Connect authenticates against a tenant and makes it current.
func (c *Client) Connect(ctx context.Context, tenantID string, material graph.CredentialMaterial) error {
	return c.session.Connect(ctx, tenantID, material)
}

// SwitchTenant makes tenantID current, reusing its cached credential when
// still usable.
func (c *Client) SwitchTenant(ctx context.Context, tenantID string) error {
	return c.session.SwitchTenant(ctx, tenantID)
}

// Disconnect clears the current session ("current") or every cached
// session ("all").
func (c *Client) Disconnect(scope string) error {
	return c.session.Disconnect(scope)
}

// CurrentTenant returns the current tenant id, or "" when disconnected.
func (c *Client) CurrentTenant() string {
	return c.session.CurrentTenant()
}

// AccessToken returns a valid bearer token for the current tenant.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.session.AccessToken(ctx)
}

// Session exposes the session core to the CLI layer, which drives flows
// the typed config cannot express.
func (c *Client) Session() *auth.AuthContext {
	return c.session
}

// Get performs a GET against an arbitrary path.
func (c *Client) Get(ctx context.Context, path string, opts *graph.RequestOptions) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(ctx, requestFor(http.MethodGet, path, nil, opts))
	if err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body), nil
}

// Post performs a POST against an arbitrary path.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts *graph.RequestOptions) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(ctx, requestFor(http.MethodPost, path, body, opts))
	if err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body), nil
}

// Patch performs a PATCH against an arbitrary path.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, opts *graph.RequestOptions) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(ctx, requestFor(http.MethodPatch, path, body, opts))
	if err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body), nil
}

// Delete performs a DELETE against an arbitrary path.
func (c *Client) Delete(ctx context.Context, path string, opts *graph.RequestOptions) error {
	_, err := c.httpClient.Do(ctx, requestFor(http.MethodDelete, path, nil, opts))

	return err
}

// GetAllPages follows continuation links until exhaustion or, when
// maxPages > 0, until that many pages have been appended.
func (c *Client) GetAllPages(ctx context.Context, path string, opts *graph.RequestOptions, maxPages int) ([]json.RawMessage, error) {
	return c.httpClient.GetAllPages(ctx, requestFor(http.MethodGet, path, nil, opts), maxPages)
}

// Organization returns the organization resource client.
func (c *Client) Organization() graph.OrganizationClient {
	return c.organizationClient
}

// Users returns the users resource client.
func (c *Client) Users() graph.UsersClient {
	return c.usersClient
}

// Groups returns the groups resource client.
func (c *Client) Groups() graph.GroupsClient {
	return c.groupsClient
}

// Domains returns the domains resource client.
func (c *Client) Domains() graph.DomainsClient {
	return c.domainsClient
}

// Licenses returns the licenses resource client.
func (c *Client) Licenses() graph.LicensesClient {
	return c.licensesClient
}

func requestFor(method, path string, body interface{}, opts *graph.RequestOptions) *internalhttp.Request {
	req := &internalhttp.Request{
		Method: method,
		Path:   path,
		Body:   body,
	}

	if opts != nil {
		req.Version = opts.Version
		req.Query = opts.Query
	}

	return req
}
