package graph

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// SessionClient is the tenant session surface. Connect and SwitchTenant
// change which tenant subsequent requests run against; AccessToken exposes
// the single valid bearer token for the current tenant.
type SessionClient interface {
	// Connect authenticates against a tenant with the supplied credential
	// material and makes it the current tenant. Nil material selects the
	// interactive flow.
	Connect(ctx context.Context, tenantID string, material CredentialMaterial) error

	// SwitchTenant adopts a cached usable credential for the tenant
	// without a network call, or re-authenticates when the cached one is
	// missing or inside the expiry grace window.
	SwitchTenant(ctx context.Context, tenantID string) error

	// Disconnect clears the session. Scope "current" removes only the
	// current tenant's cached credential; "all" empties the cache.
	Disconnect(scope string) error

	// CurrentTenant returns the current tenant id, or "" when not
	// connected.
	CurrentTenant() string

	// AccessToken returns a valid bearer token for the current tenant,
	// transparently refreshing when it is about to expire.
	AccessToken(ctx context.Context) (string, error)
}

// RequestOptions carries per-request overrides for the raw surface.
type RequestOptions struct {
	// Version overrides version resolution ("v1.0" or "beta").
	Version string

	// Query is appended to the request URL.
	Query url.Values
}

// RawClient issues untyped calls against arbitrary API paths.
type RawClient interface {
	Get(ctx context.Context, path string, opts *RequestOptions) (json.RawMessage, error)
	Post(ctx context.Context, path string, body interface{}, opts *RequestOptions) (json.RawMessage, error)
	Patch(ctx context.Context, path string, body interface{}, opts *RequestOptions) (json.RawMessage, error)
	Delete(ctx context.Context, path string, opts *RequestOptions) error

	// GetAllPages follows continuation links until exhaustion or, when
	// maxPages > 0, until that many pages have been appended.
	GetAllPages(ctx context.Context, path string, opts *RequestOptions, maxPages int) ([]json.RawMessage, error)
}

// BatchClient packs logical requests into physical batch calls.
type BatchClient interface {
	// ExecuteBatch runs the items through the batch endpoint, splitting
	// into chunks of at most 20, and returns one result per item,
	// correlated by id.
	ExecuteBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error)
}

// OrganizationClient reads the tenant's organization resource.
type OrganizationClient interface {
	Get(ctx context.Context) (*Organization, error)
}

// UsersClient manages directory users.
type UsersClient interface {
	List(ctx context.Context, params *QueryParams) (*UserList, error)
	ListAll(ctx context.Context, params *QueryParams) ([]User, error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, request *CreateUserRequest) (*User, error)
	Update(ctx context.Context, id string, update map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// GroupsClient manages directory groups.
type GroupsClient interface {
	List(ctx context.Context, params *QueryParams) (*GroupList, error)
	ListAll(ctx context.Context, params *QueryParams) ([]Group, error)
	Get(ctx context.Context, id string) (*Group, error)
	Members(ctx context.Context, id string, params *QueryParams) ([]DirectoryObject, error)
}

// DomainsClient reads directory domains.
type DomainsClient interface {
	List(ctx context.Context) (*DomainList, error)
	Get(ctx context.Context, id string) (*Domain, error)
}

// LicensesClient reads the tenant's license subscriptions.
type LicensesClient interface {
	List(ctx context.Context) (*SubscribedSKUList, error)
}

// DirectoryClients provides access to the typed resource clients.
type DirectoryClients interface {
	Organization() OrganizationClient
	Users() UsersClient
	Groups() GroupsClient
	Domains() DomainsClient
	Licenses() LicensesClient
}

type Client interface {
	SessionClient
	RawClient
	BatchClient
	DirectoryClients
}

// CreateUserRequest is the body for creating a user.
type CreateUserRequest struct {
	AccountEnabled    bool            `json:"accountEnabled"    yaml:"accountEnabled"`
	DisplayName       string          `json:"displayName"       yaml:"displayName"`
	MailNickname      string          `json:"mailNickname"      yaml:"mailNickname"`
	UserPrincipalName string          `json:"userPrincipalName" yaml:"userPrincipalName"`
	PasswordProfile   PasswordProfile `json:"passwordProfile"   yaml:"passwordProfile"`
}

// PasswordProfile carries the initial password settings for a new user.
type PasswordProfile struct {
	Password                      string `json:"password"                      yaml:"password"`
	ForceChangePasswordNextSignIn bool   `json:"forceChangePasswordNextSignIn" yaml:"forceChangePasswordNextSignIn"`
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// CredentialMaterial selects exactly one authentication flow. The four
// variants are closed: one constructor per flow, no inference from which
// optional fields happen to be set.
type CredentialMaterial interface {
	// Flow names the variant for error reporting and logs.
	Flow() string

	material()
}

// ClientSecretMaterial authenticates an application with a shared secret
// (client_credentials grant).
type ClientSecretMaterial struct {
	ClientID     string
	ClientSecret string
}

// Flow implements CredentialMaterial.
func (*ClientSecretMaterial) Flow() string { return "client_secret" }

func (*ClientSecretMaterial) material() {}

// ClientSecret builds client-secret material.
func ClientSecret(clientID, clientSecret string) *ClientSecretMaterial {
	return &ClientSecretMaterial{ClientID: clientID, ClientSecret: clientSecret}
}

// CertificateMaterial authenticates an application with a signed client
// assertion. Either a PFX bundle or a PEM certificate/key pair may be
// supplied.
type CertificateMaterial struct {
	ClientID    string
	PFXPath     string
	PFXPassword string
	CertPath    string
	KeyPath     string
}

// Flow implements CredentialMaterial.
func (*CertificateMaterial) Flow() string { return "certificate" }

func (*CertificateMaterial) material() {}

// Certificate builds certificate material from a PFX bundle.
func Certificate(clientID, pfxPath, pfxPassword string) *CertificateMaterial {
	return &CertificateMaterial{ClientID: clientID, PFXPath: pfxPath, PFXPassword: pfxPassword}
}

// CertificatePEM builds certificate material from PEM files.
func CertificatePEM(clientID, certPath, keyPath string) *CertificateMaterial {
	return &CertificateMaterial{ClientID: clientID, CertPath: certPath, KeyPath: keyPath}
}

// DeviceCodePrompt carries what the user must be shown to complete a
// device-code sign-in.
type DeviceCodePrompt struct {
	UserCode        string
	VerificationURI string
	Message         string
	ExpiresIn       int
}

// DeviceCodePromptFunc receives the prompt once the flow starts.
type DeviceCodePromptFunc func(DeviceCodePrompt)

// DeviceCodeMaterial authenticates a user on a second device.
type DeviceCodeMaterial struct {
	ClientID string
	Prompt   DeviceCodePromptFunc
}

// Flow implements CredentialMaterial.
func (*DeviceCodeMaterial) Flow() string { return "device_code" }

func (*DeviceCodeMaterial) material() {}

// DeviceCode builds device-code material. The prompt func is invoked with
// the user code and verification URI once the flow starts.
func DeviceCode(clientID string, prompt DeviceCodePromptFunc) *DeviceCodeMaterial {
	return &DeviceCodeMaterial{ClientID: clientID, Prompt: prompt}
}

// InteractiveMaterial authenticates a user through the system browser with
// a loopback redirect.
type InteractiveMaterial struct {
	ClientID string

	// OpenURL is invoked with the authorization URL. When nil the flow
	// fails in non-interactive sessions.
	OpenURL func(url string) error
}

// Flow implements CredentialMaterial.
func (*InteractiveMaterial) Flow() string { return "interactive" }

func (*InteractiveMaterial) material() {}

// Interactive builds interactive-flow material.
func Interactive(clientID string, openURL func(url string) error) *InteractiveMaterial {
	return &InteractiveMaterial{ClientID: clientID, OpenURL: openURL}
}

// Config represents client configuration for building a graph.Client.
//
// # Credential flows
//
// Four flows are supported, selected by an explicit CredentialMaterial
// variant passed to Connect: client secret, certificate, device code, and
// interactive. There is no automatic fallback between flows. When a config
// file supplies material for several flows, the CLI resolves one using the
// fixed priority client-secret → certificate → device-code → interactive.
// AccessToken, when set, bypasses the flows entirely and is served as a
// static bearer token that cannot be refreshed.
//
// # Version resolution
//
// Each request resolves its API version once, before dispatch: an explicit
// per-request version wins; otherwise "beta" is selected when the request
// path substring-matches the fixed beta-endpoint allow-list; otherwise
// APIVersion (default "v1.0") applies. The resolved version is fixed for
// all of that call's retries.
//
// # Retries and throttling
//
// MaxAttempts bounds the total attempts per request, the initial call
// included. 429 responses wait Retry-After seconds (60 when absent, no
// jitter); 500/502/503/504 wait 2^k plus up to one second of jitter after
// the k-th failed attempt. Any other status fails immediately. An
// exhausted budget surfaces a RetriesExhaustedError naming the URL.
//
// # Response caching
//
// GET responses may be cached per tenant with a TTL. Backends: memory
// (default), nats (JetStream KV), redis, or none. Only 2xx GET responses
// are cached.
type Config struct {
	// TenantID: tenant to connect to at construction time. Optional;
	// sessions can also be established later via Connect.
	TenantID string

	// ClientID: application id used by all credential flows.
	ClientID string
	// ClientSecret: secret for the client-credentials flow.
	ClientSecret string
	// CertificatePath: PFX bundle path for the certificate flow.
	CertificatePath string
	// CertificatePassword: password protecting the PFX bundle.
	CertificatePassword string
	// AccessToken: if set, used directly as a static Bearer token.
	AccessToken string

	// APIHost: Graph API host. Defaults to graph.microsoft.com.
	APIHost string
	// IdentityHost: identity platform host for token calls. Defaults to
	// login.microsoftonline.com.
	IdentityHost string
	// Resource: audience the ".default" scope is derived from. Defaults
	// to https://graph.microsoft.com.
	Resource string
	// APIVersion: default API version when no override applies.
	APIVersion string

	// MaxAttempts: total attempts per request including the first. If 0,
	// the default of 4 is used.
	MaxAttempts int
	// HTTPTimeout: timeout for individual HTTP attempts.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger

	// Cache: GET response cache settings.
	Cache CacheConfig

	// Directory: optional tenant registry collaborator. When set,
	// successful connects write the tenant's lastAccessedAt through it.
	Directory TenantDirectory
}
