package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// RegistryFilePerm is the permission for the tenant registry file.
	RegistryFilePerm = 0600
)

// API hosts and versions.
const (
	// DefaultAPIHost is the Graph API host used when none is configured.
	DefaultAPIHost = "graph.microsoft.com"

	// DefaultIdentityHost is the identity platform host for token calls.
	DefaultIdentityHost = "login.microsoftonline.com"

	// DefaultAPIVersion is the API version used when no override applies.
	DefaultAPIVersion = "v1.0"

	// BetaAPIVersion is the version selected for beta-only endpoints.
	BetaAPIVersion = "beta"

	// DefaultResource is the resource the requested scope is derived from.
	DefaultResource = "https://graph.microsoft.com"

	// BatchEndpoint is the relative path of the JSON batch endpoint.
	BatchEndpoint = "/$batch"

	// DefaultUserAgent identifies this client to the API.
	DefaultUserAgent = "tenantctl/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// TokenHTTPTimeout is the timeout for identity token calls.
	TokenHTTPTimeout = 20 * time.Second

	// InteractiveLoginTimeout bounds the wait for the browser redirect.
	InteractiveLoginTimeout = 2 * time.Minute
)

// Retry limits and backoff.
const (
	// DefaultMaxAttempts is the total number of attempts per request,
	// the initial call included.
	DefaultMaxAttempts = 4

	// DefaultThrottleWait is the wait applied to a 429 response that
	// carries no Retry-After header.
	DefaultThrottleWait = 60 * time.Second

	// BackoffBase is the base for exponential backoff on server errors.
	BackoffBase = 2

	// BackoffJitterMillis is the exclusive upper bound of the random
	// jitter added to server-error backoff, in milliseconds.
	BackoffJitterMillis = 1000
)

// Token lifetime policy.
const (
	// TokenGraceWindow is subtracted from a credential's expiry when
	// deciding whether it is still usable. SwitchTenant and AccessToken
	// both consult this single value.
	TokenGraceWindow = 5 * time.Minute
)

// Batching limits.
const (
	// MaxBatchItems is the hard cap of sub-requests per physical batch
	// call, imposed by the remote API.
	MaxBatchItems = 20
)

// Device code flow.
const (
	// DeviceCodeGrantType is the grant used when polling for a device
	// code token.
	DeviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

	// ClientAssertionType identifies a JWT bearer client assertion.
	ClientAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

	// DefaultDevicePollInterval is used when the devicecode response
	// does not suggest one.
	DefaultDevicePollInterval = 5 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the default number of items requested per page.
	DefaultPageSize = 100

	// MaxPagesSafety caps pagination in CLI contexts to prevent
	// accidental full-directory walks.
	MaxPagesSafety = 50
)

// Cache sizes and lifetimes.
const (
	// DefaultCacheSize is the default in-memory cache entry limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default response cache time-to-live.
	DefaultCacheTTL = 60 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024
)

// Output format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Disconnect scopes.
const (
	// DisconnectCurrent removes only the current tenant's session.
	DisconnectCurrent = "current"

	// DisconnectAll removes every cached session.
	DisconnectAll = "all"
)

// BetaEndpoints is the fixed allow-list of path fragments that force the
// beta API version when a request carries no explicit version. Matching is
// by substring against the request path.
var BetaEndpoints = []string{
	"/identityGovernance",
	"/directorySettingTemplates",
	"/settings/directorySettings",
	"/reports/credentialUserRegistrationDetails",
	"/roleManagement/directory/roleEligibilitySchedules",
	"/deviceManagement/intents",
}
