package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// AuthContext owns the process's tenant sessions: which tenant is current,
// the cached credential per tenant, and the credential material each tenant
// was connected with. Material lives in process memory only and is never
// persisted. All state transitions run under one mutex.
type AuthContext struct {
	identity  *IdentityClient
	cache     *TokenCache
	directory graph.TenantDirectory
	logger    graph.Logger

	// defaultClientID and openURL feed the interactive fallback selected
	// by nil credential material.
	defaultClientID string
	openURL         func(url string) error

	mu        sync.Mutex
	current   string
	materials map[string]graph.CredentialMaterial
	static    map[string]bool
}

// ContextOption configures an AuthContext.
type ContextOption func(*AuthContext)

// WithDirectory records tenant access times in a tenant directory.
func WithDirectory(directory graph.TenantDirectory) ContextOption {
	return func(a *AuthContext) {
		a.directory = directory
	}
}

// WithContextLogger sets the logger for session transitions.
func WithContextLogger(logger graph.Logger) ContextOption {
	return func(a *AuthContext) {
		a.logger = logger
	}
}

// WithDefaultClientID sets the application id used when nil material selects
// the interactive flow.
func WithDefaultClientID(clientID string) ContextOption {
	return func(a *AuthContext) {
		a.defaultClientID = clientID
	}
}

// WithOpenURL sets the browser launcher used when nil material selects the
// interactive flow. Without one, that fallback fails as unavailable.
func WithOpenURL(openURL func(url string) error) ContextOption {
	return func(a *AuthContext) {
		a.openURL = openURL
	}
}

// NewAuthContext creates a disconnected AuthContext backed by the given
// identity client.
func NewAuthContext(identity *IdentityClient, opts ...ContextOption) *AuthContext {
	authContext := &AuthContext{
		identity:  identity,
		cache:     NewTokenCache(),
		materials: make(map[string]graph.CredentialMaterial),
		static:    make(map[string]bool),
	}

	for _, opt := range opts {
		opt(authContext)
	}

	return authContext
}

// Connect authenticates against a tenant and makes it current. The acquired
// credential replaces any cached one for the tenant, so Connect also serves
// as the refresh path. Nil material selects the material retained from an
// earlier Connect, or the interactive flow when none exists.
func (a *AuthContext) Connect(ctx context.Context, tenantID string, material graph.CredentialMaterial) error {
	if tenantID == "" {
		return graph.ErrTenantIDRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.connectLocked(ctx, tenantID, material)
}

// SwitchTenant makes tenantID current. A cached usable credential is adopted
// without any network traffic; otherwise the tenant is re-authenticated with
// its retained material.
func (a *AuthContext) SwitchTenant(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return graph.ErrTenantIDRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if credential := a.cache.Get(tenantID); credential.Usable() {
		a.current = tenantID
		a.touch(tenantID)
		a.logDebug("adopted cached session", map[string]interface{}{
			"tenant_id": tenantID,
			"expires":   credential.ExpiresAt,
		})

		return nil
	}

	return a.connectLocked(ctx, tenantID, nil)
}

// AccessToken returns a bearer token for the current tenant, re-running the
// tenant's credential flow first when the cached token is inside the expiry
// grace window.
func (a *AuthContext) AccessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == "" {
		return "", graph.ErrNotConnected
	}

	credential := a.cache.Get(a.current)
	if credential.Usable() {
		return credential.AccessToken, nil
	}

	err := a.connectLocked(ctx, a.current, nil)
	if err != nil {
		return "", err
	}

	return a.cache.Get(a.current).AccessToken, nil
}

// Disconnect clears session state. Scope "current" removes the current
// tenant's cached credential; scope "all" empties the cache. Retained
// material survives so a later switch can re-authenticate silently.
func (a *AuthContext) Disconnect(scope string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch scope {
	case constants.DisconnectCurrent:
		if a.current != "" {
			a.cache.Remove(a.current)
			a.logInfo("disconnected tenant", map[string]interface{}{"tenant_id": a.current})
			a.current = ""
		}
	case constants.DisconnectAll:
		a.cache.Clear()
		a.current = ""
		a.logInfo("disconnected all tenants", nil)
	default:
		return fmt.Errorf("%w: %q", graph.ErrUnknownDisconnectScope, scope)
	}

	return nil
}

// CurrentTenant returns the current tenant id, or "" when disconnected.
func (a *AuthContext) CurrentTenant() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.current
}

// Tenants returns the tenant ids with cached credentials, sorted.
func (a *AuthContext) Tenants() []string {
	return a.cache.Tenants()
}

// Retain stores credential material for a tenant without connecting, so a
// later switch or nil-material connect can run its flow on demand.
func (a *AuthContext) Retain(tenantID string, material graph.CredentialMaterial) {
	if tenantID == "" || material == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.materials[tenantID] = material
}

// UseStaticToken installs a pre-acquired token as the current tenant's
// credential and skips all credential flows. Static credentials never
// refresh; once removed, reconnecting the tenant needs real material.
func (a *AuthContext) UseStaticToken(tenantID, token string) error {
	if tenantID == "" {
		return graph.ErrTenantIDRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cache.Set(&Credential{
		TenantID:    tenantID,
		Account:     "static",
		Flow:        "static",
		AccessToken: token,
		TokenType:   "Bearer",
	})
	a.static[tenantID] = true
	a.current = tenantID
	a.touch(tenantID)
	tokenRequestsTotal.WithLabelValues("static", "success").Inc()

	return nil
}

// connectLocked runs the credential flow for a tenant and installs the
// result. Callers hold a.mu.
func (a *AuthContext) connectLocked(ctx context.Context, tenantID string, material graph.CredentialMaterial) error {
	material, err := a.resolveMaterial(tenantID, material)
	if err != nil {
		return &graph.AuthenticationError{TenantID: tenantID, Flow: "static", Err: err}
	}

	credential, err := a.acquire(ctx, tenantID, material)
	if err != nil {
		tokenRequestsTotal.WithLabelValues(material.Flow(), "failure").Inc()

		return &graph.AuthenticationError{TenantID: tenantID, Flow: material.Flow(), Err: err}
	}

	tokenRequestsTotal.WithLabelValues(material.Flow(), "success").Inc()
	a.cache.Set(credential)
	a.materials[tenantID] = material
	delete(a.static, tenantID)
	a.current = tenantID
	a.touch(tenantID)
	a.logInfo("connected tenant", map[string]interface{}{
		"tenant_id": tenantID,
		"flow":      material.Flow(),
		"expires":   credential.ExpiresAt,
	})

	return nil
}

// resolveMaterial fills in nil material: the tenant's retained material
// first, then the interactive fallback. Tenants connected with a static
// token have nothing to re-run and fail straight away.
func (a *AuthContext) resolveMaterial(tenantID string, material graph.CredentialMaterial) (graph.CredentialMaterial, error) {
	if material != nil {
		return material, nil
	}

	if retained := a.materials[tenantID]; retained != nil {
		return retained, nil
	}

	if a.static[tenantID] {
		return nil, graph.ErrStaticTokenNoRefresh
	}

	return graph.Interactive(a.defaultClientID, a.openURL), nil
}

// acquire dispatches one credential flow. Each material variant maps to
// exactly one flow; there is no fallback between flows.
func (a *AuthContext) acquire(ctx context.Context, tenantID string, material graph.CredentialMaterial) (*Credential, error) {
	switch m := material.(type) {
	case *graph.ClientSecretMaterial:
		return a.identity.TokenWithClientSecret(ctx, tenantID, m.ClientID, m.ClientSecret)
	case *graph.CertificateMaterial:
		cert, key, err := loadCertificate(m)
		if err != nil {
			return nil, err
		}

		assertion, err := buildClientAssertion(m.ClientID, a.identity.TokenEndpoint(tenantID), cert, key)
		if err != nil {
			return nil, err
		}

		return a.identity.TokenWithAssertion(ctx, tenantID, m.ClientID, assertion)
	case *graph.DeviceCodeMaterial:
		return a.identity.DeviceCodeGrant(ctx, tenantID, m.ClientID, m.Prompt)
	case *graph.InteractiveMaterial:
		return runInteractiveFlow(ctx, a.identity, tenantID, m)
	default:
		return nil, fmt.Errorf("%w: %T", graph.ErrUnsupportedFlow, material)
	}
}

// touch records tenant access in the directory. Directory failures never
// block authentication.
func (a *AuthContext) touch(tenantID string) {
	if a.directory == nil {
		return
	}

	err := a.directory.Touch(tenantID, time.Now())
	if err != nil {
		a.logWarn("failed to record tenant access", map[string]interface{}{
			"tenant_id": tenantID,
			"error":     err.Error(),
		})
	}
}

func (a *AuthContext) logDebug(message string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Debug(message, fields)
	}
}

func (a *AuthContext) logInfo(message string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Info(message, fields)
	}
}

func (a *AuthContext) logWarn(message string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Warn(message, fields)
	}
}
