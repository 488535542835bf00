// Package auth implements the multi-tenant session core: per-tenant
// credential caching, the four credential flows against the identity
// platform, and the AuthContext that owns current-tenant selection.
package auth

import (
	"sort"
	"sync"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
)

// Credential is one tenant's live authentication result. A credential is
// replaced wholesale on refresh, never mutated in place.
type Credential struct {
	TenantID    string
	Account     string
	Flow        string
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Usable reports whether the credential can still be presented. A credential
// inside the expiry grace window counts as unusable so callers refresh before
// the token dies mid-request. This check is the single freshness authority
// for both tenant switching and token reads. A zero expiry never expires.
func (c *Credential) Usable() bool {
	if c == nil || c.AccessToken == "" {
		return false
	}

	if c.ExpiresAt.IsZero() {
		return true
	}

	return c.ExpiresAt.After(time.Now().Add(constants.TokenGraceWindow))
}

// TokenCache holds every credential this process has obtained, keyed by
// tenant id. At most one credential per tenant; Set replaces wholesale.
type TokenCache struct {
	mu          sync.RWMutex
	credentials map[string]*Credential
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{
		credentials: make(map[string]*Credential),
	}
}

// Get returns the cached credential for a tenant, or nil.
func (c *TokenCache) Get(tenantID string) *Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.credentials[tenantID]
}

// Set stores a credential under its tenant id, replacing any prior entry.
func (c *TokenCache) Set(credential *Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.credentials[credential.TenantID] = credential
	cachedSessions.Set(float64(len(c.credentials)))
}

// Remove drops the credential for a tenant. Removing an absent tenant is not
// an error.
func (c *TokenCache) Remove(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.credentials, tenantID)
	cachedSessions.Set(float64(len(c.credentials)))
}

// Clear empties the cache.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.credentials = make(map[string]*Credential)
	cachedSessions.Set(0)
}

// Tenants returns the tenant ids with cached credentials, sorted.
func (c *TokenCache) Tenants() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tenants := make([]string, 0, len(c.credentials))
	for tenantID := range c.credentials {
		tenants = append(tenants, tenantID)
	}

	sort.Strings(tenants)

	return tenants
}

// Len returns the number of cached credentials.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.credentials)
}
