package graph

import (
	"encoding/json"
	"time"
)

// DirectoryObject represents the base structure shared by directory
// resources.
type DirectoryObject struct {
	ID              string     `json:"id"                        yaml:"id"`
	CreatedDateTime *time.Time `json:"createdDateTime,omitempty" yaml:"createdDateTime,omitempty"`
}

// ListResponse represents a paginated list response. NextLink is the opaque
// continuation link; its absence is the sole termination signal.
type ListResponse[T any] struct {
	Context  string `json:"@odata.context,omitempty"  yaml:"odata_context,omitempty"`
	Count    *int64 `json:"@odata.count,omitempty"    yaml:"odata_count,omitempty"`
	NextLink string `json:"@odata.nextLink,omitempty" yaml:"odata_next_link,omitempty"`
	Value    []T    `json:"value"                     yaml:"value"`
}

// Organization represents the tenant's organization resource.
type Organization struct {
	DirectoryObject   `yaml:",inline"`
	DisplayName       string           `json:"displayName"                 yaml:"displayName"`
	TenantType        string           `json:"tenantType,omitempty"        yaml:"tenantType,omitempty"`
	CountryLetterCode string           `json:"countryLetterCode,omitempty" yaml:"countryLetterCode,omitempty"`
	VerifiedDomains   []VerifiedDomain `json:"verifiedDomains,omitempty"   yaml:"verifiedDomains,omitempty"`
}

// VerifiedDomain is one verified domain inside an organization resource.
type VerifiedDomain struct {
	Name         string `json:"name"         yaml:"name"`
	IsDefault    bool   `json:"isDefault"    yaml:"isDefault"`
	IsInitial    bool   `json:"isInitial"    yaml:"isInitial"`
	Type         string `json:"type"         yaml:"type"`
	Capabilities string `json:"capabilities" yaml:"capabilities"`
}

// User represents a directory user.
type User struct {
	DirectoryObject       `yaml:",inline"`
	DisplayName           string `json:"displayName"                     yaml:"displayName"`
	UserPrincipalName     string `json:"userPrincipalName"               yaml:"userPrincipalName"`
	Mail                  string `json:"mail,omitempty"                  yaml:"mail,omitempty"`
	JobTitle              string `json:"jobTitle,omitempty"              yaml:"jobTitle,omitempty"`
	Department            string `json:"department,omitempty"            yaml:"department,omitempty"`
	AccountEnabled        *bool  `json:"accountEnabled,omitempty"        yaml:"accountEnabled,omitempty"`
	UserType              string `json:"userType,omitempty"              yaml:"userType,omitempty"`
	UsageLocation         string `json:"usageLocation,omitempty"         yaml:"usageLocation,omitempty"`
	OnPremisesSyncEnabled *bool  `json:"onPremisesSyncEnabled,omitempty" yaml:"onPremisesSyncEnabled,omitempty"`
}

// Group represents a directory group.
type Group struct {
	DirectoryObject `yaml:",inline"`
	DisplayName     string   `json:"displayName"               yaml:"displayName"`
	Description     string   `json:"description,omitempty"     yaml:"description,omitempty"`
	Mail            string   `json:"mail,omitempty"            yaml:"mail,omitempty"`
	MailEnabled     *bool    `json:"mailEnabled,omitempty"     yaml:"mailEnabled,omitempty"`
	SecurityEnabled *bool    `json:"securityEnabled,omitempty" yaml:"securityEnabled,omitempty"`
	GroupTypes      []string `json:"groupTypes,omitempty"      yaml:"groupTypes,omitempty"`
}

// Domain represents a directory domain.
type Domain struct {
	ID                 string   `json:"id"                           yaml:"id"`
	AuthenticationType string   `json:"authenticationType,omitempty" yaml:"authenticationType,omitempty"`
	IsDefault          *bool    `json:"isDefault,omitempty"          yaml:"isDefault,omitempty"`
	IsInitial          *bool    `json:"isInitial,omitempty"          yaml:"isInitial,omitempty"`
	IsVerified         *bool    `json:"isVerified,omitempty"         yaml:"isVerified,omitempty"`
	SupportedServices  []string `json:"supportedServices,omitempty"  yaml:"supportedServices,omitempty"`
}

// SubscribedSKU represents one license subscription of the tenant.
type SubscribedSKU struct {
	ID               string       `json:"id"                         yaml:"id"`
	SKUID            string       `json:"skuId"                      yaml:"skuId"`
	SKUPartNumber    string       `json:"skuPartNumber"              yaml:"skuPartNumber"`
	CapabilityStatus string       `json:"capabilityStatus,omitempty" yaml:"capabilityStatus,omitempty"`
	ConsumedUnits    int          `json:"consumedUnits"              yaml:"consumedUnits"`
	PrepaidUnits     PrepaidUnits `json:"prepaidUnits"               yaml:"prepaidUnits"`
}

// PrepaidUnits breaks a subscription's unit counts down by state.
type PrepaidUnits struct {
	Enabled   int `json:"enabled"   yaml:"enabled"`
	Suspended int `json:"suspended" yaml:"suspended"`
	Warning   int `json:"warning"   yaml:"warning"`
}

// UserList represents a paginated list of User resources.
type UserList = ListResponse[User]

// GroupList represents a paginated list of Group resources.
type GroupList = ListResponse[Group]

// DomainList represents a paginated list of Domain resources.
type DomainList = ListResponse[Domain]

// SubscribedSKUList represents a paginated list of SubscribedSKU resources.
type SubscribedSKUList = ListResponse[SubscribedSKU]

// RawPage is one page of an untyped response: the items appended by the
// paginator plus the continuation link that produced the next page, if any.
type RawPage struct {
	Items    []json.RawMessage `json:"items"              yaml:"items"`
	NextLink string            `json:"nextLink,omitempty" yaml:"nextLink,omitempty"`
}

// TenantRecord is a tenant entry as kept by the persisted registry
// collaborator.
type TenantRecord struct {
	ID             string    `json:"id"             yaml:"id"`
	DisplayName    string    `json:"displayName"    yaml:"displayName"`
	FriendlyName   string    `json:"friendlyName"   yaml:"friendlyName"`
	PrimaryDomain  string    `json:"primaryDomain"  yaml:"primaryDomain"`
	Tags           []string  `json:"tags"           yaml:"tags"`
	RegisteredAt   time.Time `json:"registeredAt"   yaml:"registeredAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt" yaml:"lastAccessedAt"`
}

// TenantDirectory is the seam to the persisted tenant registry. The core
// only reads tenant ids and writes back access times through it; it never
// owns the underlying file.
type TenantDirectory interface {
	// TenantIDs returns the ids of all registered tenants.
	TenantIDs() ([]string, error)

	// Touch records when a tenant session was last established.
	Touch(tenantID string, accessedAt time.Time) error
}
