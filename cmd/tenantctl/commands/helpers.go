// Package commands implements the tenantctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/internal/registry"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/graphops-io/tenantctl/pkg/graphclient"
	"github.com/graphops-io/tenantctl/pkg/logging"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Static errors for err113 compliance.
var (
	ErrTenantRequired          = errors.New("tenant id is required, pass TENANT_ID or set --tenant")
	ErrNoCurrentTenant         = errors.New("no tenant configured, use 'tenantctl connect' or set --tenant")
	ErrMultipleCredentialFlows = errors.New("only one credential flow may be selected")
	ErrSecretRequiresClientID  = errors.New("client-secret flow requires a client id")
	ErrCertRequiresClientID    = errors.New("certificate flow requires a client id")
	ErrFlowRequiresClientID    = errors.New("credential flow requires a client id")
	ErrPEMPairRequired         = errors.New("PEM certificate flow requires both --cert-file and --key-file")
	ErrSecretNotTerminal       = errors.New("cannot prompt for client secret: stdin is not a terminal")
	ErrInvalidMaxPages         = errors.New("max-pages must be zero or positive")
	ErrBatchFileRequired       = errors.New("batch file is required, pass --file")
	ErrBatchFileEmpty          = errors.New("batch file contains no requests")
	ErrUnknownOutputFormat     = errors.New("unknown output format")
)

// clientConfigFromViper assembles the client configuration from the
// resolved flag, environment, and config-file values.
func clientConfigFromViper() (*graph.Config, error) {
	config := &graph.Config{
		TenantID:            viper.GetString("tenant"),
		ClientID:            viper.GetString("client_id"),
		ClientSecret:        viper.GetString("client_secret"),
		CertificatePath:     viper.GetString("certificate"),
		CertificatePassword: viper.GetString("certificate_password"),
		AccessToken:         viper.GetString("access_token"),
		APIHost:             viper.GetString("api_host"),
		IdentityHost:        viper.GetString("identity_host"),
		APIVersion:          viper.GetString("api_version"),
		MaxAttempts:         viper.GetInt("max_attempts"),
		HTTPTimeout:         viper.GetDuration("timeout"),
		Debug:               viper.GetBool("debug"),
		Cache:               cacheConfigFromViper(),
	}

	if viper.GetBool("verbose") || config.Debug {
		config.Logger = logging.NewGraphLogger(logging.NewLogger("client"))
	}

	directory, err := openRegistry()
	if err != nil {
		return nil, err
	}

	config.Directory = directory

	if config.TenantID != "" {
		config.TenantID, err = resolveTenantID(config.TenantID)
		if err != nil {
			return nil, err
		}
	}

	return config, nil
}

// cacheConfigFromViper maps the cache keys onto a backend configuration.
func cacheConfigFromViper() graph.CacheConfig {
	config := graph.CacheConfig{
		Type: graph.CacheType(viper.GetString("cache_backend")),
	}

	switch config.Type {
	case graph.CacheTypeNATS:
		config.NATS = &graph.NATSKVConfig{
			URLs:   viper.GetStringSlice("nats_url"),
			Bucket: viper.GetString("nats_bucket"),
		}
	case graph.CacheTypeRedis:
		config.Redis = &graph.RedisCacheConfig{
			Addr:     viper.GetString("redis_addr"),
			Password: viper.GetString("redis_password"),
			DB:       viper.GetInt("redis_db"),
		}
	case graph.CacheTypeMemory, graph.CacheTypeNone:
	default:
	}

	if ttl := viper.GetDuration("cache_ttl"); ttl > 0 {
		config.Options = &graph.CacheOptions{TTL: ttl}
	}

	return config
}

// openRegistry opens the tenant registry at the configured path.
func openRegistry() (*registry.Registry, error) {
	path := viper.GetString("registry")

	if path == "" {
		var err error

		path, err = registry.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return registry.New(path), nil
}

// resolveTenantID maps a registered friendly name onto its tenant id.
// Unknown names pass through unchanged so raw ids keep working.
func resolveTenantID(nameOrID string) (string, error) {
	reg, err := openRegistry()
	if err != nil {
		return "", err
	}

	records, err := reg.List()
	if err != nil {
		return "", fmt.Errorf("failed to read tenant registry: %w", err)
	}

	for _, record := range records {
		if record.FriendlyName == nameOrID {
			return record.ID, nil
		}
	}

	return nameOrID, nil
}

// CreateClient builds a Graph client from the effective configuration.
// Construction performs no network calls unless a static access token is
// configured, which connects immediately.
func CreateClient() (graph.Client, error) {
	config, err := clientConfigFromViper()
	if err != nil {
		return nil, err
	}

	client, err := graphclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// CreateSessionClient builds a client and ensures it has a tenant session,
// reusing the configured credential material or static token for the
// configured tenant.
func CreateSessionClient(ctx context.Context) (graph.Client, error) {
	config, err := clientConfigFromViper()
	if err != nil {
		return nil, err
	}

	client, err := graphclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	// A static token session is already established at construction.
	if client.CurrentTenant() != "" {
		return client, nil
	}

	if config.TenantID == "" {
		return nil, ErrNoCurrentTenant
	}

	err = client.SwitchTenant(ctx, config.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to establish session for tenant %s: %w", config.TenantID, err)
	}

	return client, nil
}

// StandardJSONRenderer writes data to stdout as indented JSON.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data to stdout as YAML.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderPagingHint prints the follow-up hint when a listing stopped at the
// first page and the response carries a continuation link.
func renderPagingHint(nextLink string, allPages bool) {
	if allPages || nextLink == "" {
		return
	}

	_, _ = os.Stdout.WriteString("\nMore results are available. Use --all to fetch all pages.\n")
}

// promptSecret reads a secret from the terminal without echo.
func promptSecret(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", ErrSecretNotTerminal
	}

	fmt.Printf("%s: ", label)

	raw, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// formatValue substitutes the not-available marker for empty strings in
// table cells.
func formatValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// formatTime renders a timestamp for table cells.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format("2006-01-02 15:04:05")
}

// formatBoolPtr renders an optional boolean for table cells.
func formatBoolPtr(value *bool) string {
	if value == nil {
		return constants.NotAvailable
	}

	if *value {
		return "true"
	}

	return "false"
}
