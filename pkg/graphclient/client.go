// Package graphclient provides the main entry point for creating Microsoft Graph API clients
package graphclient

import (
	"context"
	"fmt"

	"github.com/graphops-io/tenantctl/internal/client"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// New creates a new Graph API client from configuration. Construction never
// performs a network call: credential material named in the config is
// retained for its tenant and used on the first session operation that
// needs it.
func New(config *graph.Config) (graph.Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	newClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return newClient, nil
}

// NewWithToken creates a client that serves a pre-acquired access token for
// the tenant. The token is used as-is and cannot be refreshed.
func NewWithToken(tenantID, accessToken string) (graph.Client, error) {
	return New(&graph.Config{
		TenantID:    tenantID,
		AccessToken: accessToken,
	})
}

// NewWithClientSecret creates a client and establishes a session for the
// tenant using the client-credentials flow.
func NewWithClientSecret(ctx context.Context, tenantID, clientID, clientSecret string) (graph.Client, error) {
	return connect(ctx, tenantID, graph.ClientSecret(clientID, clientSecret))
}

// NewWithCertificate creates a client and establishes a session for the
// tenant using a client assertion signed with the PFX bundle's key.
func NewWithCertificate(ctx context.Context, tenantID, clientID, pfxPath, pfxPassword string) (graph.Client, error) {
	return connect(ctx, tenantID, graph.Certificate(clientID, pfxPath, pfxPassword))
}

// NewWithDeviceCode creates a client and establishes a session for the
// tenant using the device-code flow. The prompt func receives the user code
// and verification URI once the flow starts; the call blocks until the user
// completes sign-in, the code expires, or ctx is cancelled.
func NewWithDeviceCode(ctx context.Context, tenantID, clientID string, prompt graph.DeviceCodePromptFunc) (graph.Client, error) {
	return connect(ctx, tenantID, graph.DeviceCode(clientID, prompt))
}

func connect(ctx context.Context, tenantID string, material graph.CredentialMaterial) (graph.Client, error) {
	newClient, err := New(&graph.Config{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	err = newClient.Connect(ctx, tenantID, material)
	if err != nil {
		return nil, fmt.Errorf("failed to establish tenant session: %w", err)
	}

	return newClient, nil
}
