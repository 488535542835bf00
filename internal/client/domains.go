package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// DomainsClient implements graph.DomainsClient.
type DomainsClient struct {
	httpClient *internalhttp.Client
}

// NewDomainsClient creates a new domains client.
func NewDomainsClient(httpClient *internalhttp.Client) *DomainsClient {
	return &DomainsClient{
		httpClient: httpClient,
	}
}

// List implements graph.DomainsClient.List.
func (c *DomainsClient) List(ctx context.Context) (*graph.DomainList, error) {
	resp, err := c.httpClient.Get(ctx, "/domains", nil)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}

	var list graph.DomainList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing domains list: %w", err)
	}

	return &list, nil
}

// Get implements graph.DomainsClient.Get. The id is the domain name.
func (c *DomainsClient) Get(ctx context.Context, id string) (*graph.Domain, error) {
	path := "/domains/" + url.PathEscape(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting domain: %w", err)
	}

	var domain graph.Domain

	err = json.Unmarshal(resp.Body, &domain)
	if err != nil {
		return nil, fmt.Errorf("parsing domain: %w", err)
	}

	return &domain, nil
}
