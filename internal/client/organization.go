package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// OrganizationClient implements graph.OrganizationClient.
type OrganizationClient struct {
	httpClient *internalhttp.Client
}

// NewOrganizationClient creates a new organization client.
func NewOrganizationClient(httpClient *internalhttp.Client) *OrganizationClient {
	return &OrganizationClient{
		httpClient: httpClient,
	}
}

// Get implements graph.OrganizationClient.Get. The API exposes the
// organization as a single-element collection.
func (c *OrganizationClient) Get(ctx context.Context) (*graph.Organization, error) {
	resp, err := c.httpClient.Get(ctx, "/organization", nil)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	var list graph.ListResponse[graph.Organization]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing organization: %w", err)
	}

	if len(list.Value) == 0 {
		return nil, graph.ErrOrganizationEmpty
	}

	return &list.Value[0], nil
}
