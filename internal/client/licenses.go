package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// LicensesClient implements graph.LicensesClient.
type LicensesClient struct {
	httpClient *internalhttp.Client
}

// NewLicensesClient creates a new licenses client.
func NewLicensesClient(httpClient *internalhttp.Client) *LicensesClient {
	return &LicensesClient{
		httpClient: httpClient,
	}
}

// List implements graph.LicensesClient.List.
func (c *LicensesClient) List(ctx context.Context) (*graph.SubscribedSKUList, error) {
	resp, err := c.httpClient.Get(ctx, "/subscribedSkus", nil)
	if err != nil {
		return nil, fmt.Errorf("listing subscribed SKUs: %w", err)
	}

	var list graph.SubscribedSKUList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing subscribed SKUs list: %w", err)
	}

	return &list, nil
}
