package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// GroupsClient implements graph.GroupsClient.
type GroupsClient struct {
	httpClient *internalhttp.Client
}

// NewGroupsClient creates a new groups client.
func NewGroupsClient(httpClient *internalhttp.Client) *GroupsClient {
	return &GroupsClient{
		httpClient: httpClient,
	}
}

// List implements graph.GroupsClient.List.
func (c *GroupsClient) List(ctx context.Context, params *graph.QueryParams) (*graph.GroupList, error) {
	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/groups", queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	var list graph.GroupList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing groups list: %w", err)
	}

	return &list, nil
}

// ListAll implements graph.GroupsClient.ListAll.
func (c *GroupsClient) ListAll(ctx context.Context, params *graph.QueryParams) ([]graph.Group, error) {
	groups, err := graph.FetchAllPages(ctx, pageFetcher[graph.Group]{httpClient: c.httpClient}, "/groups", params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing all groups: %w", err)
	}

	return groups, nil
}

// Get implements graph.GroupsClient.Get.
func (c *GroupsClient) Get(ctx context.Context, id string) (*graph.Group, error) {
	path := "/groups/" + url.PathEscape(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting group: %w", err)
	}

	var group graph.Group

	err = json.Unmarshal(resp.Body, &group)
	if err != nil {
		return nil, fmt.Errorf("parsing group: %w", err)
	}

	return &group, nil
}

// Members implements graph.GroupsClient.Members. Membership collections
// page like any other, so all continuation links are followed.
func (c *GroupsClient) Members(ctx context.Context, id string, params *graph.QueryParams) ([]graph.DirectoryObject, error) {
	path := "/groups/" + url.PathEscape(id) + "/members"

	members, err := graph.FetchAllPages(ctx, pageFetcher[graph.DirectoryObject]{httpClient: c.httpClient}, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}

	return members, nil
}
