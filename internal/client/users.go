package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// UsersClient implements graph.UsersClient.
type UsersClient struct {
	httpClient *internalhttp.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *internalhttp.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// List implements graph.UsersClient.List. It returns a single page; the
// NextLink field carries the continuation link when more remain.
func (c *UsersClient) List(ctx context.Context, params *graph.QueryParams) (*graph.UserList, error) {
	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/users", queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var list graph.UserList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing users list: %w", err)
	}

	return &list, nil
}

// ListAll implements graph.UsersClient.ListAll.
func (c *UsersClient) ListAll(ctx context.Context, params *graph.QueryParams) ([]graph.User, error) {
	users, err := graph.FetchAllPages(ctx, pageFetcher[graph.User]{httpClient: c.httpClient}, "/users", params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing all users: %w", err)
	}

	return users, nil
}

// Get implements graph.UsersClient.Get. The id may be an object id or a
// userPrincipalName.
func (c *UsersClient) Get(ctx context.Context, id string) (*graph.User, error) {
	path := "/users/" + url.PathEscape(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	var user graph.User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user: %w", err)
	}

	return &user, nil
}

// Create implements graph.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, request *graph.CreateUserRequest) (*graph.User, error) {
	resp, err := c.httpClient.Post(ctx, "/users", request)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	var user graph.User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Update implements graph.UsersClient.Update. The API answers a successful
// update with 204 No Content, so there is no body to parse.
func (c *UsersClient) Update(ctx context.Context, id string, update map[string]interface{}) error {
	path := "/users/" + url.PathEscape(id)

	_, err := c.httpClient.Patch(ctx, path, update)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

// Delete implements graph.UsersClient.Delete.
func (c *UsersClient) Delete(ctx context.Context, id string) error {
	path := "/users/" + url.PathEscape(id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	return nil
}
