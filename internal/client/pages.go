package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// pageFetcher adapts the HTTP client to the generic page-fetching seam for
// one item type. The first call carries the collection path and rendered
// query; continuation links replay verbatim.
type pageFetcher[T any] struct {
	httpClient *internalhttp.Client
}

func (f pageFetcher[T]) FetchPage(ctx context.Context, pathOrLink string, params *graph.QueryParams) (*graph.ListResponse[T], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := f.httpClient.Get(ctx, pathOrLink, query)
	if err != nil {
		return nil, err
	}

	var page graph.ListResponse[T]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing collection page: %w", err)
	}

	return &page, nil
}
