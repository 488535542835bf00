package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
)

// ExecuteBatch packs the items into physical batch calls of at most
// MaxBatchItems requests each and returns one result per item, in item
// order. Results are correlated by id, never by position; an individual
// failed item surfaces in its result, not as a call error.
func (c *Client) ExecuteBatch(ctx context.Context, items []graph.BatchItem) ([]graph.BatchResult, error) {
	normalized := make([]graph.BatchItem, len(items))
	for i, item := range items {
		normalized[i] = graph.NormalizeBatchItem(item)
	}

	err := graph.ValidateBatchItems(normalized)
	if err != nil {
		return nil, err
	}

	results := make([]graph.BatchResult, 0, len(normalized))

	for start := 0; start < len(normalized); start += constants.MaxBatchItems {
		end := start + constants.MaxBatchItems
		if end > len(normalized) {
			end = len(normalized)
		}

		chunk, err := c.executeBatchChunk(ctx, normalized[start:end])
		if err != nil {
			return nil, err
		}

		results = append(results, chunk...)
	}

	return results, nil
}

// executeBatchChunk submits one physical batch call and reorders the
// responses back into request order.
func (c *Client) executeBatchChunk(ctx context.Context, chunk []graph.BatchItem) ([]graph.BatchResult, error) {
	resp, err := c.httpClient.Post(ctx, constants.BatchEndpoint, &graph.BatchRequest{Requests: chunk})
	if err != nil {
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	var envelope graph.BatchResponse

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}

	requested := make(map[string]struct{}, len(chunk))
	for _, item := range chunk {
		requested[item.ID] = struct{}{}
	}

	byID := make(map[string]graph.BatchResult, len(envelope.Responses))

	for _, result := range envelope.Responses {
		if _, ok := requested[result.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", graph.ErrBatchUnmatchedID, result.ID)
		}

		byID[result.ID] = result
	}

	ordered := make([]graph.BatchResult, 0, len(chunk))

	for _, item := range chunk {
		result, ok := byID[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", graph.ErrBatchMissingResult, item.ID)
		}

		ordered = append(ordered, result)
	}

	return ordered, nil
}
