package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// pageEnvelope decodes only the pagination fields of a collection response.
// Value is a pointer so a payload without the key can be told apart from an
// empty collection.
type pageEnvelope struct {
	NextLink string             `json:"@odata.nextLink"`
	Value    *[]json.RawMessage `json:"value"`
}

// GetAllPages issues GET requests following continuation links verbatim
// until the collection is exhausted or, when maxPages > 0, that many pages
// have been consumed. Responses carrying a value array contribute their
// elements; any other payload is kept whole as a single item. The request's
// version override applies to the first page only; continuation links are
// absolute and carry their own version.
func (c *Client) GetAllPages(ctx context.Context, req *Request, maxPages int) ([]json.RawMessage, error) {
	items := make([]json.RawMessage, 0)
	pages := 0

	page := &Request{
		Method:  http.MethodGet,
		Path:    req.Path,
		Query:   req.Query,
		Version: req.Version,
	}

	for {
		resp, err := c.Do(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", pages+1, err)
		}

		var envelope pageEnvelope

		err = json.Unmarshal(resp.Body, &envelope)
		if err != nil {
			return nil, fmt.Errorf("failed to decode page %d: %w", pages+1, err)
		}

		if envelope.Value != nil {
			items = append(items, *envelope.Value...)
		} else {
			items = append(items, json.RawMessage(resp.Body))
		}

		// The page cap applies only after the append.
		pages++
		if maxPages > 0 && pages >= maxPages {
			return items, nil
		}

		if envelope.NextLink == "" {
			return items, nil
		}

		page = &Request{Method: http.MethodGet, Path: envelope.NextLink}
	}
}
