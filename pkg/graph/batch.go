package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BatchItem is a single request inside a $batch call. IDs must be
// unique within one submitted batch; results are correlated by ID, not
// by position.
type BatchItem struct {
	ID        string            `json:"id"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty"`
	DependsOn []string          `json:"dependsOn,omitempty"`
}

// BatchRequest is the wire envelope for a $batch call.
type BatchRequest struct {
	Requests []BatchItem `json:"requests"`
}

// BatchResult is the outcome of one batch item. A failed item does not
// fail the batch; callers inspect each result.
type BatchResult struct {
	ID      string            `json:"id"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

// BatchResponse is the wire envelope of a $batch response.
type BatchResponse struct {
	Responses []BatchResult `json:"responses"`
}

// Succeeded reports whether the item completed with a 2xx status.
func (r *BatchResult) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300
}

// Err returns a RequestError describing a failed item, or nil when the
// item succeeded.
func (r *BatchResult) Err() error {
	if r.Succeeded() {
		return nil
	}

	return NewRequestError(r.Status, "batch item "+r.ID, r.Body)
}

// Decode unmarshals the item body into out.
func (r *BatchResult) Decode(out interface{}) error {
	return json.Unmarshal(r.Body, out)
}

// BatchBuilder helps assemble batch items with sequential IDs.
type BatchBuilder struct {
	items  []BatchItem
	nextID int
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		items:  make([]BatchItem, 0),
		nextID: 1,
	}
}

// nextIDString returns the next sequential item ID.
func (b *BatchBuilder) nextIDString() string {
	id := strconv.Itoa(b.nextID)
	b.nextID++

	return id
}

// AddGet adds a GET item and returns its assigned ID.
func (b *BatchBuilder) AddGet(url string) string {
	return b.add("GET", url, nil)
}

// AddPost adds a POST item with a JSON body and returns its assigned ID.
func (b *BatchBuilder) AddPost(url string, body interface{}) string {
	return b.add("POST", url, body)
}

// AddPatch adds a PATCH item with a JSON body and returns its assigned ID.
func (b *BatchBuilder) AddPatch(url string, body interface{}) string {
	return b.add("PATCH", url, body)
}

// AddDelete adds a DELETE item and returns its assigned ID.
func (b *BatchBuilder) AddDelete(url string) string {
	return b.add("DELETE", url, nil)
}

func (b *BatchBuilder) add(method, url string, body interface{}) string {
	id := b.nextIDString()

	item := BatchItem{
		ID:     id,
		Method: method,
		URL:    url,
		Body:   body,
	}

	if body != nil {
		item.Headers = map[string]string{"Content-Type": "application/json"}
	}

	b.items = append(b.items, item)

	return id
}

// AddItem adds a fully specified item. An empty ID is assigned the next
// sequential one.
func (b *BatchBuilder) AddItem(item BatchItem) *BatchBuilder {
	if item.ID == "" {
		item.ID = b.nextIDString()
	}

	b.items = append(b.items, item)

	return b
}

// DependOn marks the most recently added item as dependent on the
// given item IDs, forcing the service to sequence them.
func (b *BatchBuilder) DependOn(ids ...string) *BatchBuilder {
	if len(b.items) > 0 {
		last := &b.items[len(b.items)-1]
		last.DependsOn = append(last.DependsOn, ids...)
	}

	return b
}

// Build returns the assembled items.
func (b *BatchBuilder) Build() []BatchItem {
	return b.items
}

// NormalizeBatchItem prepares an item for submission: the URL is made
// relative with a single leading slash and JSON bodies get an explicit
// content type.
func NormalizeBatchItem(item BatchItem) BatchItem {
	if !strings.HasPrefix(item.URL, "/") {
		item.URL = "/" + item.URL
	}

	if item.Body != nil {
		if item.Headers == nil {
			item.Headers = map[string]string{}
		}

		if item.Headers["Content-Type"] == "" {
			item.Headers["Content-Type"] = "application/json"
		}
	}

	return item
}

// ValidateBatchItems rejects empty batches and duplicate item IDs.
func ValidateBatchItems(items []BatchItem) error {
	if len(items) == 0 {
		return ErrBatchEmpty
	}

	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("%w: %s", ErrBatchIDCollision, item.ID)
		}

		seen[item.ID] = struct{}{}
	}

	return nil
}
