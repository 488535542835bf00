package graph

import (
	"context"
	"errors"
	"fmt"
)

// PageFetcher fetches one page of a collection. The first call receives
// the collection path; subsequent calls receive the @odata.nextLink of
// the previous page verbatim, with nil params, because a continuation
// link already carries its own query string.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, pathOrLink string, params *QueryParams) (*ListResponse[T], error)
}

// PaginationOptions bound a multi-page fetch.
type PaginationOptions struct {
	// PageSize requests this many items per page via $top.
	PageSize int

	// MaxPages stops following continuation links after this many
	// pages. Zero means no cap.
	MaxPages int
}

// PaginationIterator walks a collection item by item, fetching pages
// lazily as the caller advances.
type PaginationIterator[T any] struct {
	ctx      context.Context
	client   PageFetcher[T]
	path     string
	params   *QueryParams
	buffer   []T
	nextLink string
	started  bool
}

// NewPaginationIterator creates an iterator over the collection at path.
func NewPaginationIterator[T any](ctx context.Context, client PageFetcher[T], path string, params *QueryParams) *PaginationIterator[T] {
	return &PaginationIterator[T]{
		ctx:    ctx,
		client: client,
		path:   path,
		params: params,
	}
}

// HasNext reports whether more items may be available. It never
// performs a fetch, so it can report true for a collection that turns
// out to be empty; Next then returns ErrNoMoreItems.
func (it *PaginationIterator[T]) HasNext() bool {
	return len(it.buffer) > 0 || !it.started || it.nextLink != ""
}

// Next returns the next item, fetching the next page when the current
// one is exhausted.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	for len(it.buffer) == 0 {
		if it.started && it.nextLink == "" {
			return zero, ErrNoMoreItems
		}

		err := it.fetch()
		if err != nil {
			return zero, err
		}
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

func (it *PaginationIterator[T]) fetch() error {
	var (
		page *ListResponse[T]
		err  error
	)

	if it.started {
		page, err = it.client.FetchPage(it.ctx, it.nextLink, nil)
	} else {
		page, err = it.client.FetchPage(it.ctx, it.path, it.params)
	}

	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	it.started = true
	it.buffer = append(it.buffer, page.Value...)
	it.nextLink = page.NextLink

	return nil
}

// All drains the iterator and returns every remaining item.
func (it *PaginationIterator[T]) All() ([]T, error) {
	items := make([]T, 0)

	for it.HasNext() {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			break
		}

		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping on the first error.
func (it *PaginationIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			break
		}

		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// FetchAllPages follows continuation links and returns the concatenated
// items. The MaxPages cap is applied after the current page's items are
// appended, so a capped fetch still keeps everything it paid for.
func FetchAllPages[T any](ctx context.Context, client PageFetcher[T], path string, params *QueryParams, options *PaginationOptions) ([]T, error) {
	if options == nil {
		options = &PaginationOptions{}
	}

	if options.PageSize > 0 {
		merged := NewQueryParams()
		if params != nil {
			*merged = *params
		}

		merged.Top = options.PageSize
		params = merged
	}

	items := make([]T, 0)
	pathOrLink := path
	pages := 0

	for {
		var (
			page *ListResponse[T]
			err  error
		)

		if pages == 0 {
			page, err = client.FetchPage(ctx, pathOrLink, params)
		} else {
			page, err = client.FetchPage(ctx, pathOrLink, nil)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", pages+1, err)
		}

		items = append(items, page.Value...)
		pages++

		if options.MaxPages > 0 && pages >= options.MaxPages {
			break
		}

		if page.NextLink == "" {
			break
		}

		pathOrLink = page.NextLink
	}

	return items, nil
}
