package graph

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams builds OData query options for list requests.
type QueryParams struct {
	Filter  string
	Search  string
	Select  []string
	Expand  []string
	OrderBy []string
	Top     int
	Skip    int
	Count   bool
	Raw     map[string]string
}

// NewQueryParams creates an empty parameter set.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithFilter sets the $filter expression.
func (q *QueryParams) WithFilter(expr string) *QueryParams {
	q.Filter = expr

	return q
}

// WithSearch sets the $search expression. Search requires the eventual
// consistency level, which the request layer sends on every call.
func (q *QueryParams) WithSearch(expr string) *QueryParams {
	q.Search = expr

	return q
}

// WithSelect adds projected properties.
func (q *QueryParams) WithSelect(fields ...string) *QueryParams {
	q.Select = append(q.Select, fields...)

	return q
}

// WithExpand adds expanded relationships.
func (q *QueryParams) WithExpand(relations ...string) *QueryParams {
	q.Expand = append(q.Expand, relations...)

	return q
}

// WithOrderBy adds ordering clauses.
func (q *QueryParams) WithOrderBy(clauses ...string) *QueryParams {
	q.OrderBy = append(q.OrderBy, clauses...)

	return q
}

// WithTop sets the page size.
func (q *QueryParams) WithTop(n int) *QueryParams {
	q.Top = n

	return q
}

// WithSkip sets the number of items to skip.
func (q *QueryParams) WithSkip(n int) *QueryParams {
	q.Skip = n

	return q
}

// WithCount requests an @odata.count annotation on the response.
func (q *QueryParams) WithCount() *QueryParams {
	q.Count = true

	return q
}

// WithRaw sets an arbitrary query option verbatim.
func (q *QueryParams) WithRaw(key, value string) *QueryParams {
	if q.Raw == nil {
		q.Raw = make(map[string]string)
	}

	q.Raw[key] = value

	return q
}

// ToValues renders the parameters as URL query values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Filter != "" {
		values.Set("$filter", q.Filter)
	}

	if q.Search != "" {
		values.Set("$search", q.Search)
	}

	if len(q.Select) > 0 {
		values.Set("$select", strings.Join(q.Select, ","))
	}

	if len(q.Expand) > 0 {
		values.Set("$expand", strings.Join(q.Expand, ","))
	}

	if len(q.OrderBy) > 0 {
		values.Set("$orderby", strings.Join(q.OrderBy, ","))
	}

	if q.Top > 0 {
		values.Set("$top", strconv.Itoa(q.Top))
	}

	if q.Skip > 0 {
		values.Set("$skip", strconv.Itoa(q.Skip))
	}

	if q.Count {
		values.Set("$count", "true")
	}

	for key, value := range q.Raw {
		values.Set(key, value)
	}

	return values
}
