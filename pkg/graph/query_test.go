package graph_test

import (
	"net/url"
	"testing"

	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *graph.QueryParams
		expected url.Values
	}{
		{
			name:     "empty params",
			params:   graph.NewQueryParams(),
			expected: url.Values{},
		},
		{
			name: "with filter",
			params: &graph.QueryParams{
				Filter: "accountEnabled eq true",
			},
			expected: url.Values{
				"$filter": []string{"accountEnabled eq true"},
			},
		},
		{
			name: "with search",
			params: &graph.QueryParams{
				Search: `"displayName:engineering"`,
			},
			expected: url.Values{
				"$search": []string{`"displayName:engineering"`},
			},
		},
		{
			name: "with select",
			params: &graph.QueryParams{
				Select: []string{"id", "displayName", "userPrincipalName"},
			},
			expected: url.Values{
				"$select": []string{"id,displayName,userPrincipalName"},
			},
		},
		{
			name: "with expand",
			params: &graph.QueryParams{
				Expand: []string{"members", "owners"},
			},
			expected: url.Values{
				"$expand": []string{"members,owners"},
			},
		},
		{
			name: "with ordering",
			params: &graph.QueryParams{
				OrderBy: []string{"displayName desc"},
			},
			expected: url.Values{
				"$orderby": []string{"displayName desc"},
			},
		},
		{
			name: "with paging",
			params: &graph.QueryParams{
				Top:  50,
				Skip: 100,
			},
			expected: url.Values{
				"$top":  []string{"50"},
				"$skip": []string{"100"},
			},
		},
		{
			name: "with count",
			params: &graph.QueryParams{
				Count: true,
			},
			expected: url.Values{
				"$count": []string{"true"},
			},
		},
		{
			name: "with raw option",
			params: &graph.QueryParams{
				Raw: map[string]string{"$format": "json"},
			},
			expected: url.Values{
				"$format": []string{"json"},
			},
		},
		{
			name: "with all options",
			params: &graph.QueryParams{
				Filter:  "userType eq 'Member'",
				Search:  `"mail:admin"`,
				Select:  []string{"id", "mail"},
				Expand:  []string{"manager"},
				OrderBy: []string{"mail"},
				Top:     25,
				Skip:    5,
				Count:   true,
				Raw:     map[string]string{"$skiptoken": "X%2744"},
			},
			expected: url.Values{
				"$filter":    []string{"userType eq 'Member'"},
				"$search":    []string{`"mail:admin"`},
				"$select":    []string{"id,mail"},
				"$expand":    []string{"manager"},
				"$orderby":   []string{"mail"},
				"$top":       []string{"25"},
				"$skip":      []string{"5"},
				"$count":     []string{"true"},
				"$skiptoken": []string{"X%2744"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.params.ToValues()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestQueryParams_Builders(t *testing.T) {
	t.Parallel()
	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		params := graph.NewQueryParams().
			WithFilter("accountEnabled eq true").
			WithSearch(`"displayName:ops"`).
			WithSelect("id", "displayName").
			WithExpand("memberOf").
			WithOrderBy("displayName").
			WithTop(10).
			WithSkip(20).
			WithCount().
			WithRaw("$skiptoken", "abc")

		values := params.ToValues()

		assert.Equal(t, "accountEnabled eq true", values.Get("$filter"))
		assert.Equal(t, `"displayName:ops"`, values.Get("$search"))
		assert.Equal(t, "id,displayName", values.Get("$select"))
		assert.Equal(t, "memberOf", values.Get("$expand"))
		assert.Equal(t, "displayName", values.Get("$orderby"))
		assert.Equal(t, "10", values.Get("$top"))
		assert.Equal(t, "20", values.Get("$skip"))
		assert.Equal(t, "true", values.Get("$count"))
		assert.Equal(t, "abc", values.Get("$skiptoken"))
	})

	t.Run("WithSelect appends", func(t *testing.T) {
		t.Parallel()

		params := graph.NewQueryParams().
			WithSelect("id").
			WithSelect("displayName", "mail")

		assert.Equal(t, []string{"id", "displayName", "mail"}, params.Select)
	})

	t.Run("WithOrderBy appends", func(t *testing.T) {
		t.Parallel()

		params := graph.NewQueryParams().
			WithOrderBy("displayName").
			WithOrderBy("createdDateTime desc")

		assert.Equal(t, []string{"displayName", "createdDateTime desc"}, params.OrderBy)
	})
}

func TestQueryParams_NilReceiver(t *testing.T) {
	t.Parallel()

	var params *graph.QueryParams

	values := params.ToValues()

	assert.NotNil(t, values)
	assert.Empty(t, values)
}
