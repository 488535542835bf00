package graph_test

import (
	"encoding/json"
	"testing"

	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchBuilder(t *testing.T) {
	t.Parallel()

	builder := graph.NewBatchBuilder()

	getID := builder.AddGet("/users?$top=5")
	postID := builder.AddPost("/groups", map[string]interface{}{"displayName": "ops"})
	patchID := builder.AddPatch("/users/123", map[string]interface{}{"jobTitle": "SRE"})
	deleteID := builder.AddDelete("/users/456")

	items := builder.Build()
	require.Len(t, items, 4)

	assert.Equal(t, "1", getID)
	assert.Equal(t, "2", postID)
	assert.Equal(t, "3", patchID)
	assert.Equal(t, "4", deleteID)

	assert.Equal(t, "GET", items[0].Method)
	assert.Equal(t, "/users?$top=5", items[0].URL)
	assert.Nil(t, items[0].Headers)

	assert.Equal(t, "POST", items[1].Method)
	assert.Equal(t, "application/json", items[1].Headers["Content-Type"])

	assert.Equal(t, "PATCH", items[2].Method)
	assert.Equal(t, "DELETE", items[3].Method)
}

func TestBatchBuilder_DependOn(t *testing.T) {
	t.Parallel()

	builder := graph.NewBatchBuilder()

	createID := builder.AddPost("/groups", map[string]interface{}{"displayName": "ops"})
	builder.AddGet("/groups")
	builder.DependOn(createID)

	items := builder.Build()
	require.Len(t, items, 2)
	assert.Equal(t, []string{createID}, items[1].DependsOn)
}

func TestBatchBuilder_AddItem(t *testing.T) {
	t.Parallel()

	builder := graph.NewBatchBuilder()
	builder.AddItem(graph.BatchItem{Method: "GET", URL: "/organization"})
	builder.AddItem(graph.BatchItem{ID: "custom", Method: "GET", URL: "/domains"})

	items := builder.Build()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "custom", items[1].ID)
}

func TestValidateBatchItems(t *testing.T) {
	t.Parallel()

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		err := graph.ValidateBatchItems(nil)
		assert.ErrorIs(t, err, graph.ErrBatchEmpty)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		t.Parallel()

		err := graph.ValidateBatchItems([]graph.BatchItem{
			{ID: "1", Method: "GET", URL: "/users"},
			{ID: "1", Method: "GET", URL: "/groups"},
		})
		assert.ErrorIs(t, err, graph.ErrBatchIDCollision)
	})

	t.Run("unique ids", func(t *testing.T) {
		t.Parallel()

		err := graph.ValidateBatchItems([]graph.BatchItem{
			{ID: "1", Method: "GET", URL: "/users"},
			{ID: "2", Method: "GET", URL: "/groups"},
		})
		assert.NoError(t, err)
	})
}

func TestNormalizeBatchItem(t *testing.T) {
	t.Parallel()

	t.Run("adds leading slash", func(t *testing.T) {
		t.Parallel()

		item := graph.NormalizeBatchItem(graph.BatchItem{ID: "1", Method: "GET", URL: "users"})
		assert.Equal(t, "/users", item.URL)
	})

	t.Run("adds content type for bodies", func(t *testing.T) {
		t.Parallel()

		item := graph.NormalizeBatchItem(graph.BatchItem{
			ID:     "1",
			Method: "POST",
			URL:    "/groups",
			Body:   map[string]interface{}{"displayName": "ops"},
		})
		assert.Equal(t, "application/json", item.Headers["Content-Type"])
	})

	t.Run("preserves caller headers", func(t *testing.T) {
		t.Parallel()

		item := graph.NormalizeBatchItem(graph.BatchItem{
			ID:      "1",
			Method:  "POST",
			URL:     "/groups",
			Body:    map[string]interface{}{},
			Headers: map[string]string{"Content-Type": "application/json; charset=utf-8"},
		})
		assert.Equal(t, "application/json; charset=utf-8", item.Headers["Content-Type"])
	})
}

func TestBatchResult_Succeeded(t *testing.T) {
	t.Parallel()

	assert.True(t, (&graph.BatchResult{Status: 200}).Succeeded())
	assert.True(t, (&graph.BatchResult{Status: 204}).Succeeded())
	assert.False(t, (&graph.BatchResult{Status: 404}).Succeeded())
	assert.False(t, (&graph.BatchResult{Status: 500}).Succeeded())
}

func TestBatchResult_Err(t *testing.T) {
	t.Parallel()

	t.Run("success yields nil", func(t *testing.T) {
		t.Parallel()

		result := &graph.BatchResult{ID: "1", Status: 200}
		assert.NoError(t, result.Err())
	})

	t.Run("failure yields request error with odata detail", func(t *testing.T) {
		t.Parallel()

		result := &graph.BatchResult{
			ID:     "3",
			Status: 404,
			Body:   json.RawMessage(`{"error":{"code":"Request_ResourceNotFound","message":"gone"}}`),
		}

		err := result.Err()
		require.Error(t, err)

		reqErr := &graph.RequestError{}
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, 404, reqErr.StatusCode)
		assert.Equal(t, "batch item 3", reqErr.Endpoint)
		require.NotNil(t, reqErr.OData)
		assert.Equal(t, "Request_ResourceNotFound", reqErr.OData.Code)
	})
}

func TestBatchResult_Decode(t *testing.T) {
	t.Parallel()

	result := &graph.BatchResult{
		ID:     "1",
		Status: 200,
		Body:   json.RawMessage(`{"id":"42","displayName":"Ada"}`),
	}

	var user graph.User
	require.NoError(t, result.Decode(&user))
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "Ada", user.DisplayName)
}

func TestBatchEnvelopes_Marshal(t *testing.T) {
	t.Parallel()

	request := graph.BatchRequest{
		Requests: []graph.BatchItem{
			{ID: "1", Method: "GET", URL: "/users"},
		},
	}

	data, err := json.Marshal(request)
	require.NoError(t, err)
	assert.JSONEq(t, `{"requests":[{"id":"1","method":"GET","url":"/users"}]}`, string(data))

	var response graph.BatchResponse
	err = json.Unmarshal([]byte(`{"responses":[{"id":"1","status":200,"body":{"value":[]}}]}`), &response)
	require.NoError(t, err)
	require.Len(t, response.Responses, 1)
	assert.Equal(t, "1", response.Responses[0].ID)
	assert.Equal(t, 200, response.Responses[0].Status)
}
