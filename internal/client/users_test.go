package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/graphops-io/tenantctl/internal/client"
	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/users", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "startsWith(displayName,'Ad')", request.URL.Query().Get("$filter"))
		assert.Equal(t, "2", request.URL.Query().Get("$top"))
		assert.Equal(t, "eventual", request.Header.Get("ConsistencyLevel"))

		enabled := true
		response := graph.UserList{
			Context:  "https://graph.example.com/v1.0/$metadata#users",
			NextLink: "https://graph.example.com/v1.0/users?$skiptoken=page2",
			Value: []graph.User{
				{
					DirectoryObject:   graph.DirectoryObject{ID: "user-1"},
					DisplayName:       "Adele Vance",
					UserPrincipalName: "adele@contoso.com",
					AccountEnabled:    &enabled,
				},
				{
					DirectoryObject:   graph.DirectoryObject{ID: "user-2"},
					DisplayName:       "Adrian King",
					UserPrincipalName: "adrian@contoso.com",
				},
			},
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	params := graph.NewQueryParams().WithFilter("startsWith(displayName,'Ad')").WithTop(2)

	list, err := users.List(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, list.Value, 2)
	assert.Equal(t, "Adele Vance", list.Value[0].DisplayName)
	assert.NotEmpty(t, list.NextLink)
}

func TestUsersClient_ListAll(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/users", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		response := graph.UserList{}

		if request.URL.Query().Get("$skiptoken") == "" {
			response.NextLink = server.URL + "/v1.0/users?$skiptoken=page2"
			response.Value = []graph.User{
				{DirectoryObject: graph.DirectoryObject{ID: "user-1"}, UserPrincipalName: "one@contoso.com"},
				{DirectoryObject: graph.DirectoryObject{ID: "user-2"}, UserPrincipalName: "two@contoso.com"},
			}
		} else {
			response.Value = []graph.User{
				{DirectoryObject: graph.DirectoryObject{ID: "user-3"}, UserPrincipalName: "three@contoso.com"},
			}
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	all, err := users.ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "user-1", all[0].ID)
	assert.Equal(t, "user-3", all[2].ID)
}

func TestUsersClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/users/adele@contoso.com", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		user := graph.User{
			DirectoryObject:   graph.DirectoryObject{ID: "user-1"},
			DisplayName:       "Adele Vance",
			UserPrincipalName: "adele@contoso.com",
			Mail:              "adele@contoso.com",
			Department:        "Sales",
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(user)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	user, err := users.Get(context.Background(), "adele@contoso.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Sales", user.Department)
}

func TestUsersClient_Get_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"error":{"code":"Request_ResourceNotFound","message":"Resource does not exist."}}`))
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	_, err := users.Get(context.Background(), "missing@contoso.com")
	require.Error(t, err)

	var requestErr *graph.RequestError

	require.ErrorAs(t, err, &requestErr)
	assert.Equal(t, http.StatusNotFound, requestErr.StatusCode)
	assert.Equal(t, graph.KindPermanent, requestErr.Kind)
	require.NotNil(t, requestErr.OData)
	assert.Equal(t, "Request_ResourceNotFound", requestErr.OData.Code)
}

func TestUsersClient_Create(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/users", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		var req graph.CreateUserRequest

		err := json.NewDecoder(request.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "Megan Bowen", req.DisplayName)
		assert.Equal(t, "megan@contoso.com", req.UserPrincipalName)
		assert.True(t, req.PasswordProfile.ForceChangePasswordNextSignIn)

		user := graph.User{
			DirectoryObject:   graph.DirectoryObject{ID: "user-new"},
			DisplayName:       req.DisplayName,
			UserPrincipalName: req.UserPrincipalName,
		}

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(user)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	req := &graph.CreateUserRequest{
		AccountEnabled:    true,
		DisplayName:       "Megan Bowen",
		MailNickname:      "megan",
		UserPrincipalName: "megan@contoso.com",
		PasswordProfile: graph.PasswordProfile{
			Password:                      "xWwvJ]6NMw+bWH-d",
			ForceChangePasswordNextSignIn: true,
		},
	}

	user, err := users.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "user-new", user.ID)
	assert.Equal(t, "Megan Bowen", user.DisplayName)
}

func TestUsersClient_Update(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/users/user-1", request.URL.Path)
		assert.Equal(t, "PATCH", request.Method)

		var update map[string]interface{}

		err := json.NewDecoder(request.Body).Decode(&update)
		assert.NoError(t, err)
		assert.Equal(t, "Engineering", update["department"])

		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	err := users.Update(context.Background(), "user-1", map[string]interface{}{"department": "Engineering"})
	require.NoError(t, err)
}

func TestUsersClient_Delete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/users/user-1", request.URL.Path)
		assert.Equal(t, "DELETE", request.Method)

		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	users := NewUsersClient(httpClient)

	err := users.Delete(context.Background(), "user-1")
	require.NoError(t, err)
}
