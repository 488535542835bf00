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

func TestGroupsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/groups", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "displayName,mail", request.URL.Query().Get("$select"))

		mailEnabled := true
		response := graph.GroupList{
			Value: []graph.Group{
				{
					DirectoryObject: graph.DirectoryObject{ID: "group-1"},
					DisplayName:     "Sales Team",
					Mail:            "sales@contoso.com",
					MailEnabled:     &mailEnabled,
					GroupTypes:      []string{"Unified"},
				},
			},
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	groups := NewGroupsClient(httpClient)

	params := graph.NewQueryParams().WithSelect("displayName", "mail")

	list, err := groups.List(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, list.Value, 1)
	assert.Equal(t, "Sales Team", list.Value[0].DisplayName)
	assert.Equal(t, []string{"Unified"}, list.Value[0].GroupTypes)
}

func TestGroupsClient_ListAll(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/groups", request.URL.Path)

		response := graph.GroupList{}

		if request.URL.Query().Get("$skiptoken") == "" {
			response.NextLink = server.URL + "/v1.0/groups?$skiptoken=page2"
			response.Value = []graph.Group{
				{DirectoryObject: graph.DirectoryObject{ID: "group-1"}, DisplayName: "First"},
			}
		} else {
			response.Value = []graph.Group{
				{DirectoryObject: graph.DirectoryObject{ID: "group-2"}, DisplayName: "Second"},
			}
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	groups := NewGroupsClient(httpClient)

	all, err := groups.ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "group-2", all[1].ID)
}

func TestGroupsClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/groups/group-1", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		securityEnabled := true
		group := graph.Group{
			DirectoryObject: graph.DirectoryObject{ID: "group-1"},
			DisplayName:     "Platform Admins",
			Description:     "Operators with directory-wide rights",
			SecurityEnabled: &securityEnabled,
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(group)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	groups := NewGroupsClient(httpClient)

	group, err := groups.Get(context.Background(), "group-1")
	require.NoError(t, err)
	assert.Equal(t, "Platform Admins", group.DisplayName)
	require.NotNil(t, group.SecurityEnabled)
	assert.True(t, *group.SecurityEnabled)
}

func TestGroupsClient_Members(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/groups/group-1/members", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		response := graph.ListResponse[graph.DirectoryObject]{}

		if request.URL.Query().Get("$skiptoken") == "" {
			response.NextLink = server.URL + "/v1.0/groups/group-1/members?$skiptoken=page2"
			response.Value = []graph.DirectoryObject{{ID: "member-1"}, {ID: "member-2"}}
		} else {
			response.Value = []graph.DirectoryObject{{ID: "member-3"}}
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	groups := NewGroupsClient(httpClient)

	members, err := groups.Members(context.Background(), "group-1", nil)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "member-1", members[0].ID)
	assert.Equal(t, "member-3", members[2].ID)
}
