package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/graphops-io/tenantctl/internal/client"
	internalhttp "github.com/graphops-io/tenantctl/internal/http"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.0/organization", request.URL.Path)
		assert.Equal(t, "GET", request.Method)

		response := graph.ListResponse[graph.Organization]{
			Value: []graph.Organization{
				{
					DirectoryObject:   graph.DirectoryObject{ID: "tenant-1"},
					DisplayName:       "Contoso Ltd",
					TenantType:        "AAD",
					CountryLetterCode: "US",
					VerifiedDomains: []graph.VerifiedDomain{
						{Name: "contoso.com", IsDefault: true, Type: "Managed"},
					},
				},
			},
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	organization := NewOrganizationClient(httpClient)

	org, err := organization.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", org.ID)
	assert.Equal(t, "Contoso Ltd", org.DisplayName)
	require.Len(t, org.VerifiedDomains, 1)
	assert.True(t, org.VerifiedDomains[0].IsDefault)
}

func TestOrganizationClient_Get_RecoversFromThrottling(t *testing.T) {
	t.Parallel()

	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls++
		if calls == 1 {
			writer.Header().Set("Retry-After", "1")
			writer.WriteHeader(http.StatusTooManyRequests)

			return
		}

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"value":[{"id":"tenant-1","displayName":"Contoso Ltd"}]}`))
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	organization := NewOrganizationClient(httpClient)

	start := time.Now()

	org, err := organization.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Contoso Ltd", org.DisplayName)

	// The throttled attempt waits out the advertised Retry-After before the
	// second call.
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestOrganizationClient_Get_EmptyCollection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"value":[]}`))
	}))
	defer server.Close()

	httpClient := internalhttp.NewClient(server.URL, nil)
	organization := NewOrganizationClient(httpClient)

	_, err := organization.Get(context.Background())
	require.ErrorIs(t, err, graph.ErrOrganizationEmpty)
}
