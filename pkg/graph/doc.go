// Package graph provides types, interfaces, and helpers for working with
// the Microsoft Graph API across many tenants.
//
// # Overview
//
// The graph package defines the domain types (e.g., Organization, User,
// Group, Domain, SubscribedSKU) and the interfaces that make up a client:
// the tenant session surface (SessionClient), the untyped request surface
// (RawClient), the batch surface (BatchClient), and the typed resource
// clients (UsersClient, GroupsClient, and friends). A concrete
// implementation is provided by the graphclient package, which wires
// configuration, transport, credential flows, retries, and caching. Most
// consumers should import graphclient to construct a client and then
// interact with the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/graphops-io/tenantctl/pkg/graph"
//	  "github.com/graphops-io/tenantctl/pkg/graphclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := graphclient.NewWithClientSecret(ctx, "tenant-id", "client-id", "client-secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of users
//	  users, err := cli.Users().List(ctx, graph.NewQueryParams().WithTop(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Credential flows
//
// Sessions authenticate with exactly one CredentialMaterial variant: client
// secret, certificate, device code, or interactive. Each variant has a
// constructor (ClientSecret, Certificate, CertificatePEM, DeviceCode,
// Interactive); there is no fallback between flows. Acquired credentials
// are cached per tenant and refreshed transparently when a request finds
// them inside the expiry grace window.
//
// # Queries and pagination
//
// Use QueryParams to express OData list options ($filter, $select, $top,
// $search, and the rest). Collections page through opaque continuation
// links; the helpers follow them for you:
//
//	it := graph.NewPaginationIterator(ctx, fetcher, "/users", graph.NewQueryParams())
//	for it.HasNext() {
//	  user, err := it.Next()
//	  if err != nil { break }
//	  _ = user
//	}
//
// or fetch all pages at once:
//
//	all, err := graph.FetchAllPages(ctx, fetcher, "/users", nil, nil)
//	if err != nil { /* handle error */ }
//	_ = all
//
// # Errors
//
// Failed requests surface as RequestError, which carries the status, the
// endpoint, the parsed OData error envelope, and a Kind classifying the
// failure as throttling, transient, or permanent. Authentication failures
// surface as AuthenticationError naming the tenant and flow. A request that
// stays throttled through its whole retry budget returns
// RetriesExhaustedError.
//
// # Batching
//
// BatchBuilder assembles sub-requests for the $batch endpoint; the client
// splits them into chunks of at most twenty, correlates results by id, and
// returns them in submission order. A failed item never fails the batch:
// inspect each BatchResult.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (logging, client
// request ids, custom headers, rate limiting) and a pluggable Cache with
// memory, NATS JetStream, and Redis backends. The graphclient package
// composes these pieces for a sensible default client; applications with
// advanced needs can also use these primitives directly.
package graph
