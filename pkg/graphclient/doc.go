// Package graphclient provides the primary entry point for constructing a
// multi-tenant Microsoft Graph API client that implements the graph.Client
// interface.
//
// It layers tenant sessions, credential flows, HTTP transport with retry and
// throttling awareness, response caching, and request batching on top of the
// resource interfaces and types defined in the graph package. Most
// applications should import graphclient to build a client, then use the
// returned graph.Client to establish tenant sessions and access the typed
// resource clients, for example Users(), Groups(), Domains().
//
// Quick start
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
//
//	  // Minimal: construct now, connect later.
//	  cli, err := graphclient.New(&graph.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  err = cli.Connect(ctx, "tenant-id", graph.ClientSecret("client-id", "client-secret"))
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = graphclient.NewWithToken("tenant-id", "eyJhbGciOi...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or authenticate a daemon application in one call:
//	  cli, err = graphclient.NewWithClientSecret(ctx, "tenant-id", "client-id", "client-secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the graph.Client interface
//	  users, err := cli.Users().List(ctx, graph.NewQueryParams().WithTop(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Tenant sessions
//
// One client holds sessions for many tenants. Connect establishes a session
// and makes its tenant current; SwitchTenant changes the current tenant,
// reusing cached credentials when they are still usable. Every request is
// issued with the current tenant's bearer token.
//
// # Helpers
//
// The package also provides convenience constructors NewWithToken,
// NewWithClientSecret, NewWithCertificate, and NewWithDeviceCode that wrap
// New with the appropriate configuration and, for the credential flows,
// establish the session before returning.
package graphclient
