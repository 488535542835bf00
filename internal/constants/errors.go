package constants

import "errors"

// Session errors.
var (
	ErrNoCurrentTenant  = errors.New("no current tenant, use 'tenantctl connect' first")
	ErrTenantArgMissing = errors.New("tenant id is required")
)

// Credential flag errors.
var (
	ErrMultipleCredentialFlows = errors.New("at most one credential flow may be selected")
	ErrSecretRequiresClientID  = errors.New("--client-secret requires --client-id")
	ErrCertRequiresClientID    = errors.New("--certificate requires --client-id")
	ErrSecretNotTerminal       = errors.New("cannot prompt for a secret without a terminal")
)

// Request errors.
var (
	ErrPathRequired      = errors.New("a request path is required")
	ErrInvalidMaxPages   = errors.New("--max-pages must be zero or greater")
	ErrBodyFileWithInput = errors.New("--data and --data-file are mutually exclusive")
)

// Batch errors.
var (
	ErrBatchFileRequired = errors.New("--file is required")
	ErrBatchFileEmpty    = errors.New("batch file contains no requests")
)

// Output errors.
var (
	ErrUnknownOutputFormat = errors.New("unknown output format")
)
