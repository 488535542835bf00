package http

import (
	"strings"

	"github.com/graphops-io/tenantctl/internal/constants"
)

// ResolveVersion picks the API version segment for a request path. An
// explicit per-request version always wins. Otherwise paths touching
// beta-only endpoints are routed to the beta version, then the configured
// fallback applies, then the default.
func ResolveVersion(explicit, path, fallback string) string {
	if explicit != "" {
		return explicit
	}

	for _, endpoint := range constants.BetaEndpoints {
		if strings.Contains(path, endpoint) {
			return constants.BetaAPIVersion
		}
	}

	if fallback != "" {
		return fallback
	}

	return constants.DefaultAPIVersion
}
