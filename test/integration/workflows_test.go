//go:build integration

package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkflow_TenantRegistryJourney exercises the full registry life
// cycle against a built binary. The registry lives under the runner's
// private HOME, so the journey needs no credentials or network.
func TestWorkflow_TenantRegistryJourney(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)
	tenantID := GenerateTestName("journey-tenant")

	// 1. Register a tenant with metadata
	stdout, stderr, err := runner.Run("tenants", "add", tenantID,
		"--display-name", "Journey Test",
		"--friendly-name", "journey",
		"--primary-domain", "journey.example.com",
		"--tag", "integration")
	require.NoError(t, err, "Failed to add tenant: %s", stderr)
	assert.Contains(t, stdout, "Registered tenant "+tenantID)

	// 2. Verify it lists with JSON output
	stdout, stderr, err = runner.Run("tenants", "list", "--output", "json")
	require.NoError(t, err, "Failed to list tenants: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, tenantID)
	assert.Contains(t, stdout, "journey.example.com")

	// 3. Show the individual record
	stdout, stderr, err = runner.Run("tenants", "show", tenantID, "--output", "json")
	require.NoError(t, err, "Failed to show tenant: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, "Journey Test")

	// 4. Friendly names resolve anywhere a tenant id is accepted
	stdout, stderr, err = runner.Run("tenants", "show", "journey", "--output", "json")
	require.NoError(t, err, "Failed to show tenant by friendly name: %s", stderr)
	assert.Contains(t, stdout, tenantID)

	// 5. Touch updates the last-access stamp
	stdout, stderr, err = runner.Run("tenants", "touch", tenantID)
	require.NoError(t, err, "Failed to touch tenant: %s", stderr)
	assert.Contains(t, stdout, "Updated last access for tenant "+tenantID)

	// 6. Remove it again
	stdout, stderr, err = runner.Run("tenants", "remove", tenantID)
	require.NoError(t, err, "Failed to remove tenant: %s", stderr)
	assert.Contains(t, stdout, "Removed tenant "+tenantID)

	// 7. The registry no longer knows it
	stdout, _, err = runner.Run("tenants", "list", "--output", "json")
	require.NoError(t, err)
	assert.NotContains(t, stdout, tenantID)
}

// TestWorkflow_ConfigPersistence verifies values survive across
// separate binary invocations.
func TestWorkflow_ConfigPersistence(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("config", "set", "api_version", "beta")
	require.NoError(t, err, "Failed to set config value: %s", stderr)
	assert.Contains(t, stdout, "Set api_version")

	stdout, stderr, err = runner.Run("config", "get", "api_version")
	require.NoError(t, err, "Failed to get config value: %s", stderr)
	assert.Equal(t, "beta", strings.TrimSpace(stdout))

	// Secrets come back masked
	_, stderr, err = runner.Run("config", "set", "client_secret", "s3cret-value")
	require.NoError(t, err, "Failed to set secret: %s", stderr)

	stdout, stderr, err = runner.Run("config", "get", "client_secret")
	require.NoError(t, err, "Failed to get secret: %s", stderr)
	assert.NotContains(t, stdout, "s3cret-value")

	_, stderr, err = runner.Run("config", "unset", "api_version")
	require.NoError(t, err, "Failed to unset config value: %s", stderr)

	// Unknown keys are rejected
	_, _, err = runner.Run("config", "set", "bogus_key", "value")
	require.Error(t, err)
}

// TestWorkflow_OutputFormats tests all output formats work correctly
func TestWorkflow_OutputFormats(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("version", "--output", "json")
	require.NoError(t, err, "Failed to get version as JSON: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, "version")

	stdout, stderr, err = runner.Run("version", "--output", "yaml")
	require.NoError(t, err, "Failed to get version as YAML: %s", stderr)
	AssertYAMLOutput(t, stdout)

	stdout, stderr, err = runner.Run("version")
	require.NoError(t, err, "Failed to get version as table: %s", stderr)
	assert.Contains(t, stdout, "Version")
}

// TestWorkflow_DirectoryJourney walks the read-side directory surface
// against a live tenant. It only runs when credentials are supplied
// through the environment.
func TestWorkflow_DirectoryJourney(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	// 1. Persist credentials so every later invocation can establish
	// its own session. Sessions live in process memory only.
	settings := map[string]string{
		"tenant":        config.TenantID,
		"client_id":     config.ClientID,
		"client_secret": config.ClientSecret,
	}
	if config.APIHost != "" {
		settings["api_host"] = config.APIHost
	}

	for key, value := range settings {
		_, stderr, err := runner.Run("config", "set", key, value)
		require.NoError(t, err, "Failed to set %s: %s", key, stderr)
	}

	// 2. Validate the client-secret flow end to end
	require.NoError(t, runner.ConnectTenant())

	// 3. Organization profile
	stdout, stderr, err := runner.Run("org", "show", "--output", "json")
	require.NoError(t, err, "Failed to show organization: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, "id")

	// 4. Users with server-side paging
	stdout, stderr, err = runner.Run("users", "list", "--top", "5", "--output", "json")
	require.NoError(t, err, "Failed to list users: %s", stderr)
	AssertJSONOutput(t, stdout)

	// 5. Raw GET with a JMESPath projection
	stdout, stderr, err = runner.Run("get", "/users", "--all", "--max-pages", "2",
		"--query", "[].displayName")
	require.NoError(t, err, "Failed to run raw GET: %s", stderr)
	AssertJSONOutput(t, stdout)

	// 6. Domains round out the read surface
	stdout, stderr, err = runner.Run("domains", "list", "--output", "json")
	require.NoError(t, err, "Failed to list domains: %s", stderr)
	AssertJSONOutput(t, stdout)
}
