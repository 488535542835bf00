//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	APIHost      string
	BinaryPath   string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		TenantID:     os.Getenv("TENANTCTL_TEST_TENANT"),
		ClientID:     os.Getenv("TENANTCTL_TEST_CLIENT_ID"),
		ClientSecret: os.Getenv("TENANTCTL_TEST_CLIENT_SECRET"),
		APIHost:      os.Getenv("TENANTCTL_TEST_API_HOST"),
		BinaryPath:   getBinaryPath(),
		Verbose:      os.Getenv("TENANTCTL_TEST_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the tenantctl binary
func getBinaryPath() string {
	if path := os.Getenv("TENANTCTL_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../tenantctl",
		"./tenantctl",
		"../tenantctl",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "tenantctl" // Fallback to PATH
}

// SkipIfMissingBinary skips the test when no built binary can be found
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	if _, err := os.Stat(config.BinaryPath); os.IsNotExist(err) {
		t.Skipf("tenantctl binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// SkipIfMissingConfig skips the test when tenant credentials are missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	config.SkipIfMissingBinary(t)

	if config.TenantID == "" {
		t.Skip("TENANTCTL_TEST_TENANT not set, skipping integration test")
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("TENANTCTL_TEST_CLIENT_ID/TENANTCTL_TEST_CLIENT_SECRET not set, skipping integration test")
	}
}

// CommandRunner provides utilities for running tenantctl commands.
// Each runner gets its own HOME so the registry and config file never
// touch the operator's real ~/.tenantctl.
type CommandRunner struct {
	config *TestConfig
	home   string
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		home:   t.TempDir(),
		t:      t,
	}
}

// Run executes a tenantctl command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+runner.home)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// ConnectTenant establishes a session for the configured tenant
func (runner *CommandRunner) ConnectTenant() error {
	_, stderr, err := runner.Run("connect", runner.config.TenantID,
		"--client-id", runner.config.ClientID,
		"--client-secret", runner.config.ClientSecret)
	if err != nil {
		return fmt.Errorf("failed to connect to tenant: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return // Looks like YAML
	}
	t.Errorf("Output does not appear to be YAML: %s", output)
}
