package commands_test

import (
	"io"
	"testing"

	"github.com/graphops-io/tenantctl/cmd/tenantctl/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	assert.Equal(t, "connect [TENANT_ID]", cmd.Use)
	assert.Equal(t, "Authenticate against a tenant", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	// Check flags
	flags := []string{
		"client-id", "client-secret", "certificate", "certificate-password",
		"cert-file", "key-file", "device-code", "interactive", "access-token",
	}

	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}

	deviceCodeFlag := cmd.Flags().Lookup("device-code")
	assert.Equal(t, "false", deviceCodeFlag.DefValue)
}

func TestConnectCommand_RequiresTenant(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--device-code"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrTenantRequired)
}

func TestConnectCommand_RejectsMultipleFlows(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--client-secret", "s3cret", "--device-code"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrMultipleCredentialFlows)
}

func TestConnectCommand_SecretRequiresClientID(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--client-secret", "s3cret"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrSecretRequiresClientID)
}

func TestConnectCommand_EmptySecretPromptNeedsTerminal(t *testing.T) {
	t.Parallel()

	// Test binaries run with stdin detached from a terminal, so asking
	// for the secret interactively must fail cleanly.
	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--client-id", "app-1", "--client-secret", ""})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrSecretNotTerminal)
}

func TestConnectCommand_CertificateRequiresClientID(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--certificate", "bundle.pfx"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrCertRequiresClientID)
}

func TestConnectCommand_PEMRequiresBothFiles(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--client-id", "app-1", "--cert-file", "cert.pem"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrPEMPairRequired)
}

func TestConnectCommand_DeviceCodeRequiresClientID(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--device-code"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrFlowRequiresClientID)
}

func TestConnectCommand_TokenConflictsWithFlows(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConnectCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"tenant-a", "--access-token", "tok", "--interactive"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrMultipleCredentialFlows)
}
