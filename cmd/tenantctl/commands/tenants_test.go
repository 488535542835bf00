package commands_test

import (
	"testing"

	"github.com/graphops-io/tenantctl/cmd/tenantctl/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewTenantsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewTenantsCommand()
	assert.Equal(t, "tenants", cmd.Use)
	assert.Equal(t, []string{"tenant"}, cmd.Aliases)
	assert.Equal(t, "Manage the tenant registry", cmd.Short)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "remove")
	assert.Contains(t, commandNames, "touch")
}

func TestTenantsAddCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTenantsCommand()
	cmd := findSubcommand(root, "add")
	assert.Equal(t, "add TENANT_ID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	// Check flags
	flags := []string{"display-name", "friendly-name", "primary-domain", "tag"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}
}

func TestTenantsRemoveCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTenantsCommand()
	cmd := findSubcommand(root, "remove")
	assert.Equal(t, "remove TENANT_ID", cmd.Use)
	assert.Equal(t, []string{"rm"}, cmd.Aliases)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestTenantsTouchCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTenantsCommand()
	cmd := findSubcommand(root, "touch")
	assert.Equal(t, "touch TENANT_ID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}
