package commands_test

import (
	"testing"

	"github.com/graphops-io/tenantctl/cmd/tenantctl/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewUsersCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewUsersCommand()
	assert.Equal(t, "users", cmd.Use)
	assert.Equal(t, []string{"user"}, cmd.Aliases)
	assert.Equal(t, "Manage directory users", cmd.Short)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 2)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
}

func TestUsersListCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewUsersCommand()
	cmd := findSubcommand(root, "list")
	assert.Equal(t, "list", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	// Check flags
	flags := []string{"filter", "search", "select", "top", "all"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}

	allFlag := cmd.Flags().Lookup("all")
	assert.Equal(t, "false", allFlag.DefValue)
}

func TestUsersGetCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewUsersCommand()
	cmd := findSubcommand(root, "get")
	assert.Equal(t, "get USER_ID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}
