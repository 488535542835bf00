package commands_test

import (
	"io"
	"testing"

	"github.com/graphops-io/tenantctl/cmd/tenantctl/commands"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)
	assert.Equal(t, "Manage CLI configuration", cmd.Short)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "view")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "unset")
}

func TestConfigSetCommand_RejectsUnknownKey(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"set", "no-such-key", "value"})

	err := cmd.Execute()
	require.ErrorIs(t, err, graph.ErrUnknownConfigKey)
}

func TestConfigSetCommand_RejectsUnknownOutputFormat(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"set", "output", "csv"})

	err := cmd.Execute()
	require.ErrorIs(t, err, commands.ErrUnknownOutputFormat)
}

func TestConfigGetCommand_RejectsUnknownKey(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"get", "no-such-key"})

	err := cmd.Execute()
	require.ErrorIs(t, err, graph.ErrUnknownConfigKey)
}

func TestConfigUnsetCommand_RejectsUnknownKey(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"unset", "no-such-key"})

	err := cmd.Execute()
	require.ErrorIs(t, err, graph.ErrUnknownConfigKey)
}
