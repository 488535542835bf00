package commands

import (
	"fmt"
	"os"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/spf13/cobra"
)

// NewDisconnectCommand creates the disconnect command.
func NewDisconnectCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Clear cached tenant sessions",
		Long: `Clear the current tenant's cached session, or every cached session with
--all. Credentials live only in process memory, so this mainly matters for
long-lived invocations and scripts that chain commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			scope := constants.DisconnectCurrent
			if all {
				scope = constants.DisconnectAll
			}

			err = client.Disconnect(scope)
			if err != nil {
				return fmt.Errorf("failed to disconnect: %w", err)
			}

			if all {
				_, _ = os.Stdout.WriteString("Disconnected all tenants\n")
			} else {
				_, _ = os.Stdout.WriteString("Disconnected current tenant\n")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear every cached session")

	return cmd
}
