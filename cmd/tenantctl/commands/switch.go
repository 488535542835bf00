package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewSwitchCommand creates the switch command.
func NewSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch TENANT_ID",
		Short: "Switch the current tenant",
		Long: `Switch the current tenant, adopting a cached session when one is still
usable and re-authenticating with the configured material otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := resolveTenantID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.SwitchTenant(cmd.Context(), tenant)
			if err != nil {
				return fmt.Errorf("failed to switch to tenant %s: %w", tenant, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Switched to tenant %s\n", client.CurrentTenant())

			return nil
		},
	}
}
