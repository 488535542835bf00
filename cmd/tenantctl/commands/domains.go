package commands

import (
	"fmt"
	"os"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDomainsCommand creates the domains command group.
func NewDomainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domains",
		Aliases: []string{"domain"},
		Short:   "Inspect directory domains",
		Long:    "List the current tenant's domains",
	}

	cmd.AddCommand(newDomainsListCommand())
	cmd.AddCommand(newDomainsGetCommand())

	return cmd
}

func newDomainsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List domains",
		Long:  "List all domains of the current tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			list, err := client.Domains().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list domains: %w", err)
			}

			return outputDomains(list.Value)
		},
	}
}

func newDomainsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DOMAIN",
		Short: "Get domain details",
		Long:  "Display a single domain by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			domain, err := client.Domains().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get domain: %w", err)
			}

			return outputDomains([]graph.Domain{*domain})
		},
	}
}

func outputDomains(domains []graph.Domain) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(domains)
	case constants.FormatYAML:
		return StandardYAMLRenderer(domains)
	default:
		return renderDomainsTable(domains)
	}
}

func renderDomainsTable(domains []graph.Domain) error {
	if len(domains) == 0 {
		_, _ = os.Stdout.WriteString("No domains found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Domain", "Default", "Verified", "Auth Type")

	for _, domain := range domains {
		_ = table.Append([]string{
			domain.ID,
			formatBoolPtr(domain.IsDefault),
			formatBoolPtr(domain.IsVerified),
			formatValue(domain.AuthenticationType),
		})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
