package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewOrgCommand creates the org command group.
func NewOrgCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "org",
		Aliases: []string{"organization"},
		Short:   "Inspect the tenant organization",
		Long:    "Read the current tenant's organization profile",
	}

	cmd.AddCommand(newOrgShowCommand())

	return cmd
}

func newOrgShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the organization profile",
		Long:  "Display the organization resource for the current tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			org, err := client.Organization().Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get organization: %w", err)
			}

			return outputOrganization(org)
		},
	}
}

func outputOrganization(org *graph.Organization) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(org)
	case constants.FormatYAML:
		return StandardYAMLRenderer(org)
	default:
		return renderOrganizationTable(org)
	}
}

func renderOrganizationTable(org *graph.Organization) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	domains := make([]string, 0, len(org.VerifiedDomains))

	for _, domain := range org.VerifiedDomains {
		name := domain.Name
		if domain.IsDefault {
			name += " (default)"
		}

		domains = append(domains, name)
	}

	_ = table.Append("ID", org.ID)
	_ = table.Append("Display Name", formatValue(org.DisplayName))
	_ = table.Append("Tenant Type", formatValue(org.TenantType))
	_ = table.Append("Country", formatValue(org.CountryLetterCode))
	_ = table.Append("Verified Domains", formatValue(strings.Join(domains, ", ")))

	if org.CreatedDateTime != nil {
		_ = table.Append("Created", formatTime(*org.CreatedDateTime))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
