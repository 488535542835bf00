package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewLicensesCommand creates the licenses command group.
func NewLicensesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "licenses",
		Aliases: []string{"license", "skus"},
		Short:   "Inspect license subscriptions",
		Long:    "List the current tenant's subscribed SKUs",
	}

	cmd.AddCommand(newLicensesListCommand())

	return cmd
}

func newLicensesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subscribed SKUs",
		Long:  "List all license subscriptions of the current tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			list, err := client.Licenses().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list licenses: %w", err)
			}

			return outputLicenses(list.Value)
		},
	}
}

func outputLicenses(skus []graph.SubscribedSKU) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(skus)
	case constants.FormatYAML:
		return StandardYAMLRenderer(skus)
	default:
		return renderLicensesTable(skus)
	}
}

func renderLicensesTable(skus []graph.SubscribedSKU) error {
	if len(skus) == 0 {
		_, _ = os.Stdout.WriteString("No license subscriptions found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("SKU", "Consumed", "Enabled", "Status")

	for _, sku := range skus {
		_ = table.Append([]string{
			formatValue(sku.SKUPartNumber),
			strconv.Itoa(sku.ConsumedUnits),
			strconv.Itoa(sku.PrepaidUnits.Enabled),
			formatValue(sku.CapabilityStatus),
		})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
