package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewTenantsCommand creates the tenants command group.
func NewTenantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant"},
		Short:   "Manage the tenant registry",
		Long:    "List, register, update, and remove tenants in the local registry",
	}

	cmd.AddCommand(newTenantsListCommand())
	cmd.AddCommand(newTenantsShowCommand())
	cmd.AddCommand(newTenantsAddCommand())
	cmd.AddCommand(newTenantsRemoveCommand())
	cmd.AddCommand(newTenantsTouchCommand())

	return cmd
}

func newTenantsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tenants",
		Long:  "List all tenants in the local registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			records, err := reg.List()
			if err != nil {
				return fmt.Errorf("failed to list tenants: %w", err)
			}

			return outputTenants(records)
		},
	}
}

func newTenantsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show TENANT_ID",
		Short: "Show a registered tenant",
		Long:  "Display the registry record for a single tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			record, err := reg.Get(args[0])
			if err != nil {
				return fmt.Errorf("failed to get tenant: %w", err)
			}

			return outputTenantRecord(record)
		},
	}
}

func newTenantsAddCommand() *cobra.Command {
	var (
		displayName   string
		friendlyName  string
		primaryDomain string
		tags          []string
	)

	cmd := &cobra.Command{
		Use:   "add TENANT_ID",
		Short: "Register a tenant",
		Long:  "Add a tenant to the local registry, or update it when already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			record := graph.TenantRecord{
				ID:            args[0],
				DisplayName:   displayName,
				FriendlyName:  friendlyName,
				PrimaryDomain: primaryDomain,
				Tags:          tags,
			}

			err = reg.Upsert(record)
			if err != nil {
				return fmt.Errorf("failed to register tenant: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Registered tenant %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "organization display name")
	cmd.Flags().StringVar(&friendlyName, "friendly-name", "", "short name usable instead of the tenant id")
	cmd.Flags().StringVar(&primaryDomain, "primary-domain", "", "primary verified domain")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach (repeatable)")

	return cmd
}

func newTenantsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove TENANT_ID",
		Aliases: []string{"rm"},
		Short:   "Remove a tenant from the registry",
		Long:    "Remove a tenant's record from the local registry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			err = reg.Remove(args[0])
			if err != nil {
				return fmt.Errorf("failed to remove tenant: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Removed tenant %s from the registry\n", args[0])

			return nil
		},
	}
}

func newTenantsTouchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch TENANT_ID",
		Short: "Update a tenant's last-access time",
		Long:  "Stamp the tenant's lastAccessedAt with the current time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			err = reg.Touch(args[0], time.Now())
			if err != nil {
				return fmt.Errorf("failed to touch tenant: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated last access for tenant %s\n", args[0])

			return nil
		},
	}
}

func outputTenants(records []graph.TenantRecord) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(records)
	case constants.FormatYAML:
		return StandardYAMLRenderer(records)
	default:
		return renderTenantsTable(records)
	}
}

func renderTenantsTable(records []graph.TenantRecord) error {
	if len(records) == 0 {
		_, _ = os.Stdout.WriteString("No tenants registered. Use 'tenantctl tenants add' to register one.\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Friendly Name", "Display Name", "Primary Domain", "Tags", "Last Accessed")

	for _, record := range records {
		_ = table.Append([]string{
			record.ID,
			formatValue(record.FriendlyName),
			formatValue(record.DisplayName),
			formatValue(record.PrimaryDomain),
			formatValue(strings.Join(record.Tags, ", ")),
			formatTime(record.LastAccessedAt),
		})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func outputTenantRecord(record *graph.TenantRecord) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(record)
	case constants.FormatYAML:
		return StandardYAMLRenderer(record)
	default:
		return renderTenantRecordTable(record)
	}
}

func renderTenantRecordTable(record *graph.TenantRecord) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", record.ID)
	_ = table.Append("Friendly Name", formatValue(record.FriendlyName))
	_ = table.Append("Display Name", formatValue(record.DisplayName))
	_ = table.Append("Primary Domain", formatValue(record.PrimaryDomain))
	_ = table.Append("Tags", formatValue(strings.Join(record.Tags, ", ")))
	_ = table.Append("Registered", formatTime(record.RegisteredAt))
	_ = table.Append("Last Accessed", formatTime(record.LastAccessedAt))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
