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

// NewGroupsCommand creates the groups command group.
func NewGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Manage directory groups",
		Long:    "List and inspect groups in the current tenant's directory",
	}

	cmd.AddCommand(newGroupsListCommand())
	cmd.AddCommand(newGroupsGetCommand())
	cmd.AddCommand(newGroupsMembersCommand())

	return cmd
}

func newGroupsListCommand() *cobra.Command {
	var (
		filter       string
		selectFields []string
		top          int
		allPages     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Long:  "List groups in the current tenant, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			params := &graph.QueryParams{
				Filter: filter,
				Select: selectFields,
				Top:    top,
			}

			if allPages {
				groups, err := client.Groups().ListAll(cmd.Context(), params)
				if err != nil {
					return fmt.Errorf("failed to list groups: %w", err)
				}

				return outputGroups(groups, "", true)
			}

			list, err := client.Groups().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list groups: %w", err)
			}

			return outputGroups(list.Value, list.NextLink, false)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "OData $filter expression")
	cmd.Flags().StringSliceVar(&selectFields, "select", nil, "properties to return ($select)")
	cmd.Flags().IntVar(&top, "top", 0, "page size ($top)")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get GROUP_ID",
		Short: "Get group details",
		Long:  "Display a single group by object id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			group, err := client.Groups().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get group: %w", err)
			}

			return outputGroup(group)
		},
	}
}

func newGroupsMembersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "members GROUP_ID",
		Short: "List group members",
		Long:  "List all members of a group, following continuation links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			members, err := client.Groups().Members(cmd.Context(), args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to list group members: %w", err)
			}

			return outputMembers(members)
		},
	}
}

func outputGroups(groups []graph.Group, nextLink string, allPages bool) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(groups)
	case constants.FormatYAML:
		return StandardYAMLRenderer(groups)
	default:
		return renderGroupsTable(groups, nextLink, allPages)
	}
}

func renderGroupsTable(groups []graph.Group, nextLink string, allPages bool) error {
	if len(groups) == 0 {
		_, _ = os.Stdout.WriteString("No groups found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Display Name", "ID", "Mail", "Security", "Types")

	for _, group := range groups {
		_ = table.Append([]string{
			formatValue(group.DisplayName),
			group.ID,
			formatValue(group.Mail),
			formatBoolPtr(group.SecurityEnabled),
			formatValue(strings.Join(group.GroupTypes, ", ")),
		})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	renderPagingHint(nextLink, allPages)

	return nil
}

func outputGroup(group *graph.Group) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(group)
	case constants.FormatYAML:
		return StandardYAMLRenderer(group)
	default:
		return renderGroupTable(group)
	}
}

func renderGroupTable(group *graph.Group) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", group.ID)
	_ = table.Append("Display Name", formatValue(group.DisplayName))
	_ = table.Append("Description", formatValue(group.Description))
	_ = table.Append("Mail", formatValue(group.Mail))
	_ = table.Append("Mail Enabled", formatBoolPtr(group.MailEnabled))
	_ = table.Append("Security Enabled", formatBoolPtr(group.SecurityEnabled))
	_ = table.Append("Group Types", formatValue(strings.Join(group.GroupTypes, ", ")))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func outputMembers(members []graph.DirectoryObject) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(members)
	case constants.FormatYAML:
		return StandardYAMLRenderer(members)
	default:
		return renderMembersTable(members)
	}
}

func renderMembersTable(members []graph.DirectoryObject) error {
	if len(members) == 0 {
		_, _ = os.Stdout.WriteString("No members found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Created")

	for _, member := range members {
		created := constants.NotAvailable
		if member.CreatedDateTime != nil {
			created = formatTime(*member.CreatedDateTime)
		}

		_ = table.Append([]string{member.ID, created})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
