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

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage directory users",
		Long:    "List and inspect users in the current tenant's directory",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var (
		filter       string
		search       string
		selectFields []string
		top          int
		allPages     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List users in the current tenant, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			params := &graph.QueryParams{
				Filter: filter,
				Search: search,
				Select: selectFields,
				Top:    top,
			}

			if allPages {
				users, err := client.Users().ListAll(cmd.Context(), params)
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}

				return outputUsers(users, "", true)
			}

			list, err := client.Users().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return outputUsers(list.Value, list.NextLink, false)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "OData $filter expression")
	cmd.Flags().StringVar(&search, "search", "", "OData $search expression")
	cmd.Flags().StringSliceVar(&selectFields, "select", nil, "properties to return ($select)")
	cmd.Flags().IntVar(&top, "top", 0, "page size ($top)")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Long:  "Display a single user by object id or userPrincipalName",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateSessionClient(cmd.Context())
			if err != nil {
				return err
			}

			user, err := client.Users().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return outputUser(user)
		},
	}
}

func outputUsers(users []graph.User, nextLink string, allPages bool) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(users)
	case constants.FormatYAML:
		return StandardYAMLRenderer(users)
	default:
		return renderUsersTable(users, nextLink, allPages)
	}
}

func renderUsersTable(users []graph.User, nextLink string, allPages bool) error {
	if len(users) == 0 {
		_, _ = os.Stdout.WriteString("No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Display Name", "User Principal Name", "ID", "Enabled")

	for _, user := range users {
		_ = table.Append([]string{
			formatValue(user.DisplayName),
			formatValue(user.UserPrincipalName),
			user.ID,
			formatBoolPtr(user.AccountEnabled),
		})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	renderPagingHint(nextLink, allPages)

	return nil
}

func outputUser(user *graph.User) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(user)
	case constants.FormatYAML:
		return StandardYAMLRenderer(user)
	default:
		return renderUserTable(user)
	}
}

func renderUserTable(user *graph.User) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", user.ID)
	_ = table.Append("Display Name", formatValue(user.DisplayName))
	_ = table.Append("User Principal Name", formatValue(user.UserPrincipalName))
	_ = table.Append("Mail", formatValue(user.Mail))
	_ = table.Append("Job Title", formatValue(user.JobTitle))
	_ = table.Append("Department", formatValue(user.Department))
	_ = table.Append("User Type", formatValue(user.UserType))
	_ = table.Append("Account Enabled", formatBoolPtr(user.AccountEnabled))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
