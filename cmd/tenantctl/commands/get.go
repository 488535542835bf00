package commands

import (
	"encoding/json"
	"fmt"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/jmespath/go-jmespath"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewGetCommand creates the raw get command.
func NewGetCommand() *cobra.Command {
	var (
		apiVersion string
		allPages   bool
		maxPages   int
		query      string
	)

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Issue a raw GET against any API path",
		Long: `Issue a GET against an arbitrary API path and print the response.

The path is relative to the API host, for example /users or
/groups/{id}/members. --all follows @odata.nextLink continuation links and
prints the merged items as one array; --query applies a JMESPath expression
to the decoded response. Responses render as JSON unless --output yaml is
set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetCommand(cmd, args[0], apiVersion, allPages, maxPages, query)
		},
	}

	cmd.Flags().StringVar(&apiVersion, "api-version", "", "API version override (v1.0 or beta)")
	cmd.Flags().BoolVar(&allPages, "all", false, "follow continuation links until exhaustion")
	cmd.Flags().IntVar(&maxPages, "max-pages", constants.MaxPagesSafety, "page cap when following continuation links (0 means no cap)")
	cmd.Flags().StringVar(&query, "query", "", "JMESPath expression applied to the response")

	return cmd
}

func runGetCommand(cmd *cobra.Command, path, apiVersion string, allPages bool, maxPages int, query string) error {
	if maxPages < 0 {
		return ErrInvalidMaxPages
	}

	client, err := CreateSessionClient(cmd.Context())
	if err != nil {
		return err
	}

	opts := &graph.RequestOptions{Version: apiVersion}

	var document interface{}

	if allPages {
		items, err := client.GetAllPages(cmd.Context(), path, opts, maxPages)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", path, err)
		}

		document, err = mergeItems(items)
		if err != nil {
			return err
		}
	} else {
		raw, err := client.Get(cmd.Context(), path, opts)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", path, err)
		}

		err = json.Unmarshal(raw, &document)
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if query != "" {
		document, err = jmespath.Search(query, document)
		if err != nil {
			return fmt.Errorf("failed to apply query %q: %w", query, err)
		}
	}

	return outputDocument(document)
}

// mergeItems decodes appended collection items into a single array
// document so --query sees one value.
func mergeItems(items []json.RawMessage) (interface{}, error) {
	merged := make([]interface{}, 0, len(items))

	for _, raw := range items {
		var item interface{}

		err := json.Unmarshal(raw, &item)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response item: %w", err)
		}

		merged = append(merged, item)
	}

	return merged, nil
}

func outputDocument(document interface{}) error {
	if viper.GetString("output") == constants.FormatYAML {
		return StandardYAMLRenderer(document)
	}

	return StandardJSONRenderer(document)
}
