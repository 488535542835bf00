package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Execute a JSON batch request",
		Long: `Execute requests from a batch file through the $batch endpoint.

The file holds either a JSON array of requests or an object with a
"requests" array. Requests run in chunks of up to 20; each result is
correlated back to its request id and reported in request order. A failed
item does not fail the batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatchCommand(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the batch request file")

	return cmd
}

func runBatchCommand(cmd *cobra.Command, file string) error {
	if file == "" {
		return ErrBatchFileRequired
	}

	items, err := readBatchFile(file)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return fmt.Errorf("%w: %s", ErrBatchFileEmpty, file)
	}

	client, err := CreateSessionClient(cmd.Context())
	if err != nil {
		return err
	}

	results, err := client.ExecuteBatch(cmd.Context(), items)
	if err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	return outputBatchResults(results)
}

// readBatchFile parses a batch file. Both a bare array and a Graph-style
// {"requests": [...]} envelope are accepted.
func readBatchFile(file string) ([]graph.BatchItem, error) {
	// The path is supplied by the operator on the command line.
	// #nosec G304
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var envelope struct {
		Requests []graph.BatchItem `json:"requests"`
	}

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Requests != nil {
		return envelope.Requests, nil
	}

	var items []graph.BatchItem

	err = json.Unmarshal(data, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", file, err)
	}

	return items, nil
}

func outputBatchResults(results []graph.BatchResult) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(results)
	case constants.FormatYAML:
		return StandardYAMLRenderer(results)
	default:
		return renderBatchResultsTable(results)
	}
}

func renderBatchResultsTable(results []graph.BatchResult) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Status", "OK", "Error")

	for i := range results {
		result := &results[i]

		ok := ""
		if result.Succeeded() {
			ok = constants.CheckMarkSymbol
		}

		message := ""
		if err := result.Err(); err != nil {
			message = err.Error()
		}

		_ = table.Append([]string{result.ID, strconv.Itoa(result.Status), ok, message})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
