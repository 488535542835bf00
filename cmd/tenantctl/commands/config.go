package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/graphops-io/tenantctl/internal/constants"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKeys are the recognized configuration keys; the value marks keys
// whose content is masked in output.
var configKeys = map[string]bool{
	"tenant":               false,
	"client_id":            false,
	"client_secret":        true,
	"certificate":          false,
	"certificate_password": true,
	"access_token":         true,
	"api_host":             false,
	"identity_host":        false,
	"api_version":          false,
	"output":               false,
	"max_attempts":         false,
	"timeout":              false,
	"cache_backend":        false,
	"cache_ttl":            false,
	"nats_url":             false,
	"nats_bucket":          false,
	"redis_addr":           false,
	"redis_password":       true,
	"redis_db":             false,
	"registry":             false,
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and change tenantctl configuration values",
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Long:  "Display all configuration values after merging flags, environment, and the config file. Secrets are masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{}

			for key := range configKeys {
				values[key] = effectiveConfigValue(key)
			}

			return outputConfigValues(values)
		},
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Print a single effective configuration value. Secrets are masked.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if _, known := configKeys[key]; !known {
				return fmt.Errorf("%w: %s", graph.ErrUnknownConfigKey, key)
			}

			_, _ = fmt.Fprintln(os.Stdout, effectiveConfigValue(key))

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Persist a configuration value to the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if _, known := configKeys[key]; !known {
				return fmt.Errorf("%w: %s", graph.ErrUnknownConfigKey, key)
			}

			if key == "output" && value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
				return fmt.Errorf("%w: %s", ErrUnknownOutputFormat, value)
			}

			values, path, err := loadConfigFile()
			if err != nil {
				return err
			}

			values[key] = value

			err = saveConfigFile(path, values)
			if err != nil {
				return err
			}

			viper.Set(key, value)

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Long:  "Remove a value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if _, known := configKeys[key]; !known {
				return fmt.Errorf("%w: %s", graph.ErrUnknownConfigKey, key)
			}

			values, path, err := loadConfigFile()
			if err != nil {
				return err
			}

			delete(values, key)

			err = saveConfigFile(path, values)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

// effectiveConfigValue reads a key through viper, masking secrets.
func effectiveConfigValue(key string) string {
	value := viper.GetString(key)
	if value == "" {
		return ""
	}

	if configKeys[key] {
		return constants.MaskedSecret
	}

	return value
}

// loadConfigFile reads the config file into a flat map. Only the file is
// read, never environment values, so saving cannot leak the environment
// into the file.
func loadConfigFile() (map[string]interface{}, string, error) {
	path := viper.ConfigFileUsed()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get user home directory: %w", err)
		}

		path = filepath.Join(home, ".tenantctl", "config.yml")
	}

	values := map[string]interface{}{}

	// The path comes from viper's config resolution.
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, path, nil
		}

		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &values)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return values, path, nil
}

func saveConfigFile(path string, values map[string]interface{}) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func outputConfigValues(values map[string]string) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(values)
	case constants.FormatYAML:
		return StandardYAMLRenderer(values)
	default:
		return renderConfigTable(values)
	}
}

func renderConfigTable(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Value")

	for _, key := range keys {
		_ = table.Append([]string{key, formatValue(values[key])})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
