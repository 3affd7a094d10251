// Package configcmder provides the config command for managing persistent
// minutes configuration stored in the .minutes/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent minutes configuration.

Configuration is stored as config.toml in the .minutes/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.target, storage.collection, storage.scroll_limit,
  api.listen, client.api_target,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  embedding.timeout_seconds, embedding.max_input_chars, embedding.disable_external,
  retrieval.default_top_k, retrieval.max_top_k, retrieval.summary_max_top_k,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  minutes config set <key> <value>    Set a configuration value
  minutes config get <key>            Get a configuration value
  minutes config list                 List all configuration values
  minutes config preset <name>        Write a named preset configuration

Examples:
  minutes config set storage.provider qdrant
  minutes config set embedding.model text-embedding-3-small
  minutes config get embedding.dimensions
  minutes config list`

const configShortDesc string = "Manage persistent minutes configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPresetCmd())

	return cmd
}
