package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/cliui"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the config.toml file
stored in the .minutes/ directory. Keys use dotted notation matching
the TOML section structure.

Valid keys:
  storage.provider, storage.target, storage.collection, storage.scroll_limit,
  api.listen, client.api_target,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  embedding.timeout_seconds, embedding.max_input_chars, embedding.disable_external,
  retrieval.default_top_k, retrieval.max_top_k, retrieval.summary_max_top_k,
  events.provider, events.brokers, events.topic

Examples:
  minutes config set storage.provider qdrant
  minutes config set storage.target localhost:6334
  minutes config set embedding.dimensions 1536`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(args[0], args[1], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runSet(key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	target := cfger.GetTarget()
	if target != "" {
		fmt.Printf("\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
	} else {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
	}

	err = cfger.SetConfigValue(key, value)
	if err != nil {
		return err
	}

	fmt.Printf("  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
