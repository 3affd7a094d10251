package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/cliui"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/config"
)

const presetLongDesc string = `Write a named preset configuration.

Replaces config.toml in the .minutes/ directory with a named preset.

Available presets:
  openai    External OpenAI embeddings with local fallback (default stack)
  local     Local-only embeddings, no external provider

Examples:
  minutes config preset openai
  minutes config preset local`

const presetShortDesc string = "Write a named preset configuration"

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset <name>",
		Short: presetShortDesc,
		Long:  presetLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runPreset(args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runPreset(name, configDir string) error {
	cfg, err := config.PresetConfig(name)
	if err != nil {
		return fmt.Errorf("unknown preset: %q\n\nValid presets: %s",
			name, strings.Join(config.ValidPresetNames(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  %s Wrote preset %s to %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(name),
		cliui.DimStyle.Render(cfger.GetTarget()),
	)
	return nil
}
