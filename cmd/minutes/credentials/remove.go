package credentialscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/cliui"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/credentials"
)

const removeLongDesc string = `Remove a stored API key.

Deletes the provider's key from credentials.toml in the .minutes/ directory.

Examples:
  minutes credentials remove openai`

const removeShortDesc string = "Remove a stored API key"

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <provider>",
		Short: removeShortDesc,
		Long:  removeLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runRemove(args[0], configDir)
		},
	}

	return cmd
}

func runRemove(provider, configDir string) error {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("opening credentials store: %w", err)
	}

	if err := mgr.RemoveKey(provider); err != nil {
		return err
	}

	fmt.Printf("\n  %s Removed key for %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(provider),
	)
	return nil
}
