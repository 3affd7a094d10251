package credentialscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/cliui"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/credentials"
)

const listLongDesc string = `List providers with stored credentials.

Shows which embedding providers have an API key in credentials.toml.
Keys themselves are never printed.

Examples:
  minutes credentials list`

const listShortDesc string = "List providers with stored keys"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(configDir)
		},
	}

	return cmd
}

func runList(configDir string) error {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("opening credentials store: %w", err)
	}

	providers, err := mgr.ListProviders()
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No stored credentials."))
		return nil
	}

	fmt.Println()
	for _, provider := range providers {
		envVar := credentials.EnvVarForProvider(provider)
		fmt.Printf("  %s %s  %s\n",
			cliui.SuccessMark,
			cliui.KeyStyle.Render(provider),
			cliui.DimStyle.Render(fmt.Sprintf("(overridden by %s when set)", envVar)),
		)
	}
	fmt.Println()

	return nil
}
