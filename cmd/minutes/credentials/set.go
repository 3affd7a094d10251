package credentialscmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/cliui"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/credentials"
)

const setLongDesc string = `Store an API key for an embedding provider.

Writes the key to credentials.toml in the .minutes/ directory with
owner-only permissions. The key is used by "minutes serve" when the
provider's environment variable is not set.

Examples:
  minutes credentials set openai sk-...`

const setShortDesc string = "Store an API key"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <provider> <key>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(args[0], args[1], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runSet(provider, key, configDir string) error {
	if !credentials.IsSupportedProvider(provider) {
		return fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s",
			provider, strings.Join(credentials.SupportedProviders(), ", "))
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("opening credentials store: %w", err)
	}

	if err := mgr.SetKey(provider, key); err != nil {
		return err
	}

	fmt.Printf("\n  %s Stored key for %s in %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(provider),
		cliui.DimStyle.Render(mgr.GetTarget()),
	)
	return nil
}
