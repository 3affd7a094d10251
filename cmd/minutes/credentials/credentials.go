// Package credentialscmder provides the credentials command for managing
// embedding provider API keys stored in the .minutes/ directory.
package credentialscmder

import (
	"github.com/spf13/cobra"
)

const credentialsLongDesc string = `Manage embedding provider credentials.

Credentials are stored as credentials.toml in the .minutes/ directory with
owner-only permissions. Environment variables (e.g. OPENAI_API_KEY) always
take precedence over stored credentials.

Use subcommands to set, remove, or list credentials:
  minutes credentials set <provider> <key>    Store an API key
  minutes credentials remove <provider>       Remove a stored API key
  minutes credentials list                    List providers with stored keys

Examples:
  minutes credentials set openai sk-...
  minutes credentials list`

const credentialsShortDesc string = "Manage embedding provider credentials"

func NewCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: credentialsShortDesc,
		Long:  credentialsLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
