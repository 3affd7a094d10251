// Package minutescmder
package minutescmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/minutes/config"
	credentialscmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/minutes/credentials"
	searchcmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/minutes/search"
	seedcmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/minutes/seed"
	servecmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/minutes/serve"
	versioncmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/version"
)

const minutesLongDesc string = `Minutes is semantic search over Japanese government meeting transcripts.

Run the retrieval service using:
  minutes serve        Run the API server (HTTP + MCP)

Query a running server using:
  minutes search       Search raw transcript chunks
  minutes summary      Search per-meeting summaries`

const minutesShortDesc string = "Minutes - Government Meeting Search"

func NewMinutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minutes",
		Short: minutesShortDesc,
		Long:  minutesLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing the .minutes config dir (default: ./ then ~)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(searchcmder.NewSummaryCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(credentialscmder.NewCredentialsCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
