package searchcmder

import (
	"github.com/spf13/cobra"
)

const summaryLongDesc string = `Search per-meeting summaries via the minutes API.

Runs a semantic search over per-meeting summary chunks. Summaries are one
per document, so each result is a distinct meeting. Useful for finding
which meetings discussed a topic before drilling into raw chunks with
"minutes search".

Example:
  minutes summary "少子化対策"
  minutes summary "防衛費の増額" --top 20
  minutes summary "地方創生" --ministry 総務省 --json`

const summaryShortDesc string = "Search per-meeting summaries"

func NewSummaryCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "summary <query>",
		Short: summaryShortDesc,
		Long:  summaryLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.loadAPITarget(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			return cmder.run("/v1/summary_search")
		},
	}

	addClientFlags(cmd, cmder)

	return cmd
}
