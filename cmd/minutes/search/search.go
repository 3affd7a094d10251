// Package searchcmder provides the search and summary commands for querying
// a running minutes API server.
package searchcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/config"
)

var (
	rankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	councilStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	ministryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	contentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const previewLen = 120

type searchCommander struct {
	query    string
	topK     int
	ministry string
	group    bool
	rawJSON  bool

	apiTarget string
}

const searchLongDesc string = `Search raw transcript chunks via the minutes API.

Runs a semantic search over stored transcript chunks, returning the most
relevant chunks with their source meeting metadata. Requires a running
minutes API server.

Use --group to fold results into one entry per source document, ordered
by how many chunks of that document matched. Use --json to print the raw
API response for piping into other tools.

Example:
  minutes search "医療DXの推進"
  minutes search "保育士の処遇改善" --ministry 厚生労働省
  minutes search "カーボンニュートラル" --top 10 --group
  minutes search "デジタル庁の予算" --api-target http://localhost:8080`

const searchShortDesc string = "Search transcript chunks"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.loadAPITarget(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			return cmder.run("/v1/search")
		},
	}

	addClientFlags(cmd, cmder)
	cmd.Flags().BoolVarP(&cmder.group, "group", "g", false, "Group results by source document")

	return cmd
}

func addClientFlags(cmd *cobra.Command, cmder *searchCommander) {
	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", int(defaults.Retrieval.DefaultTopK), "Number of results to return")
	cmd.Flags().StringVarP(&cmder.ministry, "ministry", "m", "", "Restrict results to meetings held by one ministry")
	cmd.Flags().BoolVar(&cmder.rawJSON, "json", false, "Print the raw API response as JSON")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Minutes API server URL")
}

// loadAPITarget fills the API target from config.toml unless the flag was
// set explicitly.
func (c *searchCommander) loadAPITarget(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed("api-target") {
		c.apiTarget = cfg.Client.APITarget
	}
	return nil
}

func (c *searchCommander) run(path string) error {
	if c.group {
		output, err := searchGroupedAPI(c.apiTarget, path, c.query, c.topK, c.ministry)
		if err != nil {
			return err
		}
		return c.printGrouped(output)
	}

	output, err := SearchAPI(c.apiTarget, path, c.query, c.topK, c.ministry)
	if err != nil {
		return err
	}

	if c.rawJSON {
		return printJSON(output)
	}

	if output.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Results for:"),
		councilStyle.Render(fmt.Sprintf("%q", output.Query)),
	)

	for i, result := range output.Results {
		printResult(i+1, result)
	}

	return nil
}

func (c *searchCommander) printGrouped(output *retrieve.GroupedOutput) error {
	if c.rawJSON {
		return printJSON(output)
	}

	if output.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Documents matching:"),
		councilStyle.Render(fmt.Sprintf("%q", output.Query)),
	)

	for i, doc := range output.Results {
		fmt.Printf("  %s  %s  %s\n",
			rankStyle.Render(fmt.Sprintf("#%d", i+1)),
			scoreStyle.Render(fmt.Sprintf("%d chunks, mean %.4f", doc.MatchCount, doc.MeanScore)),
			councilStyle.Render(doc.Document.Council),
		)
		printMeta(doc.Document.Ministry, doc.Document.Date, doc.Document.URL)
		fmt.Printf("  %s\n\n", contentStyle.Render(preview(doc.BestChunk.Content)))
	}

	return nil
}

func printResult(rank int, result retrieve.Result) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		councilStyle.Render(result.Document.Council),
	)
	printMeta(result.Document.Ministry, result.Document.Date, result.Document.URL)
	fmt.Printf("  %s\n\n", contentStyle.Render(preview(result.Content)))
}

func printMeta(ministry, date, docURL string) {
	meta := make([]string, 0, 3)
	if ministry != "" {
		meta = append(meta, ministryStyle.Render(ministry))
	}
	if date != "" {
		meta = append(meta, dimStyle.Render(date))
	}
	meta = append(meta, dimStyle.Render(docURL))
	fmt.Printf("  %s\n", strings.Join(meta, "  "))
}

func preview(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	runes := []rune(content)
	if len(runes) > previewLen {
		return string(runes[:previewLen-3]) + "..."
	}
	return content
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type searchRequest struct {
	Query           string `json:"query"`
	TopK            *int   `json:"top_k,omitempty"`
	Ministry        string `json:"ministry,omitempty"`
	GroupByDocument bool   `json:"group_by_document,omitempty"`
}

// SearchAPI calls the minutes retrieval API and returns the parsed output.
// Exported so other commands can reuse it.
func SearchAPI(apiTarget, path, query string, topK int, ministry string) (*retrieve.Output, error) {
	body, err := postSearch(apiTarget, path, searchRequest{
		Query:    query,
		TopK:     &topK,
		Ministry: ministry,
	})
	if err != nil {
		return nil, err
	}

	var output retrieve.Output
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return &output, nil
}

func searchGroupedAPI(apiTarget, path, query string, topK int, ministry string) (*retrieve.GroupedOutput, error) {
	body, err := postSearch(apiTarget, path, searchRequest{
		Query:           query,
		TopK:            &topK,
		Ministry:        ministry,
		GroupByDocument: true,
	})
	if err != nil {
		return nil, err
	}

	var output retrieve.GroupedOutput
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return &output, nil
}

func postSearch(apiTarget, path string, req searchRequest) ([]byte, error) {
	searchURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	searchURL.Path = path

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodPost, searchURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minutes API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
