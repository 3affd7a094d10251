// Package seedcmder provides the seed command for building a demo corpus.
package seedcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks/sqlitevec"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/cliui"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/config"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings/local"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/logger"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/seed"
)

// DemoSQLitePath is the default database file the demo corpus is written to.
const DemoSQLitePath = "minutes.demo.sqlite"

type seedCommander struct {
	target    string
	dims      uint
	overwrite bool
}

const seedLongDesc string = `Seed a SQLite chunk store with a demo corpus.

Writes a small set of Japanese government meeting transcripts (raw chunks
plus per-meeting summaries) into a sqlite-vec database, embedded with the
deterministic local provider. Point "minutes serve" at the file to try the
search endpoints without a production database:

  minutes seed
  minutes serve --storage-provider sqlite --storage-target minutes.demo.sqlite --embedding-provider local

Use --overwrite to replace an existing file.`

const seedShortDesc string = "Seed a demo chunk store"

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.target, "target", "t", DemoSQLitePath, "SQLite database file to write")
	cmd.Flags().UintVar(&cmder.dims, "dimensions", defaults.Embedding.Dimensions, "Embedding vector dimensionality")
	cmd.Flags().BoolVar(&cmder.overwrite, "overwrite", false, "Replace the database file if it exists")

	return cmd
}

func (c *seedCommander) run() error {
	if _, err := os.Stat(c.target); err == nil {
		if !c.overwrite {
			return fmt.Errorf("%s already exists (use --overwrite to replace it)", c.target)
		}
		if err := os.Remove(c.target); err != nil {
			return fmt.Errorf("removing %s: %w", c.target, err)
		}
	}

	embedder, err := local.NewEmbedder(int(c.dims))
	if err != nil {
		return fmt.Errorf("creating local embedder: %w", err)
	}
	defer embedder.Close()

	store, err := sqlitevec.NewStore(sqlitevec.Config{
		DBPath:     c.target,
		Dimensions: int(c.dims),
	}, logger.Nop())
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	var raws, summaries int
	err = cliui.Step(os.Stdout, "Embedding and writing demo corpus", func() error {
		var seedErr error
		raws, summaries, seedErr = seed.Demo(ctx, store, embedder)
		return seedErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  Wrote %d transcript chunks and %d summaries to %s\n\n", raws, summaries, c.target)
	return nil
}
