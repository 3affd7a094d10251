// Package servecmder provides the serve command for running the retrieval service.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/mcp"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	chunkutils "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks/utils"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/config"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/credentials"
	embeddingutils "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings/utils"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream/kafka"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/eventstream/nop"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/logger"
)

// serveFlags is the flag registry for the serve command. Each entry maps
// a CLI flag to its dotted viper key so flag > env > config file > default
// precedence holds for every setting.
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	config.FlagStorageProvider: {
		Name:        "storage-provider",
		ViperKey:    "storage.provider",
		Description: "Chunk store backend (postgres, sqlite, qdrant, memory)",
	},
	config.FlagStorageTarget: {
		Name:        "storage-target",
		Shorthand:   "s",
		ViperKey:    "storage.target",
		Description: "Chunk store target (DSN, file path, or host:port)",
	},
	config.FlagCollection: {
		Name:        "collection",
		ViperKey:    "storage.collection",
		Description: "Vector collection name (qdrant only)",
	},
	config.FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding provider (openai, local)",
	},
	config.FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider base URL override",
	},
	config.FlagEmbeddingModel: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model name",
	},
	config.FlagEmbeddingDims: {
		Name:        "embedding-dimensions",
		ViperKey:    "embedding.dimensions",
		Description: "Embedding vector dimensionality",
	},
	config.FlagDisableExternal: {
		Name:        "disable-external",
		ViperKey:    "embedding.disable_external",
		Description: "Start with the external embedding provider switched off",
	},
	config.FlagEventsProvider: {
		Name:        "events-provider",
		ViperKey:    "events.provider",
		Description: "Degraded-mode event publisher (kafka, nop)",
	},
	config.FlagEventsBrokers: {
		Name:        "events-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma-separated Kafka bootstrap brokers",
	},
	config.FlagEventsTopic: {
		Name:        "events-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for degraded-mode events",
	},
}

// serveFlagKeys lists the registry keys bound on this command, in
// registration order.
var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagStorageProvider,
	config.FlagStorageTarget,
	config.FlagCollection,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagDisableExternal,
	config.FlagEventsProvider,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
}

type ServeCommander struct {
	listen          string
	storageProvider string
	storageTarget   string
	collection      string
	embeddingProv   string
	embeddingTarget string
	embeddingModel  string
	embeddingDims   uint
	disableExternal bool
	eventsProvider  string
	eventsBrokers   string
	eventsTopic     string
	noMCP           bool
	debug           bool
	jsonLogs        bool
	logFile         string
	configDir       string

	v      *viper.Viper
	logger *slog.Logger
}

const serveLongDesc string = `Run the minutes retrieval service.

Starts the HTTP API server with the /v1/search and /v1/summary_search
endpoints and, unless --no-mcp is set, mounts the MCP server at /mcp.

Settings resolve in precedence order: CLI flags, then MINUTES_* environment
variables, then config.toml in the .minutes/ directory, then built-in
defaults.

Example:
  minutes serve
  minutes serve --storage-provider qdrant --storage-target localhost:6334
  minutes serve --embedding-provider local --listen :9090
  MINUTES_EMBEDDING_DISABLE_EXTERNAL=true minutes serve`

const serveShortDesc string = "Run the retrieval service"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagStorageTarget, &cmder.storageTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagCollection, &cmder.collection)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, serveFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddBoolFlag(cmd, serveFlags, config.FlagDisableExternal, &cmder.disableExternal)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, serveFlags, config.FlagEventsTopic, &cmder.eventsTopic)

	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP server endpoint")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", true, "Emit logs as JSON records")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON logs to this file")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(c.jsonLogs),
		logger.WithSource(c.debug),
	)

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		c.logger = logger.Multi(
			c.logger,
			logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(f)),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Effective settings come from viper so env vars and config.toml
	// apply to anything not set by flag.
	v := c.v

	apiKey := c.resolveAPIKey(v.GetString("embedding.provider"))

	events, err := c.createPublisher(v)
	if err != nil {
		return err
	}
	defer events.Close()

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		Provider:        v.GetString("embedding.provider"),
		APIKey:          apiKey,
		BaseURL:         v.GetString("embedding.target"),
		Model:           v.GetString("embedding.model"),
		Dimensions:      int(v.GetUint("embedding.dimensions")),
		MaxInputChars:   int(v.GetUint("embedding.max_input_chars")),
		Timeout:         time.Duration(v.GetUint("embedding.timeout_seconds")) * time.Second,
		DisableExternal: v.GetBool("embedding.disable_external"),
		Events:          events,
		Logger:          c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	store, err := chunkutils.NewStore(ctx, &chunkutils.NewStoreOpts{
		Provider:    v.GetString("storage.provider"),
		Target:      v.GetString("storage.target"),
		Collection:  v.GetString("storage.collection"),
		APIKey:      os.Getenv("MINUTES_STORAGE_API_KEY"),
		Dimensions:  int(v.GetUint("embedding.dimensions")),
		ScrollLimit: int(v.GetUint("storage.scroll_limit")),
		Logger:      c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating chunk store: %w", err)
	}
	defer store.Close()

	c.logger.Info("chunk store ready",
		"provider", v.GetString("storage.provider"),
		"target", v.GetString("storage.target"),
	)

	retriever, err := retrieve.NewRetriever(embedder, store, c.logger)
	if err != nil {
		return fmt.Errorf("creating retriever: %w", err)
	}

	var mcpServer *mcp.Server
	if !c.noMCP {
		mcpServer, err = mcp.NewServer(mcp.Config{
			Retriever:   retriever,
			DefaultTopK: int(v.GetUint("retrieval.default_top_k")),
			Logger:      c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr:     v.GetString("api.listen"),
		DefaultTopK:    int(v.GetUint("retrieval.default_top_k")),
		MaxTopK:        int(v.GetUint("retrieval.max_top_k")),
		SummaryMaxTopK: int(v.GetUint("retrieval.summary_max_top_k")),
	}, retriever, store, mcpServer, c.logger)

	c.watchConfig(ctx, embedder)

	// Channel to capture errors from goroutines
	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}

// resolveAPIKey looks up the embedding credential for external providers.
// A missing credential is not fatal: the embedder chain falls back to the
// local provider.
func (c *ServeCommander) resolveAPIKey(provider string) string {
	if provider == "local" {
		return ""
	}

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		c.logger.Warn("could not open credentials store", "error", err)
		return ""
	}

	key, err := mgr.ResolveKey(provider)
	if err != nil {
		c.logger.Warn("could not resolve embedding credential", "provider", provider, "error", err)
		return ""
	}
	return key
}

func (c *ServeCommander) createPublisher(v *viper.Viper) (eventstream.Publisher, error) {
	provider := v.GetString("events.provider")
	switch provider {
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: strings.Split(v.GetString("events.brokers"), ","),
			Topic:   v.GetString("events.topic"),
		}, c.logger)
	case "nop", "":
		return nop.NewPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported events provider: %s", provider)
	}
}

// watchConfig reloads embedding.disable_external when config.toml changes,
// so operators can toggle the external provider without a restart.
func (c *ServeCommander) watchConfig(ctx context.Context, embedder interface{ SetDisableExternal(bool) }) {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		c.logger.Warn("config watcher disabled", "error", err)
		return
	}
	if cfger.GetTarget() == "" {
		return
	}

	watcher, err := config.NewWatcher(cfger, func(cfg *config.Config) {
		embedder.SetDisableExternal(cfg.Embedding.DisableExternal)
		c.logger.Info("config reloaded",
			"disable_external", cfg.Embedding.DisableExternal,
		)
	}, c.logger)
	if err != nil {
		c.logger.Warn("config watcher disabled", "error", err)
		return
	}

	go func() {
		if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warn("config watcher stopped", "error", err)
		}
	}()
}
