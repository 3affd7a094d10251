package chunkutils

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks/memory"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks/postgres"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks/qdrant"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks/sqlitevec"
)

// NewStoreOpts selects and configures a chunk store backend.
type NewStoreOpts struct {
	// Provider is one of "postgres", "sqlite", "qdrant", or "memory".
	Provider string

	// Target is the backend address: a DSN for postgres, a file path
	// (or ":memory:") for sqlite, and "host:port" for qdrant.
	Target string

	// Collection names the qdrant collection. Ignored by other backends.
	Collection string

	// APIKey authenticates against a secured qdrant deployment. Optional.
	APIKey string

	// Dimensions is the embedding dimensionality the store must agree on.
	Dimensions int

	// ScrollLimit caps a single qdrant candidate scroll. Optional.
	ScrollLimit int

	Logger *slog.Logger
}

// NewStore constructs the configured chunk store backend.
func NewStore(ctx context.Context, o *NewStoreOpts) (chunks.Store, error) {
	switch o.Provider {
	case "postgres":
		return postgres.NewStore(ctx, postgres.Config{
			DSN:        o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "sqlite":
		return sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "qdrant":
		host, port, err := splitHostPort(o.Target)
		if err != nil {
			return nil, fmt.Errorf("parsing qdrant target %q: %w", o.Target, err)
		}
		return qdrant.NewStore(ctx, qdrant.Config{
			Host:        host,
			Port:        port,
			APIKey:      o.APIKey,
			Collection:  o.Collection,
			Dimensions:  o.Dimensions,
			ScrollLimit: o.ScrollLimit,
		}, o.Logger)
	case "memory":
		return memory.NewStore(o.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported chunk store provider: %s", o.Provider)
	}
}

func splitHostPort(target string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, port, nil
}
