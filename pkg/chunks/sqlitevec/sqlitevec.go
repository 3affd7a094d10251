// Package sqlitevec provides a SQLite-backed chunk store using sqlite-vec,
// for single-file deployments and local corpora. Unlike the Postgres
// store it also supports seeding via Add.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// Store implements chunks.Store using SQLite with sqlite-vec.
type Store struct {
	db     *sql.DB
	dims   int
	logger *slog.Logger
}

// Config holds configuration for the SQLite vec store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the embedding dimensionality. Required.
	Dimensions int
}

// NewStore opens (and if needed initializes) a sqlite-vec backed store.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", c.Dimensions)
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			chunk_id TEXT NOT NULL UNIQUE,
			doc_id TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			council TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			ministry TEXT NOT NULL DEFAULT '',
			ordinal INTEGER NOT NULL DEFAULT 0,
			mode TEXT NOT NULL,
			content TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	// vec0 virtual tables use integer rowids; chunk_embeddings rows share
	// rowids with the chunks table.
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_embeddings USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec chunk store initialized",
		"db_path", c.DBPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return &Store{
		db:     db,
		dims:   c.Dimensions,
		logger: logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// deserializeFloat32 converts a little-endian byte slice back to a float32 slice.
func deserializeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Add stores chunks with their embeddings. An existing chunk with the
// same ID is replaced.
func (s *Store) Add(ctx context.Context, cs []chunks.Chunk) error {
	if len(cs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cs {
		if !c.Mode.Valid() {
			return fmt.Errorf("%w: %q", chunks.ErrInvalidMode, c.Mode)
		}
		if len(c.Embedding) != s.dims {
			return &chunks.DimensionError{ChunkID: c.ID, Got: len(c.Embedding), Want: s.dims}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (chunk_id, doc_id, url, council, date, ministry, ordinal, mode, content)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(chunk_id) DO UPDATE SET
				doc_id = excluded.doc_id,
				url = excluded.url,
				council = excluded.council,
				date = excluded.date,
				ministry = excluded.ministry,
				ordinal = excluded.ordinal,
				mode = excluded.mode,
				content = excluded.content
		`, c.ID, c.Document.ID, c.Document.URL, c.Document.Council, c.Document.Date,
			c.Document.Ministry, c.Ordinal, string(c.Mode), c.Content())
		if err != nil {
			return fmt.Errorf("upserting chunk %s: %w", c.ID, err)
		}

		// LastInsertId is not usable here: when the conflict branch fires,
		// last_insert_rowid() still holds the rowid of an earlier insert on
		// this connection. Always resolve the rowid by chunk_id.
		var rowid int64
		if err := tx.QueryRowContext(ctx, `SELECT rowid FROM chunks WHERE chunk_id = ?`, c.ID).Scan(&rowid); err != nil {
			return fmt.Errorf("resolving rowid for chunk %s: %w", c.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM chunk_embeddings WHERE rowid = ?`, rowid); err != nil {
			return fmt.Errorf("clearing embedding for chunk %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_embeddings (rowid, embedding) VALUES (?, ?)`,
			rowid, serializeFloat32(c.Embedding),
		); err != nil {
			return fmt.Errorf("storing embedding for chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}

	return nil
}

// Candidates returns all chunks of the given mode passing the filter.
func (s *Store) Candidates(ctx context.Context, mode chunks.Mode, filter chunks.Filter) ([]chunks.Chunk, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", chunks.ErrInvalidMode, mode)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.chunk_id, c.doc_id, c.url, c.council, c.date, c.ministry, c.ordinal, c.content, e.embedding
		FROM chunks c
		JOIN chunk_embeddings e ON e.rowid = c.rowid
		WHERE c.mode = ? AND (? = '' OR c.ministry = ?)
		ORDER BY c.doc_id, c.ordinal
	`, string(mode), filter.Ministry, filter.Ministry)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", chunks.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []chunks.Chunk
	for rows.Next() {
		var c chunks.Chunk
		var content string
		var blob []byte
		c.Mode = mode

		err := rows.Scan(&c.ID, &c.Document.ID, &c.Document.URL, &c.Document.Council,
			&c.Document.Date, &c.Document.Ministry, &c.Ordinal, &content, &blob)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", chunks.ErrUnavailable, err)
		}

		if mode == chunks.ModeSummary {
			c.Summary = content
		} else {
			c.Text = content
		}

		c.Embedding, err = deserializeFloat32(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for chunk %s: %w", c.ID, err)
		}
		if len(c.Embedding) != s.dims {
			return nil, &chunks.DimensionError{ChunkID: c.ID, Got: len(c.Embedding), Want: s.dims}
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading chunks: %v", chunks.ErrUnavailable, err)
	}

	return out, nil
}

// Ping verifies database reachability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", chunks.ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ chunks.Store = (*Store)(nil)
