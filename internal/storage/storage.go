package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskserver/internal/model"
)

// ErrNotConnected is returned when the gateway is used before Connect.
var ErrNotConnected = errors.New("storage: not connected")

const (
	defaultMinConns       = 2
	defaultMaxConns       = 10
	defaultCommandTimeout = 60 * time.Second
	defaultSlowThreshold  = 100 * time.Millisecond
)

// Config controls the connection pool.
type Config struct {
	// DSN is the postgres connection string.
	DSN string
	// MinConns / MaxConns bound the pool; zero values take the defaults.
	MinConns int32
	MaxConns int32
	// CommandTimeout bounds every statement; the sole defense against a
	// runaway query.
	CommandTimeout time.Duration
	// SlowThreshold is the duration above which a statement logs at Warn.
	SlowThreshold time.Duration
}

// CommandResult summarizes a mutating statement. Rows is populated for
// statements with a RETURNING clause.
type CommandResult struct {
	RowsAffected int64
	Rows         []map[string]any
}

// Gateway is the pooled database access layer. It holds no state beyond
// the pool; every method borrows a connection for the duration of one
// statement.
type Gateway struct {
	cfg    Config
	logger *zap.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func New(cfg Config, logger *zap.Logger) *Gateway {
	if cfg.MinConns == 0 {
		cfg.MinConns = defaultMinConns
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = defaultCommandTimeout
	}
	if cfg.SlowThreshold == 0 {
		cfg.SlowThreshold = defaultSlowThreshold
	}
	return &Gateway{cfg: cfg, logger: logger}
}

// Connect initializes the connection pool and pings the database.
// It is idempotent; a second call on a connected gateway is a no-op.
func (g *Gateway) Connect(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		return nil
	}

	poolCfg, err := pgxpool.ParseConfig(g.cfg.DSN)
	if err != nil {
		return fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MinConns = g.cfg.MinConns
	poolCfg.MaxConns = g.cfg.MaxConns
	poolCfg.MaxConnIdleTime = time.Minute
	poolCfg.ConnConfig.Tracer = newQueryTracer(g.logger, g.cfg.SlowThreshold)

	g.logger.Info("Initializing PostgreSQL connection pool",
		zap.Int32("min_conns", g.cfg.MinConns),
		zap.Int32("max_conns", g.cfg.MaxConns),
	)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("ping: %w", err)
	}

	g.pool = pool
	g.logger.Info("PostgreSQL connection established successfully")
	return nil
}

// Close releases the pool. Idempotent.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		g.pool.Close()
		g.pool = nil
		g.logger.Info("PostgreSQL connection pool closed")
	}
}

// Ping reports whether the database is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	pool, err := g.connection()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (g *Gateway) connection() (*pgxpool.Pool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool == nil {
		return nil, ErrNotConnected
	}
	return g.pool, nil
}

// RunQuery executes a read-only statement and returns the rows as
// field-name to value maps.
func (g *Gateway) RunQuery(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	pool, err := g.connection()
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, g.cfg.CommandTimeout)
	defer cancel()

	rows, err := pool.Query(queryCtx, sql, args...)
	if err != nil {
		g.logger.Error("Query execution failed", zap.Error(err), zap.String("sql", sql))
		return nil, fmt.Errorf("query: %w", err)
	}
	out, err := collectRows(rows)
	if err != nil {
		g.logger.Error("Row collection failed", zap.Error(err), zap.String("sql", sql))
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	return out, nil
}

// RunCommand executes a mutating statement. For statements with a
// RETURNING clause the returned rows are populated as well.
func (g *Gateway) RunCommand(ctx context.Context, sql string, args ...any) (CommandResult, error) {
	pool, err := g.connection()
	if err != nil {
		return CommandResult{}, err
	}

	cmdCtx, cancel := context.WithTimeout(ctx, g.cfg.CommandTimeout)
	defer cancel()

	rows, err := pool.Query(cmdCtx, sql, args...)
	if err != nil {
		g.logger.Error("Command execution failed", zap.Error(err), zap.String("sql", sql))
		return CommandResult{}, fmt.Errorf("command: %w", err)
	}
	returned, err := collectRows(rows)
	if err != nil {
		g.logger.Error("Command row collection failed", zap.Error(err), zap.String("sql", sql))
		return CommandResult{}, fmt.Errorf("collect rows: %w", err)
	}
	return CommandResult{
		RowsAffected: rows.CommandTag().RowsAffected(),
		Rows:         returned,
	}, nil
}

const schemaQuery = `
	SELECT table_name, column_name, data_type, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_schema = 'public'
	ORDER BY table_name, ordinal_position
`

// IntrospectSchema enumerates the public tables with their column
// definitions.
func (g *Gateway) IntrospectSchema(ctx context.Context) (map[string][]model.Column, error) {
	rows, err := g.RunQuery(ctx, schemaQuery)
	if err != nil {
		return nil, err
	}
	return groupSchemaRows(rows), nil
}

// groupSchemaRows folds information_schema rows into a table to column
// list mapping.
func groupSchemaRows(rows []map[string]any) map[string][]model.Column {
	schema := make(map[string][]model.Column)
	for _, row := range rows {
		table, _ := row["table_name"].(string)
		if table == "" {
			continue
		}
		col := model.Column{
			Nullable: row["is_nullable"] == "YES",
		}
		col.Name, _ = row["column_name"].(string)
		col.Type, _ = row["data_type"].(string)
		if def, ok := row["column_default"].(string); ok {
			col.Default = &def
		}
		schema[table] = append(schema[table], col)
	}
	return schema
}

func collectRows(rows pgx.Rows) ([]map[string]any, error) {
	defer rows.Close()
	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
