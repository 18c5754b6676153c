package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"trainhub-session/internal/common/config"
	"trainhub-session/internal/models"
)

// PostgresStore keeps the token pair as named rows in a small key-value
// table, for deployments where sessions must survive the host.
type PostgresStore struct {
	db *sql.DB
}

const (
	accessTokenName  = "accessToken"
	refreshTokenName = "refreshToken"
)

// NewPostgresStore opens a connection pool and returns the store.
func NewPostgresStore(cfg config.PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing handle, used by tests.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping tests the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the token table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_tokens (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create session_tokens table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*models.TokenPair, error) {
	var access string
	query := `SELECT value FROM session_tokens WHERE name = $1`
	err := s.db.QueryRowContext(ctx, query, accessTokenName).Scan(&access)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	var refresh string
	err = s.db.QueryRowContext(ctx, query, refreshTokenName).Scan(&refresh)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *PostgresStore) Save(ctx context.Context, pair *models.TokenPair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO session_tokens (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`

	if _, err := tx.ExecContext(ctx, upsert, accessTokenName, pair.Access); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, refreshTokenName, pair.Refresh); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tokens: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE name IN ($1, $2)`,
		accessTokenName, refreshTokenName)
	if err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
