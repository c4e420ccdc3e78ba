package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techvote/techvote/internal/models"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and runs migrations.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.Migrate(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Migrate runs database migrations.
func (s *PostgresStore) Migrate() error {
	ctx := context.Background()
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS check_records (
			id TEXT PRIMARY KEY,
			request_hash TEXT NOT NULL,
			category TEXT NOT NULL,
			has_media BOOLEAN NOT NULL,
			status TEXT NOT NULL,
			is_harmful BOOLEAN NOT NULL,
			source TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			duration_ms BIGINT NOT NULL,
			result_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_check_records_hash ON check_records(request_hash)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size BIGINT NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms BIGINT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveCheck stores a rumor-check record.
func (s *PostgresStore) SaveCheck(ctx context.Context, rec *models.CheckRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO check_records (`+checkColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.RequestHash, rec.Category, rec.HasMedia, string(rec.Status), rec.IsHarmful,
		string(rec.Source), rec.Provider, rec.DurationMs, rec.ResultJSON, rec.CreatedAt,
	)
	return err
}

// GetCheckByHash retrieves the latest remote result for a request hash.
func (s *PostgresStore) GetCheckByHash(ctx context.Context, hash string) (*models.CheckRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, request_hash, category, has_media, status, is_harmful, source, provider,
			duration_ms, result_json::text, created_at
		FROM check_records WHERE request_hash = $1 AND source = $2
		ORDER BY created_at DESC LIMIT 1`, hash, string(models.SourceRemote))

	rec, err := scanPgCheck(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListChecks returns paginated check records, newest first.
func (s *PostgresStore) ListChecks(ctx context.Context, limit, offset int) ([]*models.CheckRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, request_hash, category, has_media, status, is_harmful, source, provider,
			duration_ms, result_json::text, created_at
		FROM check_records ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.CheckRecord
	for rows.Next() {
		rec, err := scanPgCheck(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanPgCheck(row pgx.Row) (*models.CheckRecord, error) {
	var rec models.CheckRecord
	var status, source string
	err := row.Scan(&rec.ID, &rec.RequestHash, &rec.Category, &rec.HasMedia, &status,
		&rec.IsHarmful, &source, &rec.Provider, &rec.DurationMs, &rec.ResultJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Status = models.RumorStatus(status)
	rec.Source = models.CheckSource(source)
	return &rec, nil
}

// LogRequest stores an audit log entry.
func (s *PostgresStore) LogRequest(ctx context.Context, log *models.AuditLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, session_id, endpoint, method, request_size, response_code, duration_ms, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.SessionID, log.Endpoint, log.Method, log.RequestSize,
		log.ResponseCode, log.DurationMs, log.Timestamp)
	return err
}

// GetAuditLogs returns paginated audit logs.
func (s *PostgresStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, endpoint, method, request_size, response_code, duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Endpoint, &l.Method,
			&l.RequestSize, &l.ResponseCode, &l.DurationMs, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
