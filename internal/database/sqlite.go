package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/techvote/techvote/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS check_records (
			id TEXT PRIMARY KEY,
			request_hash TEXT NOT NULL,
			category TEXT NOT NULL,
			has_media INTEGER NOT NULL,
			status TEXT NOT NULL,
			is_harmful INTEGER NOT NULL,
			source TEXT NOT NULL,
			provider TEXT,
			duration_ms INTEGER NOT NULL,
			result_json TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_check_records_hash ON check_records(request_hash)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const checkColumns = `id, request_hash, category, has_media, status, is_harmful, source, provider, duration_ms, result_json, created_at`

// SaveCheck stores a rumor-check record.
func (s *SQLiteStore) SaveCheck(ctx context.Context, rec *models.CheckRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_records (`+checkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestHash, rec.Category, rec.HasMedia, rec.Status, rec.IsHarmful,
		rec.Source, rec.Provider, rec.DurationMs, rec.ResultJSON, rec.CreatedAt,
	)
	return err
}

// GetCheckByHash retrieves the latest remote result for a request hash.
func (s *SQLiteStore) GetCheckByHash(ctx context.Context, hash string) (*models.CheckRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+checkColumns+`
		FROM check_records WHERE request_hash = ? AND source = ?
		ORDER BY created_at DESC LIMIT 1`, hash, models.SourceRemote)

	rec, err := scanCheck(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListChecks returns paginated check records, newest first.
func (s *SQLiteStore) ListChecks(ctx context.Context, limit, offset int) ([]*models.CheckRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+checkColumns+`
		FROM check_records ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.CheckRecord
	for rows.Next() {
		rec, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheck(row scanner) (*models.CheckRecord, error) {
	var rec models.CheckRecord
	var provider sql.NullString
	err := row.Scan(&rec.ID, &rec.RequestHash, &rec.Category, &rec.HasMedia, &rec.Status,
		&rec.IsHarmful, &rec.Source, &provider, &rec.DurationMs, &rec.ResultJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Provider = provider.String
	return &rec, nil
}

// LogRequest stores an audit log entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, log *models.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, session_id, endpoint, method, request_size, response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.SessionID, log.Endpoint, log.Method, log.RequestSize,
		log.ResponseCode, log.DurationMs, log.Timestamp)
	return err
}

// GetAuditLogs returns paginated audit logs.
func (s *SQLiteStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, endpoint, method, request_size, response_code, duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
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
