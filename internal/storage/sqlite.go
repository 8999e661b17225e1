package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists each project snapshot as a JSON document row.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Content, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT content_json FROM projects WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	var content domain.Content
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &content, nil
}

func (s *SQLiteStore) Set(ctx context.Context, content *domain.Content) error {
	if content == nil || content.Project.ID == "" {
		return errors.New("project id is required")
	}

	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO projects (id, title, created_at, updated_at, content_json)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             title = excluded.title,
             updated_at = excluded.updated_at,
             content_json = excluded.content_json`,
		content.Project.ID,
		content.Project.Title,
		content.Project.CreatedAt,
		content.Project.UpdatedAt,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content_json FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		var content domain.Content
		if err := json.Unmarshal([]byte(payload), &content); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, content.Project)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) GenerateID() string {
	return uuid.NewString()
}
