package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/joshuacasinadaptica/NexusPM/internal/project"
)

// isConstraintErr reports whether err is a SQLite uniqueness/foreign-key
// constraint violation.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error

	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// CreateProject inserts a project. A taken key returns ErrDuplicateKey.
func (s *Store) CreateProject(ctx context.Context, p project.Project) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO projects (id, key, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Key, p.Name, p.Description, p.Created.Unix())
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("project %q: %w", p.Key, ErrDuplicateKey)
		}

		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetProjectByKey resolves a project by its key.
func (s *Store) GetProjectByKey(ctx context.Context, key string) (project.Project, error) {
	if s == nil || s.sql == nil {
		return project.Project{}, errStoreClosed
	}

	row := s.sql.QueryRowContext(ctx,
		`SELECT id, key, name, description, created_at FROM projects WHERE key = ?`, key)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, key)
	}

	if err != nil {
		return project.Project{}, fmt.Errorf("get project: %w", err)
	}

	return p, nil
}

// ListProjects returns all projects ordered by key.
func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	if s == nil || s.sql == nil {
		return nil, errStoreClosed
	}

	rows, err := s.sql.QueryContext(ctx,
		`SELECT id, key, name, description, created_at FROM projects ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var out []project.Project

	for rows.Next() {
		p, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list projects: %w", scanErr)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return out, nil
}

// ProjectExists reports whether an id is already taken by a project.
func (s *Store) ProjectExists(ctx context.Context, id string) bool {
	return s.rowExists(ctx, `SELECT 1 FROM projects WHERE id = ?`, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (project.Project, error) {
	var (
		p       project.Project
		created int64
	)

	err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &created)
	if err != nil {
		return project.Project{}, err
	}

	p.Created = unixTime(created)

	return p, nil
}

// rowExists runs a single-row existence probe. Query errors count as
// "exists" so ID generation never reuses an id after a transient failure.
func (s *Store) rowExists(ctx context.Context, query string, args ...any) bool {
	if s == nil || s.sql == nil {
		return true
	}

	var one int

	err := s.sql.QueryRowContext(ctx, query, args...).Scan(&one)

	return !errors.Is(err, sql.ErrNoRows)
}
