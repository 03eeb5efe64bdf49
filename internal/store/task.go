package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joshuacasinadaptica/NexusPM/internal/task"
)

// CreateTask inserts a task with no dependencies.
func (s *Store) CreateTask(ctx context.Context, t task.Task) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, status, priority, assignee, starts_on, due_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Status, t.Priority, t.Assignee, t.StartsOn, t.DueOn, t.Created.Unix())
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// GetTask loads a single task including its dependency ids.
func (s *Store) GetTask(ctx context.Context, id string) (task.Task, error) {
	if s == nil || s.sql == nil {
		return task.Task{}, errStoreClosed
	}

	row := s.sql.QueryRowContext(ctx,
		`SELECT id, project_id, title, status, priority, assignee, starts_on, due_on, created_at
		 FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if err != nil {
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}

	deps, err := s.taskDeps(ctx, []string{id})
	if err != nil {
		return task.Task{}, err
	}

	t.DependsOn = deps[id]

	return t, nil
}

// ListTasks returns tasks matching the query, ordered by ID, with their
// dependency ids attached.
func (s *Store) ListTasks(ctx context.Context, opts TaskQuery) ([]task.Task, error) {
	if s == nil || s.sql == nil {
		return nil, errStoreClosed
	}

	query := strings.Builder{}
	query.WriteString(`SELECT id, project_id, title, status, priority, assignee, starts_on, due_on, created_at FROM tasks`)

	var (
		conds []string
		args  []any
	)

	if opts.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, opts.ProjectID)
	}

	if opts.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, opts.Status)
	}

	if opts.Assignee != "" {
		conds = append(conds, "assignee = ?")
		args = append(args, opts.Assignee)
	}

	if opts.Priority > 0 {
		conds = append(conds, "priority = ?")
		args = append(args, opts.Priority)
	}

	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	query.WriteString(" ORDER BY id")

	if opts.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		// SQLite requires LIMIT before OFFSET; -1 means unlimited.
		query.WriteString(" LIMIT -1")
	}

	if opts.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, opts.Offset)
	}

	rows, err := s.sql.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var (
		out []task.Task
		ids []string
	)

	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list tasks: %w", scanErr)
		}

		out = append(out, t)
		ids = append(ids, t.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	deps, err := s.taskDeps(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i].DependsOn = deps[out[i].ID]
	}

	return out, nil
}

// ReplaceTaskDeps replaces the full dependency set of a task atomically.
// Callers must have validated the set first.
func (s *Store) ReplaceTaskDeps(ctx context.Context, taskID string, deps []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM task_deps WHERE task_id = ?`, taskID)
		if err != nil {
			return fmt.Errorf("clear deps: %w", err)
		}

		for _, dep := range deps {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO task_deps (task_id, depends_on) VALUES (?, ?)`, taskID, dep)
			if err != nil {
				return fmt.Errorf("insert dep %s: %w", dep, err)
			}
		}

		return nil
	})
}

// UpdateTaskStatus persists a status already accepted by the workflow checker.
func (s *Store) UpdateTaskStatus(ctx context.Context, id, status string) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	res, err := s.sql.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	return nil
}

// TaskExists reports whether an id is already taken by a task.
func (s *Store) TaskExists(ctx context.Context, id string) bool {
	return s.rowExists(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id)
}

// TaskStatusCounts returns the number of tasks per status for a project.
func (s *Store) TaskStatusCounts(ctx context.Context, projectID string) (map[string]int, error) {
	if s == nil || s.sql == nil {
		return nil, errStoreClosed
	}

	rows, err := s.sql.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE project_id = ? GROUP BY status`, projectID)
	if err != nil {
		return nil, fmt.Errorf("task status counts: %w", err)
	}

	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			status string
			count  int
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("task status counts: %w", err)
		}

		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task status counts: %w", err)
	}

	return counts, nil
}

// taskDeps loads dependency ids for the given tasks, sorted per task.
func (s *Store) taskDeps(ctx context.Context, ids []string) (map[string][]string, error) {
	deps := make(map[string][]string, len(ids))

	if len(ids) == 0 {
		return deps, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.sql.QueryContext(ctx,
		`SELECT task_id, depends_on FROM task_deps WHERE task_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("load task deps: %w", err)
	}

	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var taskID, dep string

		if err := rows.Scan(&taskID, &dep); err != nil {
			return nil, fmt.Errorf("load task deps: %w", err)
		}

		deps[taskID] = append(deps[taskID], dep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load task deps: %w", err)
	}

	for id := range deps {
		sort.Strings(deps[id])
	}

	return deps, nil
}

func scanTask(row rowScanner) (task.Task, error) {
	var (
		t       task.Task
		created int64
	)

	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.Priority,
		&t.Assignee, &t.StartsOn, &t.DueOn, &created)
	if err != nil {
		return task.Task{}, err
	}

	t.Created = unixTime(created)

	return t, nil
}
