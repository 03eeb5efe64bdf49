package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/joshuacasinadaptica/NexusPM/internal/ticket"
)

// CreateTicket inserts a ticket.
func (s *Store) CreateTicket(ctx context.Context, t ticket.Ticket) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO tickets (id, project_id, title, status, priority, requester, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Status, t.Priority, t.Requester, t.Created.Unix())
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

// GetTicket loads a single ticket.
func (s *Store) GetTicket(ctx context.Context, id string) (ticket.Ticket, error) {
	if s == nil || s.sql == nil {
		return ticket.Ticket{}, errStoreClosed
	}

	row := s.sql.QueryRowContext(ctx,
		`SELECT id, project_id, title, status, priority, requester, created_at
		 FROM tickets WHERE id = ?`, id)

	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ticket.Ticket{}, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}

	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}

	return t, nil
}

// ListTickets returns tickets matching the query, ordered by ID.
func (s *Store) ListTickets(ctx context.Context, opts TicketQuery) ([]ticket.Ticket, error) {
	if s == nil || s.sql == nil {
		return nil, errStoreClosed
	}

	query := strings.Builder{}
	query.WriteString(`SELECT id, project_id, title, status, priority, requester, created_at FROM tickets`)

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
		query.WriteString(" LIMIT -1")
	}

	if opts.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, opts.Offset)
	}

	rows, err := s.sql.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var out []ticket.Ticket

	for rows.Next() {
		t, scanErr := scanTicket(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list tickets: %w", scanErr)
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	return out, nil
}

// UpdateTicketStatus persists a status already accepted by the workflow checker.
func (s *Store) UpdateTicketStatus(ctx context.Context, id, status string) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	res, err := s.sql.ExecContext(ctx, `UPDATE tickets SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}

	return nil
}

// TicketExists reports whether an id is already taken by a ticket.
func (s *Store) TicketExists(ctx context.Context, id string) bool {
	return s.rowExists(ctx, `SELECT 1 FROM tickets WHERE id = ?`, id)
}

// TicketStatusCounts returns the number of tickets per status for a project.
func (s *Store) TicketStatusCounts(ctx context.Context, projectID string) (map[string]int, error) {
	if s == nil || s.sql == nil {
		return nil, errStoreClosed
	}

	rows, err := s.sql.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tickets WHERE project_id = ? GROUP BY status`, projectID)
	if err != nil {
		return nil, fmt.Errorf("ticket status counts: %w", err)
	}

	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			status string
			count  int
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ticket status counts: %w", err)
		}

		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ticket status counts: %w", err)
	}

	return counts, nil
}

func scanTicket(row rowScanner) (ticket.Ticket, error) {
	var (
		t       ticket.Ticket
		created int64
	)

	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.Priority, &t.Requester, &created)
	if err != nil {
		return ticket.Ticket{}, err
	}

	t.Created = unixTime(created)

	return t, nil
}
