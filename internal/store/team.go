package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joshuacasinadaptica/NexusPM/internal/project"
)

// CreateTeam inserts a team. A taken name returns ErrDuplicateKey.
func (s *Store) CreateTeam(ctx context.Context, t project.Team) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.Created.Unix())
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("team %q: %w", t.Name, ErrDuplicateKey)
		}

		return fmt.Errorf("create team: %w", err)
	}

	return nil
}

// GetTeamByName resolves a team by name.
func (s *Store) GetTeamByName(ctx context.Context, name string) (project.Team, error) {
	if s == nil || s.sql == nil {
		return project.Team{}, errStoreClosed
	}

	var (
		t       project.Team
		created int64
	)

	err := s.sql.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM teams WHERE name = ?`, name).
		Scan(&t.ID, &t.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Team{}, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
	}

	if err != nil {
		return project.Team{}, fmt.Errorf("get team: %w", err)
	}

	t.Created = unixTime(created)

	return t, nil
}

// TeamSummary is a team with its member and project counts, for listings.
type TeamSummary struct {
	Team     project.Team
	Members  int
	Projects int
}

// ListTeams returns all teams with counts, ordered by name.
func (s *Store) ListTeams(ctx context.Context) ([]TeamSummary, error) {
	if s == nil || s.sql == nil {
		return nil, errStoreClosed
	}

	rows, err := s.sql.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at,
			(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id),
			(SELECT COUNT(*) FROM team_projects tp WHERE tp.team_id = t.id)
		FROM teams t ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var out []TeamSummary

	for rows.Next() {
		var (
			summary TeamSummary
			created int64
		)

		scanErr := rows.Scan(&summary.Team.ID, &summary.Team.Name, &created,
			&summary.Members, &summary.Projects)
		if scanErr != nil {
			return nil, fmt.Errorf("list teams: %w", scanErr)
		}

		summary.Team.Created = unixTime(created)
		out = append(out, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return out, nil
}

// CreateMember inserts a member.
func (s *Store) CreateMember(ctx context.Context, m project.Member) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO members (id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Role, m.Created.Unix())
	if err != nil {
		return fmt.Errorf("create member: %w", err)
	}

	return nil
}

// AddTeamMember links a member to a team. Adding twice is a no-op.
func (s *Store) AddTeamMember(ctx context.Context, teamID, memberID string) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT OR IGNORE INTO team_members (team_id, member_id) VALUES (?, ?)`,
		teamID, memberID)
	if err != nil {
		return fmt.Errorf("add team member: %w", err)
	}

	return nil
}

// AssignTeamProject assigns a team to a project. Assigning twice is a no-op.
func (s *Store) AssignTeamProject(ctx context.Context, teamID, projectID string) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT OR IGNORE INTO team_projects (team_id, project_id) VALUES (?, ?)`,
		teamID, projectID)
	if err != nil {
		return fmt.Errorf("assign team project: %w", err)
	}

	return nil
}

// MemberExists reports whether an id is already taken by a member.
func (s *Store) MemberExists(ctx context.Context, id string) bool {
	return s.rowExists(ctx, `SELECT 1 FROM members WHERE id = ?`, id)
}

// TeamExists reports whether an id is already taken by a team.
func (s *Store) TeamExists(ctx context.Context, id string) bool {
	return s.rowExists(ctx, `SELECT 1 FROM teams WHERE id = ?`, id)
}
