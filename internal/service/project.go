package service

import (
	"context"
	"fmt"
	"time"

	"github.com/joshuacasinadaptica/NexusPM/internal/ident"
	"github.com/joshuacasinadaptica/NexusPM/internal/project"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
)

// ProjectService covers projects, teams and members.
type ProjectService struct {
	store *store.Store
}

// CreateProject validates the key and inserts the project.
func (s *ProjectService) CreateProject(ctx context.Context, key, name, description string) (project.Project, error) {
	if err := project.ValidateKey(key); err != nil {
		return project.Project{}, err
	}

	if name == "" {
		return project.Project{}, project.ErrNameEmpty
	}

	id, err := ident.Unique(func(id string) bool { return s.store.ProjectExists(ctx, id) })
	if err != nil {
		return project.Project{}, err
	}

	p := project.Project{
		ID:          id,
		Key:         key,
		Name:        name,
		Description: description,
		Created:     time.Now().UTC(),
	}

	if err := s.store.CreateProject(ctx, p); err != nil {
		return project.Project{}, err
	}

	return p, nil
}

// ListProjects returns all projects ordered by key.
func (s *ProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	return s.store.ListProjects(ctx)
}

// GetProject resolves a project by key.
func (s *ProjectService) GetProject(ctx context.Context, key string) (project.Project, error) {
	return s.store.GetProjectByKey(ctx, key)
}

// CreateTeam inserts a team.
func (s *ProjectService) CreateTeam(ctx context.Context, name string) (project.Team, error) {
	if name == "" {
		return project.Team{}, project.ErrNameEmpty
	}

	id, err := ident.Unique(func(id string) bool { return s.store.TeamExists(ctx, id) })
	if err != nil {
		return project.Team{}, err
	}

	t := project.Team{ID: id, Name: name, Created: time.Now().UTC()}

	if err := s.store.CreateTeam(ctx, t); err != nil {
		return project.Team{}, err
	}

	return t, nil
}

// ListTeams returns all teams with member and project counts.
func (s *ProjectService) ListTeams(ctx context.Context) ([]store.TeamSummary, error) {
	return s.store.ListTeams(ctx)
}

// AddMember creates a member and links them to the named team.
func (s *ProjectService) AddMember(ctx context.Context, teamName, memberName, role string) (project.Member, error) {
	if memberName == "" {
		return project.Member{}, project.ErrNameEmpty
	}

	team, err := s.store.GetTeamByName(ctx, teamName)
	if err != nil {
		return project.Member{}, err
	}

	id, err := ident.Unique(func(id string) bool { return s.store.MemberExists(ctx, id) })
	if err != nil {
		return project.Member{}, err
	}

	m := project.Member{ID: id, Name: memberName, Role: role, Created: time.Now().UTC()}

	if err := s.store.CreateMember(ctx, m); err != nil {
		return project.Member{}, err
	}

	if err := s.store.AddTeamMember(ctx, team.ID, m.ID); err != nil {
		return project.Member{}, err
	}

	return m, nil
}

// AssignTeam assigns a team to a project, both by user-facing names.
func (s *ProjectService) AssignTeam(ctx context.Context, teamName, projectKey string) error {
	team, err := s.store.GetTeamByName(ctx, teamName)
	if err != nil {
		return err
	}

	projectID, err := resolveProject(ctx, s.store, projectKey)
	if err != nil {
		return err
	}

	if err := s.store.AssignTeamProject(ctx, team.ID, projectID); err != nil {
		return fmt.Errorf("assign team %s to %s: %w", teamName, projectKey, err)
	}

	return nil
}
