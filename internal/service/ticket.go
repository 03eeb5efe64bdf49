package service

import (
	"context"
	"time"

	"github.com/joshuacasinadaptica/NexusPM/internal/ident"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/ticket"
	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

// TicketService owns ticket mutations, gated by the ticket workflow and the
// tickets feature flag.
type TicketService struct {
	store     *store.Store
	workflows *workflow.Set
	enabled   bool
}

// CreateTicketInput holds the caller-supplied ticket fields.
type CreateTicketInput struct {
	ProjectKey string
	Title      string
	Priority   int
	Requester  string
}

// Create inserts a new ticket in the workflow's initial status.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (ticket.Ticket, error) {
	if !s.enabled {
		return ticket.Ticket{}, ErrTicketsDisabled
	}

	wf, err := s.workflows.ForKind(workflow.KindTicket)
	if err != nil {
		return ticket.Ticket{}, err
	}

	projectID, err := resolveProject(ctx, s.store, in.ProjectKey)
	if err != nil {
		return ticket.Ticket{}, err
	}

	priority := in.Priority
	if priority == 0 {
		priority = ticket.DefaultPriority
	}

	t := ticket.Ticket{
		ProjectID: projectID,
		Title:     in.Title,
		Status:    wf.Initial(),
		Priority:  priority,
		Requester: in.Requester,
		Created:   time.Now().UTC(),
	}

	if err := t.Validate(); err != nil {
		return ticket.Ticket{}, err
	}

	t.ID, err = ident.Unique(func(id string) bool { return s.store.TicketExists(ctx, id) })
	if err != nil {
		return ticket.Ticket{}, err
	}

	if err := s.store.CreateTicket(ctx, t); err != nil {
		return ticket.Ticket{}, err
	}

	return t, nil
}

// Get loads a ticket.
func (s *TicketService) Get(ctx context.Context, id string) (ticket.Ticket, error) {
	if !s.enabled {
		return ticket.Ticket{}, ErrTicketsDisabled
	}

	return s.store.GetTicket(ctx, id)
}

// List returns tickets matching the query.
func (s *TicketService) List(ctx context.Context, projectKey string, opts store.TicketQuery) ([]ticket.Ticket, error) {
	if !s.enabled {
		return nil, ErrTicketsDisabled
	}

	if projectKey != "" {
		projectID, err := resolveProject(ctx, s.store, projectKey)
		if err != nil {
			return nil, err
		}

		opts.ProjectID = projectID
	}

	return s.store.ListTickets(ctx, opts)
}

// Move validates a status change against the ticket workflow and persists
// it. Returns the accepted status.
func (s *TicketService) Move(ctx context.Context, id, proposed string) (string, error) {
	if !s.enabled {
		return "", ErrTicketsDisabled
	}

	wf, err := s.workflows.ForKind(workflow.KindTicket)
	if err != nil {
		return "", err
	}

	t, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return "", err
	}

	accepted, err := wf.Transition(t.Status, proposed)
	if err != nil {
		return "", err
	}

	if accepted == t.Status {
		return accepted, nil // idempotent no-op, nothing to persist
	}

	if err := s.store.UpdateTicketStatus(ctx, id, accepted); err != nil {
		return "", err
	}

	return accepted, nil
}
