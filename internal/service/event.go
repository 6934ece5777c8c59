package service

import (
	"context"
	"fmt"

	"partyvote/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	GetAll(ctx context.Context) ([]domain.Event, error)
	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, privileged bool) ([]domain.Event, error) {
	events, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetAll -> %w", err)
	}

	visible := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if EventVisible(e, privileged) {
			visible = append(visible, e)
		}
	}

	return visible, nil
}

// RecordTicket mirrors a delivered ticket from the shop so vote codes can
// be issued against it.
func (s *EventService) RecordTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if _, err := s.repo.GetByID(ctx, ticket.EventID); err != nil {
		return domain.Ticket{}, err
	}

	created, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.CreateTicket -> %w", err)
	}

	return created, nil
}
