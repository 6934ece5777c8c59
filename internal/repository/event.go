package repository

import (
	"context"
	"fmt"

	"partyvote/internal/domain"
	"partyvote/internal/repository/dao"
)

var (
	ErrEventNotFound  = dao.ErrEventNotFound
	ErrTicketNotFound = dao.ErrTicketNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	GetByID(ctx context.Context, id uint) (dao.Event, error)
	GetAll(ctx context.Context) ([]dao.Event, error)
	InsertTicket(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	GetTicketByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindEligibleTicket(ctx context.Context, eventID, ownerID uint) (dao.Ticket, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) GetAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.InsertTicket(ctx, dao.Ticket{
		EventID:      ticket.EventID,
		OwnerID:      ticket.OwnerID,
		Delivered:    ticket.Delivered,
		VoteEligible: ticket.VoteEligible,
	})
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.InsertTicket -> %w", err)
	}

	return r.ticketDaoToDomain(created), nil
}

func (r *EventRepository) GetTicketByID(ctx context.Context, id uint) (domain.Ticket, error) {
	found, err := r.dao.GetTicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}

	return r.ticketDaoToDomain(found), nil
}

func (r *EventRepository) FindEligibleTicket(ctx context.Context, eventID, ownerID uint) (domain.Ticket, error) {
	found, err := r.dao.FindEligibleTicket(ctx, eventID, ownerID)
	if err != nil {
		return domain.Ticket{}, err
	}

	return r.ticketDaoToDomain(found), nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		VotingStart: e.VotingStart,
		VotingEnd:   e.VotingEnd,
		Archived:    e.Archived,
		Hidden:      e.Hidden,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		VotingStart: e.VotingStart,
		VotingEnd:   e.VotingEnd,
		Archived:    e.Archived,
		Hidden:      e.Hidden,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:           t.ID,
		EventID:      t.EventID,
		OwnerID:      t.OwnerID,
		Delivered:    t.Delivered,
		VoteEligible: t.VoteEligible,
		CreatedAt:    t.CreatedAt,
	}
}
