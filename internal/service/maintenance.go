package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"partyvote/internal/domain"
	"partyvote/internal/pkg/keyedmutex"
	"partyvote/internal/repository"
)

var (
	ErrEventNotArchived   = errors.New("event is not archived")
	ErrTicketNotFound     = repository.ErrTicketNotFound
	ErrTicketNotBacking   = repository.ErrTicketLinkNotFound
	ErrTicketMismatch     = errors.New("target ticket cannot back a vote code")
	ErrTicketAlreadyBacks = errors.New("target ticket already backs another vote code")
)

type MaintenanceEventRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	GetTicketByID(ctx context.Context, id uint) (domain.Ticket, error)
}

type MaintenanceCompoRepository interface {
	GetByEventID(ctx context.Context, eventID uint) ([]domain.Compo, error)
}

type MaintenanceCompetitionRepository interface {
	GetByEventID(ctx context.Context, eventID uint) ([]domain.Competition, error)
}

type MaintenanceBallotRepository interface {
	DeleteVotesByCompoID(ctx context.Context, compoID uint) (int64, error)
}

type MaintenanceVoteCodeRepository interface {
	FindLinkByTicketID(ctx context.Context, ticketID uint) (domain.TicketVoteCode, error)
	UpdateLinkTicket(ctx context.Context, linkID, ticketID uint) error
}

type MaintenanceScorer interface {
	RecomputeCompo(ctx context.Context, compoID uint) error
	RecomputeCompetition(ctx context.Context, competitionID uint) error
}

// MaintenanceService runs the administrative bulk jobs. Jobs for the same
// event serialize; different events run in parallel. A job never aborts on
// a single bad entity, it records the failure and moves on.
type MaintenanceService struct {
	events       MaintenanceEventRepository
	compos       MaintenanceCompoRepository
	competitions MaintenanceCompetitionRepository
	ballots      MaintenanceBallotRepository
	codes        MaintenanceVoteCodeRepository
	scorer       MaintenanceScorer

	eventLocks *keyedmutex.KeyedMutex
}

func NewMaintenanceService(
	events MaintenanceEventRepository,
	compos MaintenanceCompoRepository,
	competitions MaintenanceCompetitionRepository,
	ballots MaintenanceBallotRepository,
	codes MaintenanceVoteCodeRepository,
	scorer MaintenanceScorer,
) *MaintenanceService {
	return &MaintenanceService{
		events:       events,
		compos:       compos,
		competitions: competitions,
		ballots:      ballots,
		codes:        codes,
		scorer:       scorer,
		eventLocks:   keyedmutex.New(),
	}
}

// OptimizeScores recomputes every compo and competition of the event from
// stored data. Safe to run any number of times.
func (s *MaintenanceService) OptimizeScores(ctx context.Context, eventID uint) (domain.MaintenanceResult, error) {
	s.eventLocks.Lock(eventID)
	defer s.eventLocks.Unlock(eventID)

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return domain.MaintenanceResult{}, err
	}

	var result domain.MaintenanceResult

	compos, err := s.compos.GetByEventID(ctx, eventID)
	if err != nil {
		return domain.MaintenanceResult{}, fmt.Errorf("s.compos.GetByEventID -> %w", err)
	}
	for _, c := range compos {
		if err := s.scorer.RecomputeCompo(ctx, c.ID); err != nil {
			result.Failed = append(result.Failed, domain.MaintenanceFailure{EntityID: c.ID, Reason: err.Error()})
			continue
		}
		result.Processed++
	}

	competitions, err := s.competitions.GetByEventID(ctx, eventID)
	if err != nil {
		return domain.MaintenanceResult{}, fmt.Errorf("s.competitions.GetByEventID -> %w", err)
	}
	for _, c := range competitions {
		if err := s.scorer.RecomputeCompetition(ctx, c.ID); err != nil {
			result.Failed = append(result.Failed, domain.MaintenanceFailure{EntityID: c.ID, Reason: err.Error()})
			continue
		}
		result.Processed++
	}

	zap.L().Info("optimize scores finished",
		zap.Uint("event_id", eventID),
		zap.Int("processed", result.Processed),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

// RemoveOldVotes deletes the individual ballots of an archived event while
// keeping the computed scores and ranks. One way, for privacy and storage.
func (s *MaintenanceService) RemoveOldVotes(ctx context.Context, eventID uint) (domain.MaintenanceResult, error) {
	s.eventLocks.Lock(eventID)
	defer s.eventLocks.Unlock(eventID)

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return domain.MaintenanceResult{}, err
	}
	if !event.Archived {
		return domain.MaintenanceResult{}, ErrEventNotArchived
	}

	compos, err := s.compos.GetByEventID(ctx, eventID)
	if err != nil {
		return domain.MaintenanceResult{}, fmt.Errorf("s.compos.GetByEventID -> %w", err)
	}

	var result domain.MaintenanceResult
	for _, c := range compos {
		deleted, err := s.ballots.DeleteVotesByCompoID(ctx, c.ID)
		if err != nil {
			result.Failed = append(result.Failed, domain.MaintenanceFailure{EntityID: c.ID, Reason: err.Error()})
			continue
		}
		result.Processed += int(deleted)
	}

	zap.L().Info("old votes removed",
		zap.Uint("event_id", eventID),
		zap.Int("ballots_deleted", result.Processed),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

// TransferRights moves the ticket backing a vote code to another ticket of
// the same event, for re-issued tickets after a refund or exchange. The
// vote code and any ballots cast under it are untouched.
func (s *MaintenanceService) TransferRights(ctx context.Context, eventID, fromTicketID, toTicketID uint) (domain.MaintenanceResult, error) {
	s.eventLocks.Lock(eventID)
	defer s.eventLocks.Unlock(eventID)

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return domain.MaintenanceResult{}, err
	}

	from, err := s.events.GetTicketByID(ctx, fromTicketID)
	if err != nil {
		return domain.MaintenanceResult{}, err
	}
	if from.EventID != eventID {
		return domain.MaintenanceResult{}, ErrTicketMismatch
	}

	link, err := s.codes.FindLinkByTicketID(ctx, fromTicketID)
	if err != nil {
		return domain.MaintenanceResult{}, err
	}

	to, err := s.events.GetTicketByID(ctx, toTicketID)
	if err != nil {
		return domain.MaintenanceResult{}, err
	}
	if to.EventID != eventID || !to.Delivered || !to.VoteEligible {
		return domain.MaintenanceResult{}, ErrTicketMismatch
	}

	if _, err = s.codes.FindLinkByTicketID(ctx, toTicketID); err == nil {
		return domain.MaintenanceResult{}, ErrTicketAlreadyBacks
	} else if !errors.Is(err, repository.ErrTicketLinkNotFound) {
		return domain.MaintenanceResult{}, fmt.Errorf("s.codes.FindLinkByTicketID -> %w", err)
	}

	if err = s.codes.UpdateLinkTicket(ctx, link.ID, toTicketID); err != nil {
		return domain.MaintenanceResult{}, fmt.Errorf("s.codes.UpdateLinkTicket -> %w", err)
	}

	zap.L().Info("voting rights transferred",
		zap.Uint("event_id", eventID),
		zap.Uint("from_ticket_id", fromTicketID),
		zap.Uint("to_ticket_id", toTicketID),
		zap.Uint("vote_code_id", link.VoteCodeID),
	)

	return domain.MaintenanceResult{Processed: 1}, nil
}
