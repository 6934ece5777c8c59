package service

import (
	"context"
	"errors"
	"fmt"

	"partyvote/internal/domain"
	"partyvote/internal/pkg/votecode"
	"partyvote/internal/repository"
)

var (
	ErrEventNotFound    = repository.ErrEventNotFound
	ErrRequestNotFound  = repository.ErrRequestNotFound
	ErrDuplicateRequest = errors.New("a vote code request already exists")
	ErrRequestClosed    = errors.New("request has already been decided")
)

type VoteCodeEventRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	FindEligibleTicket(ctx context.Context, eventID, ownerID uint) (domain.Ticket, error)
}

type VoteCodeRepository interface {
	Create(ctx context.Context, code domain.VoteCode, ticketID *uint) (domain.VoteCode, error)
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (domain.VoteCode, error)
	CreateRequest(ctx context.Context, req domain.VoteCodeRequest) (domain.VoteCodeRequest, error)
	GetRequestByID(ctx context.Context, id uint) (domain.VoteCodeRequest, error)
	FindRequestByEventAndUser(ctx context.Context, eventID, userID uint) (domain.VoteCodeRequest, error)
	UpdateRequestStatus(ctx context.Context, id uint, status string) error
	ReopenRequest(ctx context.Context, id uint, reason string) (domain.VoteCodeRequest, error)
}

// VoteCodeService issues voting credentials and runs the request workflow
// for users without an eligible ticket.
type VoteCodeService struct {
	events   VoteCodeEventRepository
	codes    VoteCodeRepository
	notifier Notifier
}

func NewVoteCodeService(events VoteCodeEventRepository, codes VoteCodeRepository, notifier Notifier) *VoteCodeService {
	return &VoteCodeService{
		events:   events,
		codes:    codes,
		notifier: notifier,
	}
}

// IssueOrGet returns the user's vote code for the event, issuing one if a
// delivered vote-eligible ticket or an approved request backs it. At most
// one code exists per (event, user) no matter how many tickets the user
// holds; repeated calls return the same code.
func (s *VoteCodeService) IssueOrGet(ctx context.Context, eventID, userID uint) (domain.VoteCode, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return domain.VoteCode{}, err
	}

	existing, err := s.codes.FindByEventAndUser(ctx, eventID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrVoteCodeNotFound) {
		return domain.VoteCode{}, fmt.Errorf("s.codes.FindByEventAndUser -> %w", err)
	}

	ticket, err := s.events.FindEligibleTicket(ctx, eventID, userID)
	if err == nil {
		return s.issue(ctx, eventID, userID, domain.VoteCodeOriginTicket, &ticket.ID)
	}
	if !errors.Is(err, repository.ErrTicketNotFound) {
		return domain.VoteCode{}, fmt.Errorf("s.events.FindEligibleTicket -> %w", err)
	}

	req, err := s.codes.FindRequestByEventAndUser(ctx, eventID, userID)
	if err == nil && req.Status == domain.RequestStatusApproved {
		return s.issue(ctx, eventID, userID, domain.VoteCodeOriginRequest, nil)
	}
	if err != nil && !errors.Is(err, repository.ErrRequestNotFound) {
		return domain.VoteCode{}, fmt.Errorf("s.codes.FindRequestByEventAndUser -> %w", err)
	}

	return domain.VoteCode{}, ErrNotEligible
}

// RequestCode opens (or re-opens after a rejection) a vote code request. A
// pending or approved request for the same (event, user) is a conflict.
func (s *VoteCodeService) RequestCode(ctx context.Context, eventID, userID uint, reason string) (domain.VoteCodeRequest, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return domain.VoteCodeRequest{}, err
	}

	existing, err := s.codes.FindRequestByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrRequestNotFound) {
			return domain.VoteCodeRequest{}, fmt.Errorf("s.codes.FindRequestByEventAndUser -> %w", err)
		}

		created, err := s.codes.CreateRequest(ctx, domain.VoteCodeRequest{
			EventID: eventID,
			UserID:  userID,
			Reason:  reason,
		})
		if err != nil {
			// A racing request won the unique check; report the conflict.
			if errors.Is(err, repository.ErrRequestExists) {
				return domain.VoteCodeRequest{}, ErrDuplicateRequest
			}

			return domain.VoteCodeRequest{}, fmt.Errorf("s.codes.CreateRequest -> %w", err)
		}

		return created, nil
	}

	switch existing.Status {
	case domain.RequestStatusRejected:
		reopened, err := s.codes.ReopenRequest(ctx, existing.ID, reason)
		if err != nil {
			return domain.VoteCodeRequest{}, fmt.Errorf("s.codes.ReopenRequest -> %w", err)
		}

		return reopened, nil
	default:
		return domain.VoteCodeRequest{}, ErrDuplicateRequest
	}
}

// ApproveRequest moves a pending request to approved, issuing a vote code
// as a side effect. Approving an already approved request is a no-op that
// still guarantees the code exists.
func (s *VoteCodeService) ApproveRequest(ctx context.Context, requestID uint) (domain.VoteCodeRequest, error) {
	req, err := s.codes.GetRequestByID(ctx, requestID)
	if err != nil {
		return domain.VoteCodeRequest{}, err
	}

	switch req.Status {
	case domain.RequestStatusRejected:
		return domain.VoteCodeRequest{}, ErrRequestClosed
	case domain.RequestStatusApproved:
		if _, err = s.issue(ctx, req.EventID, req.UserID, domain.VoteCodeOriginRequest, nil); err != nil {
			return domain.VoteCodeRequest{}, err
		}

		return req, nil
	}

	if _, err = s.issue(ctx, req.EventID, req.UserID, domain.VoteCodeOriginRequest, nil); err != nil {
		return domain.VoteCodeRequest{}, err
	}

	if err = s.codes.UpdateRequestStatus(ctx, req.ID, domain.RequestStatusApproved); err != nil {
		return domain.VoteCodeRequest{}, fmt.Errorf("s.codes.UpdateRequestStatus -> %w", err)
	}
	req.Status = domain.RequestStatusApproved

	s.notifier.VoteCodeRequestApproved(ctx, req)

	return req, nil
}

// RejectRequest moves a pending request to rejected. No code is issued.
// Rejecting twice is a no-op; rejecting an approved request is refused.
func (s *VoteCodeService) RejectRequest(ctx context.Context, requestID uint) (domain.VoteCodeRequest, error) {
	req, err := s.codes.GetRequestByID(ctx, requestID)
	if err != nil {
		return domain.VoteCodeRequest{}, err
	}

	switch req.Status {
	case domain.RequestStatusApproved:
		return domain.VoteCodeRequest{}, ErrRequestClosed
	case domain.RequestStatusRejected:
		return req, nil
	}

	if err = s.codes.UpdateRequestStatus(ctx, req.ID, domain.RequestStatusRejected); err != nil {
		return domain.VoteCodeRequest{}, fmt.Errorf("s.codes.UpdateRequestStatus -> %w", err)
	}
	req.Status = domain.RequestStatusRejected

	s.notifier.VoteCodeRequestRejected(ctx, req)

	return req, nil
}

// issue creates a vote code, falling back to the already stored one when a
// concurrent call won the unique check. Either way the caller ends up with
// the single code for (event, user).
func (s *VoteCodeService) issue(ctx context.Context, eventID, userID uint, origin string, ticketID *uint) (domain.VoteCode, error) {
	code, err := votecode.Generate()
	if err != nil {
		return domain.VoteCode{}, fmt.Errorf("votecode.Generate -> %w", err)
	}

	created, err := s.codes.Create(ctx, domain.VoteCode{
		EventID: eventID,
		UserID:  userID,
		Code:    code,
		Origin:  origin,
	}, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrVoteCodeExists) {
			existing, ferr := s.codes.FindByEventAndUser(ctx, eventID, userID)
			if ferr != nil {
				return domain.VoteCode{}, fmt.Errorf("s.codes.FindByEventAndUser -> %w", ferr)
			}

			return existing, nil
		}

		return domain.VoteCode{}, fmt.Errorf("s.codes.Create -> %w", err)
	}

	return created, nil
}
