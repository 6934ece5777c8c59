package repository

import (
	"context"
	"fmt"

	"partyvote/internal/domain"
	"partyvote/internal/repository/dao"
)

var (
	ErrVoteCodeExists     = dao.ErrVoteCodeExists
	ErrVoteCodeNotFound   = dao.ErrVoteCodeNotFound
	ErrRequestNotFound    = dao.ErrRequestNotFound
	ErrRequestExists      = dao.ErrRequestExists
	ErrTicketLinkNotFound = dao.ErrTicketLinkNotFound
)

type VoteCodeDAO interface {
	Insert(ctx context.Context, code dao.VoteCode, ticketID *uint) (dao.VoteCode, error)
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (dao.VoteCode, error)
	FindLinkByTicketID(ctx context.Context, ticketID uint) (dao.TicketVoteCode, error)
	UpdateLinkTicket(ctx context.Context, linkID, ticketID uint) error
	InsertRequest(ctx context.Context, req dao.VoteCodeRequest) (dao.VoteCodeRequest, error)
	GetRequestByID(ctx context.Context, id uint) (dao.VoteCodeRequest, error)
	FindRequestByEventAndUser(ctx context.Context, eventID, userID uint) (dao.VoteCodeRequest, error)
	UpdateRequestStatus(ctx context.Context, id uint, status string) error
	ReopenRequest(ctx context.Context, id uint, reason string) (dao.VoteCodeRequest, error)
}

type VoteCodeRepository struct {
	dao VoteCodeDAO
}

func NewVoteCodeRepository(dao VoteCodeDAO) *VoteCodeRepository {
	return &VoteCodeRepository{
		dao: dao,
	}
}

func (r *VoteCodeRepository) Create(ctx context.Context, code domain.VoteCode, ticketID *uint) (domain.VoteCode, error) {
	created, err := r.dao.Insert(ctx, dao.VoteCode{
		EventID: code.EventID,
		UserID:  code.UserID,
		Code:    code.Code,
		Origin:  code.Origin,
	}, ticketID)
	if err != nil {
		return domain.VoteCode{}, err
	}

	return r.daoToDomain(created), nil
}

func (r *VoteCodeRepository) FindByEventAndUser(ctx context.Context, eventID, userID uint) (domain.VoteCode, error) {
	found, err := r.dao.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return domain.VoteCode{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *VoteCodeRepository) FindLinkByTicketID(ctx context.Context, ticketID uint) (domain.TicketVoteCode, error) {
	found, err := r.dao.FindLinkByTicketID(ctx, ticketID)
	if err != nil {
		return domain.TicketVoteCode{}, err
	}

	return domain.TicketVoteCode{
		ID:         found.ID,
		VoteCodeID: found.VoteCodeID,
		TicketID:   found.TicketID,
		CreatedAt:  found.CreatedAt,
		UpdatedAt:  found.UpdatedAt,
	}, nil
}

func (r *VoteCodeRepository) UpdateLinkTicket(ctx context.Context, linkID, ticketID uint) error {
	return r.dao.UpdateLinkTicket(ctx, linkID, ticketID)
}

func (r *VoteCodeRepository) CreateRequest(ctx context.Context, req domain.VoteCodeRequest) (domain.VoteCodeRequest, error) {
	created, err := r.dao.InsertRequest(ctx, dao.VoteCodeRequest{
		EventID: req.EventID,
		UserID:  req.UserID,
		Reason:  req.Reason,
		Status:  domain.RequestStatusPending,
	})
	if err != nil {
		return domain.VoteCodeRequest{}, err
	}

	return r.requestDaoToDomain(created), nil
}

func (r *VoteCodeRepository) GetRequestByID(ctx context.Context, id uint) (domain.VoteCodeRequest, error) {
	found, err := r.dao.GetRequestByID(ctx, id)
	if err != nil {
		return domain.VoteCodeRequest{}, err
	}

	return r.requestDaoToDomain(found), nil
}

func (r *VoteCodeRepository) FindRequestByEventAndUser(ctx context.Context, eventID, userID uint) (domain.VoteCodeRequest, error) {
	found, err := r.dao.FindRequestByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return domain.VoteCodeRequest{}, err
	}

	return r.requestDaoToDomain(found), nil
}

func (r *VoteCodeRepository) UpdateRequestStatus(ctx context.Context, id uint, status string) error {
	return r.dao.UpdateRequestStatus(ctx, id, status)
}

func (r *VoteCodeRepository) ReopenRequest(ctx context.Context, id uint, reason string) (domain.VoteCodeRequest, error) {
	reopened, err := r.dao.ReopenRequest(ctx, id, reason)
	if err != nil {
		return domain.VoteCodeRequest{}, fmt.Errorf("r.dao.ReopenRequest -> %w", err)
	}

	return r.requestDaoToDomain(reopened), nil
}

func (r *VoteCodeRepository) daoToDomain(c dao.VoteCode) domain.VoteCode {
	return domain.VoteCode{
		ID:        c.ID,
		EventID:   c.EventID,
		UserID:    c.UserID,
		Code:      c.Code,
		Origin:    c.Origin,
		CreatedAt: c.CreatedAt,
	}
}

func (r *VoteCodeRepository) requestDaoToDomain(req dao.VoteCodeRequest) domain.VoteCodeRequest {
	return domain.VoteCodeRequest{
		ID:        req.ID,
		EventID:   req.EventID,
		UserID:    req.UserID,
		Reason:    req.Reason,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
}
