package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrVoteCodeExists     = errors.New("vote code already exists for user and event")
	ErrVoteCodeNotFound   = errors.New("vote code not found")
	ErrRequestNotFound    = errors.New("vote code request not found")
	ErrRequestExists      = errors.New("vote code request already exists for user and event")
	ErrTicketLinkNotFound = errors.New("ticket vote code link not found")
)

type VoteCode struct {
	ID uint `gorm:"primaryKey"`

	EventID uint  `gorm:"not null;uniqueIndex:idx_vote_codes_event_user"`
	Event   Event `gorm:"foreignKey:EventID"`
	UserID  uint  `gorm:"not null;uniqueIndex:idx_vote_codes_event_user"`
	User    User  `gorm:"foreignKey:UserID"`

	Code   string `gorm:"not null;unique"`
	Origin string `gorm:"not null"` // "ticket" or "request"

	CreatedAt time.Time
}

type TicketVoteCode struct {
	ID uint `gorm:"primaryKey"`

	VoteCodeID uint     `gorm:"not null;unique"`
	VoteCode   VoteCode `gorm:"foreignKey:VoteCodeID"`
	TicketID   uint     `gorm:"not null;unique"`
	Ticket     Ticket   `gorm:"foreignKey:TicketID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type VoteCodeRequest struct {
	ID uint `gorm:"primaryKey"`

	EventID uint  `gorm:"not null;uniqueIndex:idx_vote_code_requests_event_user"`
	Event   Event `gorm:"foreignKey:EventID"`
	UserID  uint  `gorm:"not null;uniqueIndex:idx_vote_code_requests_event_user"`
	User    User  `gorm:"foreignKey:UserID"`

	Reason string `gorm:"not null"`
	Status string `gorm:"not null;default:pending"` // "pending", "approved" or "rejected"

	CreatedAt time.Time
	UpdatedAt time.Time
}

type VoteCodeDAO struct {
	db *gorm.DB
}

func NewVoteCodeDAO(db *gorm.DB) *VoteCodeDAO {
	return &VoteCodeDAO{
		db: db,
	}
}

// Insert creates a vote code, optionally with its backing ticket link in the
// same transaction. A racing insert for the same (event, user) surfaces as
// ErrVoteCodeExists so the caller can fall back to the winning row.
func (d *VoteCodeDAO) Insert(ctx context.Context, code VoteCode, ticketID *uint) (VoteCode, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&code).Error; err != nil {
			return err
		}

		if ticketID != nil {
			link := TicketVoteCode{VoteCodeID: code.ID, TicketID: *ticketID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return VoteCode{}, ErrVoteCodeExists
		}

		return VoteCode{}, err
	}

	return code, nil
}

func (d *VoteCodeDAO) FindByEventAndUser(ctx context.Context, eventID, userID uint) (VoteCode, error) {
	var code VoteCode
	err := d.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoteCode{}, ErrVoteCodeNotFound
		}

		return VoteCode{}, err
	}

	return code, nil
}

func (d *VoteCodeDAO) FindLinkByTicketID(ctx context.Context, ticketID uint) (TicketVoteCode, error) {
	var link TicketVoteCode
	err := d.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TicketVoteCode{}, ErrTicketLinkNotFound
		}

		return TicketVoteCode{}, err
	}

	return link, nil
}

// UpdateLinkTicket moves the backing ticket of a vote code. The vote code
// row itself is never touched.
func (d *VoteCodeDAO) UpdateLinkTicket(ctx context.Context, linkID, ticketID uint) error {
	result := d.db.WithContext(ctx).
		Model(&TicketVoteCode{}).
		Where("id = ?", linkID).
		Update("ticket_id", ticketID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketLinkNotFound
	}

	return nil
}

func (d *VoteCodeDAO) InsertRequest(ctx context.Context, req VoteCodeRequest) (VoteCodeRequest, error) {
	result := d.db.WithContext(ctx).Create(&req)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return VoteCodeRequest{}, ErrRequestExists
		}

		return VoteCodeRequest{}, result.Error
	}

	return req, nil
}

func (d *VoteCodeDAO) GetRequestByID(ctx context.Context, id uint) (VoteCodeRequest, error) {
	var req VoteCodeRequest
	err := d.db.WithContext(ctx).First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoteCodeRequest{}, ErrRequestNotFound
		}

		return VoteCodeRequest{}, err
	}

	return req, nil
}

func (d *VoteCodeDAO) FindRequestByEventAndUser(ctx context.Context, eventID, userID uint) (VoteCodeRequest, error) {
	var req VoteCodeRequest
	err := d.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoteCodeRequest{}, ErrRequestNotFound
		}

		return VoteCodeRequest{}, err
	}

	return req, nil
}

func (d *VoteCodeDAO) UpdateRequestStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&VoteCodeRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// ReopenRequest flips a rejected request back to pending with a fresh
// reason. Approved requests stay terminal.
func (d *VoteCodeDAO) ReopenRequest(ctx context.Context, id uint, reason string) (VoteCodeRequest, error) {
	var req VoteCodeRequest
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}

			return err
		}

		req.Reason = reason
		req.Status = "pending"

		return tx.Save(&req).Error
	})
	if err != nil {
		return VoteCodeRequest{}, err
	}

	return req, nil
}
