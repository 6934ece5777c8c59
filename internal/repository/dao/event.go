package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrTicketNotFound = errors.New("ticket not found")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name string    `gorm:"not null"`
	Date time.Time `gorm:"not null"`

	VotingStart time.Time
	VotingEnd   time.Time

	Archived bool `gorm:"not null;default:false"`
	Hidden   bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	EventID uint  `gorm:"not null;index"`
	Event   Event `gorm:"foreignKey:EventID"`
	OwnerID uint  `gorm:"not null;index"`
	Owner   User  `gorm:"foreignKey:OwnerID"`

	Delivered    bool `gorm:"not null;default:false"`
	VoteEligible bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) GetByID(ctx context.Context, id uint) (Event, error) {
	var event Event
	err := d.db.WithContext(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) GetAll(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := d.db.WithContext(ctx).Order("date DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) InsertTicket(ctx context.Context, ticket Ticket) (Ticket, error) {
	if err := d.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}

func (d *EventDAO) GetTicketByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket
	err := d.db.WithContext(ctx).First(&ticket, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, err
	}

	return ticket, nil
}

// FindEligibleTicket returns the oldest delivered, vote-eligible ticket the
// user owns for the event.
func (d *EventDAO) FindEligibleTicket(ctx context.Context, eventID, ownerID uint) (Ticket, error) {
	var ticket Ticket
	err := d.db.WithContext(ctx).
		Where("event_id = ? AND owner_id = ? AND delivered = ? AND vote_eligible = ?", eventID, ownerID, true, true).
		Order("id ASC").
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, err
	}

	return ticket, nil
}
