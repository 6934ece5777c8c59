package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCompoNotFound = errors.New("compo not found")
	ErrEntryNotFound = errors.New("entry not found")
)

type Compo struct {
	ID uint `gorm:"primaryKey"`

	EventID uint  `gorm:"not null;index"`
	Event   Event `gorm:"foreignKey:EventID"`

	Name string `gorm:"not null"`

	EditingEnd  time.Time
	VotingStart time.Time
	VotingEnd   time.Time

	ShowVotingResults bool   `gorm:"not null;default:false"`
	Active            bool   `gorm:"not null;default:true"`
	ScoreSort         string `gorm:"not null;default:desc"`    // "asc" or "desc"
	Aggregation       string `gorm:"not null;default:average"` // "average" or "sum"

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CompoEntry struct {
	ID uint `gorm:"primaryKey"`

	CompoID uint  `gorm:"not null;index"`
	Compo   Compo `gorm:"foreignKey:CompoID"`
	UserID  uint  `gorm:"not null;index"`
	User    User  `gorm:"foreignKey:UserID"`

	Title string `gorm:"not null"`

	// Derived by the scoring recompute, never written by voters.
	Score *float64
	Rank  *int

	Disqualified       bool `gorm:"not null;default:false"`
	DisqualifiedReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CompoDAO struct {
	db *gorm.DB
}

func NewCompoDAO(db *gorm.DB) *CompoDAO {
	return &CompoDAO{
		db: db,
	}
}

func (d *CompoDAO) Insert(ctx context.Context, compo Compo) (Compo, error) {
	if err := d.db.WithContext(ctx).Create(&compo).Error; err != nil {
		return Compo{}, err
	}

	return compo, nil
}

func (d *CompoDAO) GetByID(ctx context.Context, id uint) (Compo, error) {
	var compo Compo
	err := d.db.WithContext(ctx).First(&compo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Compo{}, ErrCompoNotFound
		}

		return Compo{}, err
	}

	return compo, nil
}

func (d *CompoDAO) GetByEventID(ctx context.Context, eventID uint) ([]Compo, error) {
	var compos []Compo
	err := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&compos).Error
	if err != nil {
		return nil, err
	}

	return compos, nil
}

func (d *CompoDAO) InsertEntry(ctx context.Context, entry CompoEntry) (CompoEntry, error) {
	if err := d.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return CompoEntry{}, err
	}

	return entry, nil
}

func (d *CompoDAO) GetEntryByID(ctx context.Context, id uint) (CompoEntry, error) {
	var entry CompoEntry
	err := d.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompoEntry{}, ErrEntryNotFound
		}

		return CompoEntry{}, err
	}

	return entry, nil
}

func (d *CompoDAO) GetEntriesByCompoID(ctx context.Context, compoID uint) ([]CompoEntry, error) {
	var entries []CompoEntry
	err := d.db.WithContext(ctx).Where("compo_id = ?", compoID).Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// UpdateEntryResult writes the derived score and rank. This is the only
// place those columns are touched.
func (d *CompoDAO) UpdateEntryResult(ctx context.Context, entryID uint, score *float64, rank *int) error {
	return d.db.WithContext(ctx).
		Model(&CompoEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]interface{}{"score": score, "rank": rank}).Error
}

func (d *CompoDAO) DisqualifyEntry(ctx context.Context, entryID uint, reason string) error {
	result := d.db.WithContext(ctx).
		Model(&CompoEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]interface{}{"disqualified": true, "disqualified_reason": reason, "rank": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}
