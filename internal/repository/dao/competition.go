package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrCompetitionNotFound   = errors.New("competition not found")
	ErrParticipationNotFound = errors.New("participation not found")
)

type Competition struct {
	ID uint `gorm:"primaryKey"`

	EventID uint  `gorm:"not null;index"`
	Event   Event `gorm:"foreignKey:EventID"`

	Name string `gorm:"not null"`

	ParticipationEnd time.Time
	Start            time.Time
	End              time.Time

	ScoreType string `gorm:"not null;default:points"`
	ScoreSort string `gorm:"not null;default:desc"`

	ShowResults     bool `gorm:"not null;default:false"`
	Active          bool `gorm:"not null;default:true"`
	HideFromArchive bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CompetitionParticipation struct {
	ID uint `gorm:"primaryKey"`

	CompetitionID uint        `gorm:"not null;uniqueIndex:idx_participations_competition_user"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`
	UserID        uint        `gorm:"not null;uniqueIndex:idx_participations_competition_user"`
	User          User        `gorm:"foreignKey:UserID"`

	// Score is entered by organizers; rank is derived from it.
	Score *float64
	Rank  *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CompetitionDAO struct {
	db *gorm.DB
}

func NewCompetitionDAO(db *gorm.DB) *CompetitionDAO {
	return &CompetitionDAO{
		db: db,
	}
}

func (d *CompetitionDAO) Insert(ctx context.Context, competition Competition) (Competition, error) {
	if err := d.db.WithContext(ctx).Create(&competition).Error; err != nil {
		return Competition{}, err
	}

	return competition, nil
}

func (d *CompetitionDAO) GetByID(ctx context.Context, id uint) (Competition, error) {
	var competition Competition
	err := d.db.WithContext(ctx).First(&competition, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Competition{}, ErrCompetitionNotFound
		}

		return Competition{}, err
	}

	return competition, nil
}

func (d *CompetitionDAO) GetByEventID(ctx context.Context, eventID uint) ([]Competition, error) {
	var competitions []Competition
	err := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&competitions).Error
	if err != nil {
		return nil, err
	}

	return competitions, nil
}

func (d *CompetitionDAO) InsertParticipation(ctx context.Context, participation CompetitionParticipation) (CompetitionParticipation, error) {
	if err := d.db.WithContext(ctx).Create(&participation).Error; err != nil {
		return CompetitionParticipation{}, err
	}

	return participation, nil
}

func (d *CompetitionDAO) GetParticipationByID(ctx context.Context, id uint) (CompetitionParticipation, error) {
	var participation CompetitionParticipation
	err := d.db.WithContext(ctx).First(&participation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompetitionParticipation{}, ErrParticipationNotFound
		}

		return CompetitionParticipation{}, err
	}

	return participation, nil
}

func (d *CompetitionDAO) GetParticipationsByCompetitionID(ctx context.Context, competitionID uint) ([]CompetitionParticipation, error) {
	var participations []CompetitionParticipation
	err := d.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("id ASC").
		Find(&participations).Error
	if err != nil {
		return nil, err
	}

	return participations, nil
}

// UpdateParticipationScore records an organizer-entered score. Latest write
// wins; rank is recomputed separately.
func (d *CompetitionDAO) UpdateParticipationScore(ctx context.Context, id uint, score *float64) error {
	result := d.db.WithContext(ctx).
		Model(&CompetitionParticipation{}).
		Where("id = ?", id).
		Update("score", score)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipationNotFound
	}

	return nil
}

func (d *CompetitionDAO) UpdateParticipationRank(ctx context.Context, id uint, rank *int) error {
	return d.db.WithContext(ctx).
		Model(&CompetitionParticipation{}).
		Where("id = ?", id).
		Update("rank", rank).Error
}
