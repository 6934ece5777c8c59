package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteGroup struct {
	ID uint `gorm:"primaryKey"`

	// The (user, compo) pair is the anti-fraud invariant: one ballot per
	// voter per compo, enforced by the database.
	UserID  uint  `gorm:"not null;uniqueIndex:idx_vote_groups_user_compo"`
	CompoID uint  `gorm:"not null;uniqueIndex:idx_vote_groups_user_compo"`
	Compo   Compo `gorm:"foreignKey:CompoID"`

	Votes []Vote `gorm:"foreignKey:VoteGroupID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Vote struct {
	ID uint `gorm:"primaryKey"`

	VoteGroupID uint       `gorm:"not null;index"`
	EntryID     uint       `gorm:"not null;index"`
	Entry       CompoEntry `gorm:"foreignKey:EntryID"`

	Points float64 `gorm:"not null"`
}

type BallotDAO struct {
	db *gorm.DB
}

func NewBallotDAO(db *gorm.DB) *BallotDAO {
	return &BallotDAO{
		db: db,
	}
}

// UpsertVoteGroup replaces the voter's ballot for the compo in one
// transaction. The group row is inserted with ON CONFLICT DO UPDATE so a
// racing duplicate submit lands on the existing row instead of erroring;
// the previous votes are then swapped for the new ones.
func (d *BallotDAO) UpsertVoteGroup(ctx context.Context, group VoteGroup, votes []Vote) (VoteGroup, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group.UpdatedAt = time.Now()
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "compo_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": group.UpdatedAt}),
		}).Create(&group).Error
		if err != nil {
			return err
		}

		if err = tx.Where("vote_group_id = ?", group.ID).Delete(&Vote{}).Error; err != nil {
			return err
		}

		for i := range votes {
			votes[i].ID = 0
			votes[i].VoteGroupID = group.ID
		}
		if len(votes) > 0 {
			if err = tx.Create(&votes).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return VoteGroup{}, err
	}

	group.Votes = votes

	return group, nil
}

func (d *BallotDAO) GetVoteGroupsByCompoID(ctx context.Context, compoID uint) ([]VoteGroup, error) {
	var groups []VoteGroup
	err := d.db.WithContext(ctx).
		Preload("Votes").
		Where("compo_id = ?", compoID).
		Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// DeleteVotesByCompoID removes all vote and vote group rows for a compo and
// returns how many ballots were dropped. Used by the archival cleanup only.
func (d *BallotDAO) DeleteVotesByCompoID(ctx context.Context, compoID uint) (int64, error) {
	var deleted int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groupIDs []uint
		if err := tx.Model(&VoteGroup{}).Where("compo_id = ?", compoID).Pluck("id", &groupIDs).Error; err != nil {
			return err
		}
		if len(groupIDs) == 0 {
			return nil
		}

		if err := tx.Where("vote_group_id IN ?", groupIDs).Delete(&Vote{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", groupIDs).Delete(&VoteGroup{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
