package repository

import (
	"context"
	"fmt"

	"partyvote/internal/domain"
	"partyvote/internal/repository/dao"
)

type BallotDAO interface {
	UpsertVoteGroup(ctx context.Context, group dao.VoteGroup, votes []dao.Vote) (dao.VoteGroup, error)
	GetVoteGroupsByCompoID(ctx context.Context, compoID uint) ([]dao.VoteGroup, error)
	DeleteVotesByCompoID(ctx context.Context, compoID uint) (int64, error)
}

type BallotRepository struct {
	dao BallotDAO
}

func NewBallotRepository(dao BallotDAO) *BallotRepository {
	return &BallotRepository{
		dao: dao,
	}
}

// ReplaceBallot stores the voter's complete ballot for a compo, replacing
// any previous one. The DAO enforces the one-group-per-(user, compo)
// invariant with a storage-level upsert.
func (r *BallotRepository) ReplaceBallot(ctx context.Context, userID, compoID uint, votes []domain.Vote) (domain.VoteGroup, error) {
	daoVotes := make([]dao.Vote, 0, len(votes))
	for _, v := range votes {
		daoVotes = append(daoVotes, dao.Vote{
			EntryID: v.EntryID,
			Points:  v.Points,
		})
	}

	group, err := r.dao.UpsertVoteGroup(ctx, dao.VoteGroup{UserID: userID, CompoID: compoID}, daoVotes)
	if err != nil {
		return domain.VoteGroup{}, fmt.Errorf("r.dao.UpsertVoteGroup -> %w", err)
	}

	return r.daoToDomain(group), nil
}

func (r *BallotRepository) GetVoteGroupsByCompoID(ctx context.Context, compoID uint) ([]domain.VoteGroup, error) {
	found, err := r.dao.GetVoteGroupsByCompoID(ctx, compoID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetVoteGroupsByCompoID -> %w", err)
	}

	groups := make([]domain.VoteGroup, 0, len(found))
	for _, g := range found {
		groups = append(groups, r.daoToDomain(g))
	}

	return groups, nil
}

func (r *BallotRepository) DeleteVotesByCompoID(ctx context.Context, compoID uint) (int64, error) {
	deleted, err := r.dao.DeleteVotesByCompoID(ctx, compoID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteVotesByCompoID -> %w", err)
	}

	return deleted, nil
}

func (r *BallotRepository) daoToDomain(g dao.VoteGroup) domain.VoteGroup {
	votes := make([]domain.Vote, 0, len(g.Votes))
	for _, v := range g.Votes {
		votes = append(votes, domain.Vote{
			ID:          v.ID,
			VoteGroupID: v.VoteGroupID,
			EntryID:     v.EntryID,
			Points:      v.Points,
		})
	}

	return domain.VoteGroup{
		ID:        g.ID,
		UserID:    g.UserID,
		CompoID:   g.CompoID,
		Votes:     votes,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
