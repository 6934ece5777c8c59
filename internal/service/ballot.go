package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"partyvote/internal/domain"
	"partyvote/internal/repository"
)

var (
	ErrCompoNotFound     = repository.ErrCompoNotFound
	ErrNotEligible       = errors.New("no vote code for this event")
	ErrVotingClosed      = errors.New("voting is not open")
	ErrUnknownEntry      = errors.New("entry does not belong to this compo")
	ErrEntryDisqualified = errors.New("entry is disqualified")
)

type BallotCompoRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Compo, error)
	GetEntriesByCompoID(ctx context.Context, compoID uint) ([]domain.CompoEntry, error)
}

type BallotVoteCodeRepository interface {
	FindByEventAndUser(ctx context.Context, eventID, userID uint) (domain.VoteCode, error)
}

type BallotRepository interface {
	ReplaceBallot(ctx context.Context, userID, compoID uint, votes []domain.Vote) (domain.VoteGroup, error)
}

type BallotScorer interface {
	RecomputeCompo(ctx context.Context, compoID uint) error
}

type BallotService struct {
	compos  BallotCompoRepository
	codes   BallotVoteCodeRepository
	ballots BallotRepository
	scorer  BallotScorer

	now func() time.Time
}

func NewBallotService(compos BallotCompoRepository, codes BallotVoteCodeRepository, ballots BallotRepository, scorer BallotScorer) *BallotService {
	return &BallotService{
		compos:  compos,
		codes:   codes,
		ballots: ballots,
		scorer:  scorer,
		now:     time.Now,
	}
}

// SubmitBallot stores the voter's complete ballot for a compo and triggers a
// recompute. Resubmitting within the voting window replaces the previous
// ballot wholesale; the one-ballot-per-voter invariant is enforced at the
// storage layer, so a duplicate browser tab cannot inflate the vote.
func (s *BallotService) SubmitBallot(ctx context.Context, voterID, compoID uint, points map[uint]float64) (domain.VoteGroup, error) {
	compo, err := s.compos.GetByID(ctx, compoID)
	if err != nil {
		return domain.VoteGroup{}, err
	}

	if _, err = s.codes.FindByEventAndUser(ctx, compo.EventID, voterID); err != nil {
		if errors.Is(err, repository.ErrVoteCodeNotFound) {
			return domain.VoteGroup{}, ErrNotEligible
		}

		return domain.VoteGroup{}, fmt.Errorf("s.codes.FindByEventAndUser -> %w", err)
	}

	if !compo.Active || !compo.VotingOpenAt(s.now()) {
		return domain.VoteGroup{}, ErrVotingClosed
	}

	entries, err := s.compos.GetEntriesByCompoID(ctx, compoID)
	if err != nil {
		return domain.VoteGroup{}, fmt.Errorf("s.compos.GetEntriesByCompoID -> %w", err)
	}

	byID := make(map[uint]domain.CompoEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	entryIDs := make([]uint, 0, len(points))
	for entryID := range points {
		entry, ok := byID[entryID]
		if !ok {
			return domain.VoteGroup{}, ErrUnknownEntry
		}
		if entry.Disqualified {
			return domain.VoteGroup{}, ErrEntryDisqualified
		}
		entryIDs = append(entryIDs, entryID)
	}
	sort.Slice(entryIDs, func(i, j int) bool { return entryIDs[i] < entryIDs[j] })

	votes := make([]domain.Vote, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		votes = append(votes, domain.Vote{
			EntryID: entryID,
			Points:  points[entryID],
		})
	}

	group, err := s.ballots.ReplaceBallot(ctx, voterID, compoID, votes)
	if err != nil {
		return domain.VoteGroup{}, fmt.Errorf("s.ballots.ReplaceBallot -> %w", err)
	}

	if err = s.scorer.RecomputeCompo(ctx, compoID); err != nil {
		return domain.VoteGroup{}, fmt.Errorf("s.scorer.RecomputeCompo -> %w", err)
	}

	return group, nil
}
