package service

import (
	"context"
	"fmt"
	"sort"

	"partyvote/internal/domain"
	"partyvote/internal/pkg/keyedmutex"
)

type ScoringCompoRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Compo, error)
	GetEntriesByCompoID(ctx context.Context, compoID uint) ([]domain.CompoEntry, error)
	UpdateEntryResult(ctx context.Context, entryID uint, score *float64, rank *int) error
}

type ScoringBallotRepository interface {
	GetVoteGroupsByCompoID(ctx context.Context, compoID uint) ([]domain.VoteGroup, error)
}

type ScoringCompetitionRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Competition, error)
	GetParticipationsByCompetitionID(ctx context.Context, competitionID uint) ([]domain.CompetitionParticipation, error)
	UpdateParticipationRank(ctx context.Context, id uint, rank *int) error
}

// ScoringService derives scores and ranks from stored ballots. Both are a
// pure function of the ballot data, so recomputing is always safe and
// repeated runs yield identical results.
type ScoringService struct {
	compos       ScoringCompoRepository
	ballots      ScoringBallotRepository
	competitions ScoringCompetitionRepository

	compoLocks       *keyedmutex.KeyedMutex
	competitionLocks *keyedmutex.KeyedMutex
}

func NewScoringService(compos ScoringCompoRepository, ballots ScoringBallotRepository, competitions ScoringCompetitionRepository) *ScoringService {
	return &ScoringService{
		compos:           compos,
		ballots:          ballots,
		competitions:     competitions,
		compoLocks:       keyedmutex.New(),
		competitionLocks: keyedmutex.New(),
	}
}

// RecomputeCompo rebuilds score and rank for every entry of the compo from
// the stored vote groups. Recomputes for the same compo serialize; different
// compos run concurrently.
//
// Rules: entries without ballots get a nil score and nil rank; disqualified
// entries keep their last stored score frozen but never rank; ties on equal
// score break by ascending entry ID.
func (s *ScoringService) RecomputeCompo(ctx context.Context, compoID uint) error {
	s.compoLocks.Lock(compoID)
	defer s.compoLocks.Unlock(compoID)

	compo, err := s.compos.GetByID(ctx, compoID)
	if err != nil {
		return err
	}

	entries, err := s.compos.GetEntriesByCompoID(ctx, compoID)
	if err != nil {
		return fmt.Errorf("s.compos.GetEntriesByCompoID -> %w", err)
	}

	groups, err := s.ballots.GetVoteGroupsByCompoID(ctx, compoID)
	if err != nil {
		return fmt.Errorf("s.ballots.GetVoteGroupsByCompoID -> %w", err)
	}

	disqualified := make(map[uint]bool, len(entries))
	for _, e := range entries {
		if e.Disqualified {
			disqualified[e.ID] = true
		}
	}

	points := make(map[uint][]float64, len(entries))
	for _, g := range groups {
		for _, v := range g.Votes {
			if disqualified[v.EntryID] {
				continue
			}
			points[v.EntryID] = append(points[v.EntryID], v.Points)
		}
	}

	scores := make(map[uint]*float64, len(entries))
	for _, e := range entries {
		if e.Disqualified {
			// Frozen at its last computed value for transparency.
			scores[e.ID] = e.Score
			continue
		}

		values := points[e.ID]
		if len(values) == 0 {
			scores[e.ID] = nil
			continue
		}

		score := aggregate(compo.Aggregation, values)
		scores[e.ID] = &score
	}

	ranks := assignRanks(entries, scores, compo.ScoreSort)

	for _, e := range entries {
		if err = s.compos.UpdateEntryResult(ctx, e.ID, scores[e.ID], ranks[e.ID]); err != nil {
			return fmt.Errorf("s.compos.UpdateEntryResult -> %w", err)
		}
	}

	return nil
}

// RecomputeCompetition rebuilds participation ranks from the
// organizer-entered scores, with the same ordering rules as compos.
func (s *ScoringService) RecomputeCompetition(ctx context.Context, competitionID uint) error {
	s.competitionLocks.Lock(competitionID)
	defer s.competitionLocks.Unlock(competitionID)

	competition, err := s.competitions.GetByID(ctx, competitionID)
	if err != nil {
		return err
	}

	participations, err := s.competitions.GetParticipationsByCompetitionID(ctx, competitionID)
	if err != nil {
		return fmt.Errorf("s.competitions.GetParticipationsByCompetitionID -> %w", err)
	}

	type contender struct {
		id    uint
		score float64
	}
	contenders := make([]contender, 0, len(participations))
	for _, p := range participations {
		if p.Score != nil {
			contenders = append(contenders, contender{id: p.ID, score: *p.Score})
		}
	}

	ascending := competition.ScoreSort == domain.ScoreSortAscending
	sort.Slice(contenders, func(i, j int) bool {
		if contenders[i].score == contenders[j].score {
			return contenders[i].id < contenders[j].id
		}
		if ascending {
			return contenders[i].score < contenders[j].score
		}
		return contenders[i].score > contenders[j].score
	})

	ranks := make(map[uint]int, len(contenders))
	for i, c := range contenders {
		ranks[c.id] = i + 1
	}

	for _, p := range participations {
		var rank *int
		if r, ok := ranks[p.ID]; ok {
			rank = &r
		}
		if err = s.competitions.UpdateParticipationRank(ctx, p.ID, rank); err != nil {
			return fmt.Errorf("s.competitions.UpdateParticipationRank -> %w", err)
		}
	}

	return nil
}

func aggregate(mode string, values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	switch mode {
	case domain.AggregationSum:
		return sum
	default:
		// Average is the default for compos; see the compo model.
		return sum / float64(len(values))
	}
}

// assignRanks orders entries with a non-nil score that are not disqualified
// and hands out contiguous ranks starting at 1. Everything else stays
// unranked.
func assignRanks(entries []domain.CompoEntry, scores map[uint]*float64, scoreSort string) map[uint]*int {
	type contender struct {
		id    uint
		score float64
	}
	contenders := make([]contender, 0, len(entries))
	for _, e := range entries {
		if e.Disqualified || scores[e.ID] == nil {
			continue
		}
		contenders = append(contenders, contender{id: e.ID, score: *scores[e.ID]})
	}

	ascending := scoreSort == domain.ScoreSortAscending
	sort.Slice(contenders, func(i, j int) bool {
		if contenders[i].score == contenders[j].score {
			return contenders[i].id < contenders[j].id
		}
		if ascending {
			return contenders[i].score < contenders[j].score
		}
		return contenders[i].score > contenders[j].score
	})

	ranks := make(map[uint]*int, len(entries))
	for _, e := range entries {
		ranks[e.ID] = nil
	}
	for i, c := range contenders {
		rank := i + 1
		ranks[c.id] = &rank
	}

	return ranks
}
