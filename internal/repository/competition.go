package repository

import (
	"context"
	"fmt"

	"partyvote/internal/domain"
	"partyvote/internal/repository/dao"
)

var (
	ErrCompetitionNotFound   = dao.ErrCompetitionNotFound
	ErrParticipationNotFound = dao.ErrParticipationNotFound
)

type CompetitionDAO interface {
	Insert(ctx context.Context, competition dao.Competition) (dao.Competition, error)
	GetByID(ctx context.Context, id uint) (dao.Competition, error)
	GetByEventID(ctx context.Context, eventID uint) ([]dao.Competition, error)
	InsertParticipation(ctx context.Context, participation dao.CompetitionParticipation) (dao.CompetitionParticipation, error)
	GetParticipationByID(ctx context.Context, id uint) (dao.CompetitionParticipation, error)
	GetParticipationsByCompetitionID(ctx context.Context, competitionID uint) ([]dao.CompetitionParticipation, error)
	UpdateParticipationScore(ctx context.Context, id uint, score *float64) error
	UpdateParticipationRank(ctx context.Context, id uint, rank *int) error
}

type CompetitionRepository struct {
	dao CompetitionDAO
}

func NewCompetitionRepository(dao CompetitionDAO) *CompetitionRepository {
	return &CompetitionRepository{
		dao: dao,
	}
}

func (r *CompetitionRepository) Create(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(competition))
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id uint) (domain.Competition, error) {
	found, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Competition{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *CompetitionRepository) GetByEventID(ctx context.Context, eventID uint) ([]domain.Competition, error) {
	found, err := r.dao.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetByEventID -> %w", err)
	}

	competitions := make([]domain.Competition, 0, len(found))
	for _, c := range found {
		competitions = append(competitions, r.daoToDomain(c))
	}

	return competitions, nil
}

func (r *CompetitionRepository) CreateParticipation(ctx context.Context, participation domain.CompetitionParticipation) (domain.CompetitionParticipation, error) {
	created, err := r.dao.InsertParticipation(ctx, dao.CompetitionParticipation{
		CompetitionID: participation.CompetitionID,
		UserID:        participation.UserID,
	})
	if err != nil {
		return domain.CompetitionParticipation{}, fmt.Errorf("r.dao.InsertParticipation -> %w", err)
	}

	return r.participationDaoToDomain(created), nil
}

func (r *CompetitionRepository) GetParticipationByID(ctx context.Context, id uint) (domain.CompetitionParticipation, error) {
	found, err := r.dao.GetParticipationByID(ctx, id)
	if err != nil {
		return domain.CompetitionParticipation{}, err
	}

	return r.participationDaoToDomain(found), nil
}

func (r *CompetitionRepository) GetParticipationsByCompetitionID(ctx context.Context, competitionID uint) ([]domain.CompetitionParticipation, error) {
	found, err := r.dao.GetParticipationsByCompetitionID(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetParticipationsByCompetitionID -> %w", err)
	}

	participations := make([]domain.CompetitionParticipation, 0, len(found))
	for _, p := range found {
		participations = append(participations, r.participationDaoToDomain(p))
	}

	return participations, nil
}

func (r *CompetitionRepository) UpdateParticipationScore(ctx context.Context, id uint, score *float64) error {
	return r.dao.UpdateParticipationScore(ctx, id, score)
}

func (r *CompetitionRepository) UpdateParticipationRank(ctx context.Context, id uint, rank *int) error {
	return r.dao.UpdateParticipationRank(ctx, id, rank)
}

func (r *CompetitionRepository) domainToDao(c domain.Competition) dao.Competition {
	return dao.Competition{
		ID:               c.ID,
		EventID:          c.EventID,
		Name:             c.Name,
		ParticipationEnd: c.ParticipationEnd,
		Start:            c.Start,
		End:              c.End,
		ScoreType:        c.ScoreType,
		ScoreSort:        c.ScoreSort,
		ShowResults:      c.ShowResults,
		Active:           c.Active,
		HideFromArchive:  c.HideFromArchive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r *CompetitionRepository) daoToDomain(c dao.Competition) domain.Competition {
	return domain.Competition{
		ID:               c.ID,
		EventID:          c.EventID,
		Name:             c.Name,
		ParticipationEnd: c.ParticipationEnd,
		Start:            c.Start,
		End:              c.End,
		ScoreType:        c.ScoreType,
		ScoreSort:        c.ScoreSort,
		ShowResults:      c.ShowResults,
		Active:           c.Active,
		HideFromArchive:  c.HideFromArchive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r *CompetitionRepository) participationDaoToDomain(p dao.CompetitionParticipation) domain.CompetitionParticipation {
	return domain.CompetitionParticipation{
		ID:            p.ID,
		CompetitionID: p.CompetitionID,
		UserID:        p.UserID,
		Score:         p.Score,
		Rank:          p.Rank,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
