package repository

import (
	"context"
	"fmt"

	"partyvote/internal/domain"
	"partyvote/internal/repository/dao"
)

var (
	ErrCompoNotFound = dao.ErrCompoNotFound
	ErrEntryNotFound = dao.ErrEntryNotFound
)

type CompoDAO interface {
	Insert(ctx context.Context, compo dao.Compo) (dao.Compo, error)
	GetByID(ctx context.Context, id uint) (dao.Compo, error)
	GetByEventID(ctx context.Context, eventID uint) ([]dao.Compo, error)
	InsertEntry(ctx context.Context, entry dao.CompoEntry) (dao.CompoEntry, error)
	GetEntryByID(ctx context.Context, id uint) (dao.CompoEntry, error)
	GetEntriesByCompoID(ctx context.Context, compoID uint) ([]dao.CompoEntry, error)
	UpdateEntryResult(ctx context.Context, entryID uint, score *float64, rank *int) error
	DisqualifyEntry(ctx context.Context, entryID uint, reason string) error
}

type CompoRepository struct {
	dao CompoDAO
}

func NewCompoRepository(dao CompoDAO) *CompoRepository {
	return &CompoRepository{
		dao: dao,
	}
}

func (r *CompoRepository) Create(ctx context.Context, compo domain.Compo) (domain.Compo, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(compo))
	if err != nil {
		return domain.Compo{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CompoRepository) GetByID(ctx context.Context, id uint) (domain.Compo, error) {
	found, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Compo{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *CompoRepository) GetByEventID(ctx context.Context, eventID uint) ([]domain.Compo, error) {
	found, err := r.dao.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetByEventID -> %w", err)
	}

	compos := make([]domain.Compo, 0, len(found))
	for _, c := range found {
		compos = append(compos, r.daoToDomain(c))
	}

	return compos, nil
}

func (r *CompoRepository) CreateEntry(ctx context.Context, entry domain.CompoEntry) (domain.CompoEntry, error) {
	created, err := r.dao.InsertEntry(ctx, dao.CompoEntry{
		CompoID: entry.CompoID,
		UserID:  entry.UserID,
		Title:   entry.Title,
	})
	if err != nil {
		return domain.CompoEntry{}, fmt.Errorf("r.dao.InsertEntry -> %w", err)
	}

	return r.entryDaoToDomain(created), nil
}

func (r *CompoRepository) GetEntryByID(ctx context.Context, id uint) (domain.CompoEntry, error) {
	found, err := r.dao.GetEntryByID(ctx, id)
	if err != nil {
		return domain.CompoEntry{}, err
	}

	return r.entryDaoToDomain(found), nil
}

func (r *CompoRepository) GetEntriesByCompoID(ctx context.Context, compoID uint) ([]domain.CompoEntry, error) {
	found, err := r.dao.GetEntriesByCompoID(ctx, compoID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetEntriesByCompoID -> %w", err)
	}

	entries := make([]domain.CompoEntry, 0, len(found))
	for _, e := range found {
		entries = append(entries, r.entryDaoToDomain(e))
	}

	return entries, nil
}

func (r *CompoRepository) UpdateEntryResult(ctx context.Context, entryID uint, score *float64, rank *int) error {
	return r.dao.UpdateEntryResult(ctx, entryID, score, rank)
}

func (r *CompoRepository) DisqualifyEntry(ctx context.Context, entryID uint, reason string) error {
	return r.dao.DisqualifyEntry(ctx, entryID, reason)
}

func (r *CompoRepository) domainToDao(c domain.Compo) dao.Compo {
	return dao.Compo{
		ID:                c.ID,
		EventID:           c.EventID,
		Name:              c.Name,
		EditingEnd:        c.EditingEnd,
		VotingStart:       c.VotingStart,
		VotingEnd:         c.VotingEnd,
		ShowVotingResults: c.ShowVotingResults,
		Active:            c.Active,
		ScoreSort:         c.ScoreSort,
		Aggregation:       c.Aggregation,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (r *CompoRepository) daoToDomain(c dao.Compo) domain.Compo {
	return domain.Compo{
		ID:                c.ID,
		EventID:           c.EventID,
		Name:              c.Name,
		EditingEnd:        c.EditingEnd,
		VotingStart:       c.VotingStart,
		VotingEnd:         c.VotingEnd,
		ShowVotingResults: c.ShowVotingResults,
		Active:            c.Active,
		ScoreSort:         c.ScoreSort,
		Aggregation:       c.Aggregation,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (r *CompoRepository) entryDaoToDomain(e dao.CompoEntry) domain.CompoEntry {
	return domain.CompoEntry{
		ID:                 e.ID,
		CompoID:            e.CompoID,
		UserID:             e.UserID,
		Title:              e.Title,
		Score:              e.Score,
		Rank:               e.Rank,
		Disqualified:       e.Disqualified,
		DisqualifiedReason: e.DisqualifiedReason,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
