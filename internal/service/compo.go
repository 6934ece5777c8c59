package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partyvote/internal/domain"
	"partyvote/internal/repository"
)

var (
	ErrEntryNotFound = repository.ErrEntryNotFound
	ErrEditingClosed = errors.New("entry submission is closed")
)

type CompoRepository interface {
	Create(ctx context.Context, compo domain.Compo) (domain.Compo, error)
	GetByID(ctx context.Context, id uint) (domain.Compo, error)
	GetByEventID(ctx context.Context, eventID uint) ([]domain.Compo, error)
	CreateEntry(ctx context.Context, entry domain.CompoEntry) (domain.CompoEntry, error)
	GetEntryByID(ctx context.Context, id uint) (domain.CompoEntry, error)
	GetEntriesByCompoID(ctx context.Context, compoID uint) ([]domain.CompoEntry, error)
	DisqualifyEntry(ctx context.Context, entryID uint, reason string) error
}

type CompoEventRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Event, error)
}

type CompoScorer interface {
	RecomputeCompo(ctx context.Context, compoID uint) error
}

type CompoService struct {
	repo   CompoRepository
	events CompoEventRepository
	scorer CompoScorer

	now func() time.Time
}

func NewCompoService(repo CompoRepository, events CompoEventRepository, scorer CompoScorer) *CompoService {
	return &CompoService{
		repo:   repo,
		events: events,
		scorer: scorer,
		now:    time.Now,
	}
}

// CreateCompo fills unset windows from the event: the voting window falls
// back to the event-level one, and entry editing closes when voting opens.
func (s *CompoService) CreateCompo(ctx context.Context, compo domain.Compo) (domain.Compo, error) {
	event, err := s.events.GetByID(ctx, compo.EventID)
	if err != nil {
		return domain.Compo{}, err
	}

	if compo.VotingStart.IsZero() {
		compo.VotingStart = event.VotingStart
	}
	if compo.VotingEnd.IsZero() {
		compo.VotingEnd = event.VotingEnd
	}
	if compo.EditingEnd.IsZero() {
		compo.EditingEnd = compo.VotingStart
	}

	if compo.ScoreSort == "" {
		compo.ScoreSort = domain.ScoreSortDescending
	}
	if compo.Aggregation == "" {
		compo.Aggregation = domain.AggregationAverage
	}

	created, err := s.repo.Create(ctx, compo)
	if err != nil {
		return domain.Compo{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CompoService) GetCompo(ctx context.Context, id uint) (domain.Compo, error) {
	return s.repo.GetByID(ctx, id)
}

// ListCompos returns the event's compos the caller is allowed to see.
func (s *CompoService) ListCompos(ctx context.Context, eventID uint, privileged bool) ([]domain.Compo, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	compos, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByEventID -> %w", err)
	}

	visible := make([]domain.Compo, 0, len(compos))
	for _, c := range compos {
		if CompoVisible(c, event, privileged) {
			visible = append(visible, c)
		}
	}

	return visible, nil
}

// CreateEntry accepts a submission while the compo's editing window is open.
// The deadline is half-open like the voting window: at EditingEnd the door is
// shut.
func (s *CompoService) CreateEntry(ctx context.Context, entry domain.CompoEntry) (domain.CompoEntry, error) {
	compo, err := s.repo.GetByID(ctx, entry.CompoID)
	if err != nil {
		return domain.CompoEntry{}, err
	}

	if !compo.EditingEnd.IsZero() && !s.now().Before(compo.EditingEnd) {
		return domain.CompoEntry{}, ErrEditingClosed
	}

	created, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return domain.CompoEntry{}, fmt.Errorf("s.repo.CreateEntry -> %w", err)
	}

	return created, nil
}

// ListEntries applies both visibility gates: a compo hidden from the caller
// reads as not found, and unpublished scores and ranks come back nil.
func (s *CompoService) ListEntries(ctx context.Context, compoID uint, privileged bool) ([]domain.CompoEntry, error) {
	compo, err := s.repo.GetByID(ctx, compoID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, compo.EventID)
	if err != nil {
		return nil, fmt.Errorf("s.events.GetByID -> %w", err)
	}

	if !CompoVisible(compo, event, privileged) {
		return nil, ErrCompoNotFound
	}

	entries, err := s.repo.GetEntriesByCompoID(ctx, compoID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetEntriesByCompoID -> %w", err)
	}

	filtered := make([]domain.CompoEntry, 0, len(entries))
	for _, e := range entries {
		filtered = append(filtered, RedactEntry(e, compo, privileged))
	}

	return filtered, nil
}

// DisqualifyEntry flags the entry and recomputes the compo so its rank is
// withdrawn and the remaining entries move up. The entry keeps its frozen
// score and stays in the result set.
func (s *CompoService) DisqualifyEntry(ctx context.Context, entryID uint, reason string) (domain.CompoEntry, error) {
	entry, err := s.repo.GetEntryByID(ctx, entryID)
	if err != nil {
		return domain.CompoEntry{}, err
	}

	if err = s.repo.DisqualifyEntry(ctx, entryID, reason); err != nil {
		return domain.CompoEntry{}, fmt.Errorf("s.repo.DisqualifyEntry -> %w", err)
	}

	if err = s.scorer.RecomputeCompo(ctx, entry.CompoID); err != nil {
		return domain.CompoEntry{}, fmt.Errorf("s.scorer.RecomputeCompo -> %w", err)
	}

	return s.repo.GetEntryByID(ctx, entryID)
}
