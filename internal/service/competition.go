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
	ErrCompetitionNotFound   = repository.ErrCompetitionNotFound
	ErrParticipationNotFound = repository.ErrParticipationNotFound
	ErrParticipationClosed   = errors.New("participation registration is closed")
)

type CompetitionRepository interface {
	Create(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	GetByID(ctx context.Context, id uint) (domain.Competition, error)
	GetByEventID(ctx context.Context, eventID uint) ([]domain.Competition, error)
	CreateParticipation(ctx context.Context, participation domain.CompetitionParticipation) (domain.CompetitionParticipation, error)
	GetParticipationByID(ctx context.Context, id uint) (domain.CompetitionParticipation, error)
	GetParticipationsByCompetitionID(ctx context.Context, competitionID uint) ([]domain.CompetitionParticipation, error)
	UpdateParticipationScore(ctx context.Context, id uint, score *float64) error
}

type CompetitionEventRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Event, error)
}

type CompetitionScorer interface {
	RecomputeCompetition(ctx context.Context, competitionID uint) error
}

type CompetitionService struct {
	repo   CompetitionRepository
	events CompetitionEventRepository
	scorer CompetitionScorer

	now func() time.Time
}

func NewCompetitionService(repo CompetitionRepository, events CompetitionEventRepository, scorer CompetitionScorer) *CompetitionService {
	return &CompetitionService{
		repo:   repo,
		events: events,
		scorer: scorer,
		now:    time.Now,
	}
}

func (s *CompetitionService) CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	if _, err := s.events.GetByID(ctx, competition.EventID); err != nil {
		return domain.Competition{}, err
	}

	if competition.ScoreSort == "" {
		competition.ScoreSort = domain.ScoreSortDescending
	}
	if competition.ScoreType == "" {
		competition.ScoreType = "points"
	}

	created, err := s.repo.Create(ctx, competition)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CompetitionService) ListCompetitions(ctx context.Context, eventID uint, privileged bool) ([]domain.Competition, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	competitions, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByEventID -> %w", err)
	}

	visible := make([]domain.Competition, 0, len(competitions))
	for _, c := range competitions {
		if CompetitionVisible(c, event, privileged) {
			visible = append(visible, c)
		}
	}

	return visible, nil
}

// CreateParticipation registers a participant while the competition's
// registration window is open. At ParticipationEnd the door is shut.
func (s *CompetitionService) CreateParticipation(ctx context.Context, participation domain.CompetitionParticipation) (domain.CompetitionParticipation, error) {
	competition, err := s.repo.GetByID(ctx, participation.CompetitionID)
	if err != nil {
		return domain.CompetitionParticipation{}, err
	}

	if !competition.ParticipationEnd.IsZero() && !s.now().Before(competition.ParticipationEnd) {
		return domain.CompetitionParticipation{}, ErrParticipationClosed
	}

	created, err := s.repo.CreateParticipation(ctx, participation)
	if err != nil {
		return domain.CompetitionParticipation{}, fmt.Errorf("s.repo.CreateParticipation -> %w", err)
	}

	return created, nil
}

// ListParticipations applies the visibility gates the same way compo
// entries do.
func (s *CompetitionService) ListParticipations(ctx context.Context, competitionID uint, privileged bool) ([]domain.CompetitionParticipation, error) {
	competition, err := s.repo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, competition.EventID)
	if err != nil {
		return nil, fmt.Errorf("s.events.GetByID -> %w", err)
	}

	if !CompetitionVisible(competition, event, privileged) {
		return nil, ErrCompetitionNotFound
	}

	participations, err := s.repo.GetParticipationsByCompetitionID(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetParticipationsByCompetitionID -> %w", err)
	}

	filtered := make([]domain.CompetitionParticipation, 0, len(participations))
	for _, p := range participations {
		filtered = append(filtered, RedactParticipation(p, competition, privileged))
	}

	return filtered, nil
}

// SetScore records an organizer-entered score for a participant. Latest
// write wins; ranks are rebuilt right away.
func (s *CompetitionService) SetScore(ctx context.Context, participationID uint, score float64) (domain.CompetitionParticipation, error) {
	participation, err := s.repo.GetParticipationByID(ctx, participationID)
	if err != nil {
		return domain.CompetitionParticipation{}, err
	}

	if err = s.repo.UpdateParticipationScore(ctx, participationID, &score); err != nil {
		return domain.CompetitionParticipation{}, fmt.Errorf("s.repo.UpdateParticipationScore -> %w", err)
	}

	if err = s.scorer.RecomputeCompetition(ctx, participation.CompetitionID); err != nil {
		return domain.CompetitionParticipation{}, fmt.Errorf("s.scorer.RecomputeCompetition -> %w", err)
	}

	return s.repo.GetParticipationByID(ctx, participationID)
}
