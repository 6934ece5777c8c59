package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyvote/internal/domain"
)

func TestCreateParticipation_RegistrationDeadline(t *testing.T) {
	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewCompetitionService(competitions, events, scorer)

	event := events.addEvent(domain.Event{Name: "revision 2026"})
	deadline := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	competition := competitions.addCompetition(domain.Competition{
		EventID:          event.ID,
		Name:             "fast tracking",
		Active:           true,
		ParticipationEnd: deadline,
		ScoreSort:        domain.ScoreSortAscending,
	})

	ctx := context.Background()

	// Before the deadline registration goes through.
	svc.now = func() time.Time { return deadline.Add(-time.Second) }
	_, err := svc.CreateParticipation(ctx, domain.CompetitionParticipation{CompetitionID: competition.ID, UserID: 7})
	require.NoError(t, err)

	// At and after the deadline it is refused; the window is half-open.
	svc.now = func() time.Time { return deadline }
	_, err = svc.CreateParticipation(ctx, domain.CompetitionParticipation{CompetitionID: competition.ID, UserID: 8})
	assert.ErrorIs(t, err, ErrParticipationClosed)

	svc.now = func() time.Time { return deadline.Add(time.Hour) }
	_, err = svc.CreateParticipation(ctx, domain.CompetitionParticipation{CompetitionID: competition.ID, UserID: 9})
	assert.ErrorIs(t, err, ErrParticipationClosed)

	participations, err := competitions.GetParticipationsByCompetitionID(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, participations, 1)
	assert.Equal(t, uint(7), participations[0].UserID)
}

func TestCreateParticipation_NoDeadlineSet(t *testing.T) {
	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewCompetitionService(competitions, events, scorer)

	competition := competitions.addCompetition(domain.Competition{EventID: 1, Name: "gaming", Active: true})

	_, err := svc.CreateParticipation(context.Background(), domain.CompetitionParticipation{CompetitionID: competition.ID, UserID: 7})
	assert.NoError(t, err)
}
