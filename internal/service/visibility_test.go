package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyvote/internal/domain"
)

func TestRedactEntry_FollowsPublishFlag(t *testing.T) {
	entry := domain.CompoEntry{Score: float64Ptr(8.5), Rank: intPtr(1)}

	hidden := RedactEntry(entry, domain.Compo{ShowVotingResults: false}, false)
	assert.Nil(t, hidden.Score)
	assert.Nil(t, hidden.Rank)

	// Same entry, results published: nothing is stripped.
	shown := RedactEntry(entry, domain.Compo{ShowVotingResults: true}, false)
	require.NotNil(t, shown.Score)
	assert.Equal(t, 8.5, *shown.Score)
	require.NotNil(t, shown.Rank)
	assert.Equal(t, 1, *shown.Rank)

	// Organizers see through the flag.
	privileged := RedactEntry(entry, domain.Compo{ShowVotingResults: false}, true)
	assert.NotNil(t, privileged.Score)
	assert.NotNil(t, privileged.Rank)
}

func TestRedactParticipation_FollowsPublishFlag(t *testing.T) {
	p := domain.CompetitionParticipation{Score: float64Ptr(48.7), Rank: intPtr(1)}

	hidden := RedactParticipation(p, domain.Competition{ShowResults: false}, false)
	assert.Nil(t, hidden.Score)
	assert.Nil(t, hidden.Rank)

	shown := RedactParticipation(p, domain.Competition{ShowResults: true}, false)
	assert.NotNil(t, shown.Score)
	assert.NotNil(t, shown.Rank)
}

func TestCompoVisible_Gates(t *testing.T) {
	cases := []struct {
		name       string
		compo      domain.Compo
		event      domain.Event
		privileged bool
		want       bool
	}{
		{"active compo on a live event", domain.Compo{Active: true}, domain.Event{}, false, true},
		{"inactive compo on a live event", domain.Compo{Active: false}, domain.Event{}, false, false},
		{"inactive compo on an archived event", domain.Compo{Active: false}, domain.Event{Archived: true}, false, true},
		{"hidden event blocks even active compos", domain.Compo{Active: true}, domain.Event{Hidden: true}, false, false},
		{"organizer sees hidden event", domain.Compo{Active: false}, domain.Event{Hidden: true}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompoVisible(tc.compo, tc.event, tc.privileged))
		})
	}
}

func TestCompetitionVisible_HideFromArchive(t *testing.T) {
	archived := domain.Event{Archived: true}

	visible := domain.Competition{Active: false}
	assert.True(t, CompetitionVisible(visible, archived, false))

	// Opted out of the archive view.
	optedOut := domain.Competition{Active: false, HideFromArchive: true}
	assert.False(t, CompetitionVisible(optedOut, archived, false))
	assert.True(t, CompetitionVisible(optedOut, archived, true))
}

func TestListEvents_HidesHiddenEvents(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewEventService(events)
	ctx := context.Background()

	visible := events.addEvent(domain.Event{Name: "Summer Party"})
	events.addEvent(domain.Event{Name: "Dry Run", Hidden: true})

	got, err := svc.ListEvents(ctx, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, visible.ID, got[0].ID)

	all, err := svc.ListEvents(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListEntries_InvisibleCompoReadsAsNotFound(t *testing.T) {
	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewCompoService(compos, events, scorer)
	ctx := context.Background()

	event := events.addEvent(domain.Event{Name: "Dry Run", Hidden: true})
	compo := compos.addCompo(domain.Compo{EventID: event.ID, Active: true})
	compos.addEntry(domain.CompoEntry{CompoID: compo.ID})

	_, err := svc.ListEntries(ctx, compo.ID, false)
	assert.ErrorIs(t, err, ErrCompoNotFound)

	entries, err := svc.ListEntries(ctx, compo.ID, true)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListEntries_RedactsUntilResultsPublished(t *testing.T) {
	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewCompoService(compos, events, scorer)
	ctx := context.Background()

	event := events.addEvent(domain.Event{Name: "Summer Party"})
	compo := compos.addCompo(domain.Compo{
		EventID:     event.ID,
		Active:      true,
		ScoreSort:   domain.ScoreSortDescending,
		Aggregation: domain.AggregationAverage,
	})
	entry := compos.addEntry(domain.CompoEntry{CompoID: compo.ID})
	_, err := ballots.ReplaceBallot(ctx, 1, compo.ID, []domain.Vote{{EntryID: entry.ID, Points: 8}})
	require.NoError(t, err)
	require.NoError(t, scorer.RecomputeCompo(ctx, compo.ID))

	entries, err := svc.ListEntries(ctx, compo.ID, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Score)
	assert.Nil(t, entries[0].Rank)

	// Flipping the flag exposes the already computed values unchanged.
	published := compo
	published.ShowVotingResults = true
	compos.addCompo(published)

	entries, err = svc.ListEntries(ctx, compo.ID, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Score)
	assert.Equal(t, 8.0, *entries[0].Score)
	require.NotNil(t, entries[0].Rank)
	assert.Equal(t, 1, *entries[0].Rank)
}

func TestListParticipations_InvisibleCompetitionReadsAsNotFound(t *testing.T) {
	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewCompetitionService(competitions, events, scorer)
	ctx := context.Background()

	event := events.addEvent(domain.Event{Name: "Winter Party 2024", Archived: true})
	competition := competitions.addCompetition(domain.Competition{
		EventID:         event.ID,
		Active:          false,
		HideFromArchive: true,
	})
	competitions.addParticipation(domain.CompetitionParticipation{CompetitionID: competition.ID, UserID: 1})

	_, err := svc.ListParticipations(ctx, competition.ID, false)
	assert.ErrorIs(t, err, ErrCompetitionNotFound)

	participations, err := svc.ListParticipations(ctx, competition.ID, true)
	require.NoError(t, err)
	assert.Len(t, participations, 1)
}
