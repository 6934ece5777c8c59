package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyvote/internal/domain"
)

type compoFixture struct {
	svc    *CompoService
	events *fakeEventRepo
	compos *fakeCompoRepo

	event domain.Event
}

func newCompoFixture(t *testing.T) *compoFixture {
	t.Helper()

	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewCompoService(compos, events, scorer)

	now := time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	event := events.addEvent(domain.Event{
		Name:        "revision 2026",
		VotingStart: now.Add(24 * time.Hour),
		VotingEnd:   now.Add(48 * time.Hour),
	})

	return &compoFixture{
		svc:    svc,
		events: events,
		compos: compos,
		event:  event,
	}
}

func TestCreateEntry_EditingDeadlineBoundaries(t *testing.T) {
	f := newCompoFixture(t)
	ctx := context.Background()

	deadline := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	compo := f.compos.addCompo(domain.Compo{
		EventID:    f.event.ID,
		Active:     true,
		EditingEnd: deadline,
	})

	// One second before the deadline the entry is accepted.
	f.svc.now = func() time.Time { return deadline.Add(-time.Second) }
	_, err := f.svc.CreateEntry(ctx, domain.CompoEntry{CompoID: compo.ID, UserID: 7, Title: "intro"})
	require.NoError(t, err)

	// At the deadline instant it is not; the window is half-open.
	f.svc.now = func() time.Time { return deadline }
	_, err = f.svc.CreateEntry(ctx, domain.CompoEntry{CompoID: compo.ID, UserID: 8, Title: "late intro"})
	assert.ErrorIs(t, err, ErrEditingClosed)

	// Well past it, same answer.
	f.svc.now = func() time.Time { return deadline.Add(48 * time.Hour) }
	_, err = f.svc.CreateEntry(ctx, domain.CompoEntry{CompoID: compo.ID, UserID: 9, Title: "very late intro"})
	assert.ErrorIs(t, err, ErrEditingClosed)

	// Only the in-time entry made it in.
	entries, err := f.compos.GetEntriesByCompoID(ctx, compo.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "intro", entries[0].Title)
}

func TestCreateEntry_NoDeadlineSet(t *testing.T) {
	f := newCompoFixture(t)

	compo := f.compos.addCompo(domain.Compo{EventID: f.event.ID, Active: true})

	_, err := f.svc.CreateEntry(context.Background(), domain.CompoEntry{CompoID: compo.ID, UserID: 7, Title: "intro"})
	assert.NoError(t, err)
}

func TestCreateCompo_InheritsEventVotingWindow(t *testing.T) {
	f := newCompoFixture(t)

	compo, err := f.svc.CreateCompo(context.Background(), domain.Compo{
		EventID: f.event.ID,
		Name:    "4k intro",
		Active:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, f.event.VotingStart, compo.VotingStart)
	assert.Equal(t, f.event.VotingEnd, compo.VotingEnd)
	// Editing closes when voting opens unless set explicitly.
	assert.Equal(t, compo.VotingStart, compo.EditingEnd)
}

func TestCreateCompo_ExplicitWindowWins(t *testing.T) {
	f := newCompoFixture(t)

	start := f.event.VotingStart.Add(-6 * time.Hour)
	end := f.event.VotingEnd.Add(-6 * time.Hour)
	editingEnd := start.Add(-time.Hour)

	compo, err := f.svc.CreateCompo(context.Background(), domain.Compo{
		EventID:     f.event.ID,
		Name:        "oldskool demo",
		Active:      true,
		EditingEnd:  editingEnd,
		VotingStart: start,
		VotingEnd:   end,
	})
	require.NoError(t, err)

	assert.Equal(t, start, compo.VotingStart)
	assert.Equal(t, end, compo.VotingEnd)
	assert.Equal(t, editingEnd, compo.EditingEnd)
}
