package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyvote/internal/domain"
	"partyvote/internal/repository"
)

// failingScorer wraps the real scorer and fails for one chosen compo,
// letting the bulk jobs prove they keep going.
type failingScorer struct {
	*ScoringService
	failCompoID uint
}

func (f *failingScorer) RecomputeCompo(ctx context.Context, compoID uint) error {
	if compoID == f.failCompoID {
		return errors.New("storage hiccup")
	}
	return f.ScoringService.RecomputeCompo(ctx, compoID)
}

type maintenanceFixture struct {
	svc          *MaintenanceService
	events       *fakeEventRepo
	compos       *fakeCompoRepo
	competitions *fakeCompetitionRepo
	ballots      *fakeBallotRepo
	codes        *fakeVoteCodeRepo
	scorer       *ScoringService

	event domain.Event
}

func newMaintenanceFixture(t *testing.T) *maintenanceFixture {
	t.Helper()

	events := newFakeEventRepo()
	compos := newFakeCompoRepo()
	competitions := newFakeCompetitionRepo()
	ballots := newFakeBallotRepo()
	codes := newFakeVoteCodeRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewMaintenanceService(events, compos, competitions, ballots, codes, scorer)

	event := events.addEvent(domain.Event{Name: "Summer Party 2026"})

	return &maintenanceFixture{
		svc:          svc,
		events:       events,
		compos:       compos,
		competitions: competitions,
		ballots:      ballots,
		codes:        codes,
		scorer:       scorer,
		event:        event,
	}
}

func TestOptimizeScores_RecomputesEverything(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	compo := f.compos.addCompo(domain.Compo{
		EventID:     f.event.ID,
		ScoreSort:   domain.ScoreSortDescending,
		Aggregation: domain.AggregationAverage,
	})
	entry := f.compos.addEntry(domain.CompoEntry{CompoID: compo.ID})
	_, err := f.ballots.ReplaceBallot(ctx, 1, compo.ID, []domain.Vote{{EntryID: entry.ID, Points: 8}})
	require.NoError(t, err)

	competition := f.competitions.addCompetition(domain.Competition{
		EventID:   f.event.ID,
		ScoreSort: domain.ScoreSortDescending,
	})
	participation := f.competitions.addParticipation(domain.CompetitionParticipation{
		CompetitionID: competition.ID,
		UserID:        1,
		Score:         float64Ptr(30),
	})

	result, err := f.svc.OptimizeScores(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Empty(t, result.Failed)

	got, err := f.compos.GetEntryByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 8.0, *got.Score)

	p, err := f.competitions.GetParticipationByID(ctx, participation.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Rank)
	assert.Equal(t, 1, *p.Rank)

	// A second run changes nothing.
	again, err := f.svc.OptimizeScores(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, result, again)
}

func TestOptimizeScores_ContinuesPastFailure(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	bad := f.compos.addCompo(domain.Compo{EventID: f.event.ID})
	good := f.compos.addCompo(domain.Compo{
		EventID:     f.event.ID,
		ScoreSort:   domain.ScoreSortDescending,
		Aggregation: domain.AggregationAverage,
	})
	entry := f.compos.addEntry(domain.CompoEntry{CompoID: good.ID})
	_, err := f.ballots.ReplaceBallot(ctx, 1, good.ID, []domain.Vote{{EntryID: entry.ID, Points: 6}})
	require.NoError(t, err)

	svc := NewMaintenanceService(f.events, f.compos, f.competitions, f.ballots, f.codes,
		&failingScorer{ScoringService: f.scorer, failCompoID: bad.ID})

	result, err := svc.OptimizeScores(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, bad.ID, result.Failed[0].EntityID)

	// The healthy compo was still recomputed.
	got, err := f.compos.GetEntryByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 6.0, *got.Score)
}

func TestOptimizeScores_UnknownEvent(t *testing.T) {
	f := newMaintenanceFixture(t)

	_, err := f.svc.OptimizeScores(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestRemoveOldVotes_RequiresArchivedEvent(t *testing.T) {
	f := newMaintenanceFixture(t)

	_, err := f.svc.RemoveOldVotes(context.Background(), f.event.ID)
	assert.ErrorIs(t, err, ErrEventNotArchived)
}

func TestRemoveOldVotes_DeletesBallotsKeepsResults(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	archived := f.events.addEvent(domain.Event{Name: "Winter Party 2024", Archived: true})
	compo := f.compos.addCompo(domain.Compo{
		EventID:     archived.ID,
		ScoreSort:   domain.ScoreSortDescending,
		Aggregation: domain.AggregationAverage,
	})
	entry := f.compos.addEntry(domain.CompoEntry{CompoID: compo.ID})

	_, err := f.ballots.ReplaceBallot(ctx, 1, compo.ID, []domain.Vote{{EntryID: entry.ID, Points: 7}})
	require.NoError(t, err)
	_, err = f.ballots.ReplaceBallot(ctx, 2, compo.ID, []domain.Vote{{EntryID: entry.ID, Points: 9}})
	require.NoError(t, err)
	require.NoError(t, f.scorer.RecomputeCompo(ctx, compo.ID))

	result, err := f.svc.RemoveOldVotes(ctx, archived.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 0, f.ballots.groupCount())

	// Scores and ranks survive the purge.
	got, err := f.compos.GetEntryByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 8.0, *got.Score)
	require.NotNil(t, got.Rank)
	assert.Equal(t, 1, *got.Rank)
}

func TestTransferRights_MovesTicketLink(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	from := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 7, Delivered: true, VoteEligible: true})
	to := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 7, Delivered: true, VoteEligible: true})

	code, err := f.codes.Create(ctx, domain.VoteCode{
		EventID: f.event.ID,
		UserID:  7,
		Code:    "ABCD-EFGH",
		Origin:  domain.VoteCodeOriginTicket,
	}, &from.ID)
	require.NoError(t, err)

	result, err := f.svc.TransferRights(ctx, f.event.ID, from.ID, to.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	link, err := f.codes.FindLinkByTicketID(ctx, to.ID)
	require.NoError(t, err)
	assert.Equal(t, code.ID, link.VoteCodeID)

	_, err = f.codes.FindLinkByTicketID(ctx, from.ID)
	assert.ErrorIs(t, err, repository.ErrTicketLinkNotFound)

	// No second code appeared along the way.
	assert.Equal(t, 1, f.codes.codeCount())
}

func TestTransferRights_Refusals(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	otherEvent := f.events.addEvent(domain.Event{Name: "Other Party"})

	from := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 7, Delivered: true, VoteEligible: true})
	_, err := f.codes.Create(ctx, domain.VoteCode{
		EventID: f.event.ID,
		UserID:  7,
		Code:    "ABCD-EFGH",
		Origin:  domain.VoteCodeOriginTicket,
	}, &from.ID)
	require.NoError(t, err)

	t.Run("source without a backing code", func(t *testing.T) {
		bare := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 8, Delivered: true, VoteEligible: true})
		target := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 8, Delivered: true, VoteEligible: true})

		_, err := f.svc.TransferRights(ctx, f.event.ID, bare.ID, target.ID)
		assert.ErrorIs(t, err, ErrTicketNotBacking)
	})

	t.Run("target from another event", func(t *testing.T) {
		foreign := f.events.addTicket(domain.Ticket{EventID: otherEvent.ID, OwnerID: 7, Delivered: true, VoteEligible: true})

		_, err := f.svc.TransferRights(ctx, f.event.ID, from.ID, foreign.ID)
		assert.ErrorIs(t, err, ErrTicketMismatch)
	})

	t.Run("target not delivered or not eligible", func(t *testing.T) {
		undelivered := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 7, Delivered: false, VoteEligible: true})
		ineligible := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 7, Delivered: true, VoteEligible: false})

		_, err := f.svc.TransferRights(ctx, f.event.ID, from.ID, undelivered.ID)
		assert.ErrorIs(t, err, ErrTicketMismatch)
		_, err = f.svc.TransferRights(ctx, f.event.ID, from.ID, ineligible.ID)
		assert.ErrorIs(t, err, ErrTicketMismatch)
	})

	t.Run("target already backs a code", func(t *testing.T) {
		taken := f.events.addTicket(domain.Ticket{EventID: f.event.ID, OwnerID: 9, Delivered: true, VoteEligible: true})
		_, err := f.codes.Create(ctx, domain.VoteCode{
			EventID: f.event.ID,
			UserID:  9,
			Code:    "IJKL-MNOP",
			Origin:  domain.VoteCodeOriginTicket,
		}, &taken.ID)
		require.NoError(t, err)

		_, err = f.svc.TransferRights(ctx, f.event.ID, from.ID, taken.ID)
		assert.ErrorIs(t, err, ErrTicketAlreadyBacks)
	})

	t.Run("unknown tickets and events", func(t *testing.T) {
		_, err := f.svc.TransferRights(ctx, 999, from.ID, from.ID)
		assert.ErrorIs(t, err, repository.ErrEventNotFound)
		_, err = f.svc.TransferRights(ctx, f.event.ID, 999, from.ID)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})

	// After all the refusals the original link is still in place.
	link, err := f.codes.FindLinkByTicketID(ctx, from.ID)
	require.NoError(t, err)
	assert.Equal(t, from.ID, link.TicketID)
}
