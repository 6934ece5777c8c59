package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyvote/internal/domain"
)

type ballotFixture struct {
	svc     *BallotService
	compos  *fakeCompoRepo
	codes   *fakeVoteCodeRepo
	ballots *fakeBallotRepo

	compo domain.Compo
	event domain.Event
}

func newBallotFixture(t *testing.T) *ballotFixture {
	t.Helper()

	compos := newFakeCompoRepo()
	codes := newFakeVoteCodeRepo()
	ballots := newFakeBallotRepo()
	competitions := newFakeCompetitionRepo()
	scorer := NewScoringService(compos, ballots, competitions)
	svc := NewBallotService(compos, codes, ballots, scorer)

	now := time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	compo := compos.addCompo(domain.Compo{
		EventID:     1,
		Name:        "oneliner",
		Active:      true,
		VotingStart: now.Add(-time.Hour),
		VotingEnd:   now.Add(time.Hour),
		ScoreSort:   domain.ScoreSortDescending,
		Aggregation: domain.AggregationAverage,
	})

	return &ballotFixture{
		svc:     svc,
		compos:  compos,
		codes:   codes,
		ballots: ballots,
		compo:   compo,
		event:   domain.Event{ID: 1},
	}
}

func (f *ballotFixture) grantCode(t *testing.T, userID uint) {
	t.Helper()

	_, err := f.codes.Create(context.Background(), domain.VoteCode{
		EventID: f.event.ID,
		UserID:  userID,
		Code:    "TEST-CODE",
		Origin:  domain.VoteCodeOriginTicket,
	}, nil)
	require.NoError(t, err)
}

func TestSubmitBallot_ResubmissionReplacesPreviousBallot(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()
	f.grantCode(t, 7)

	a := f.compos.addEntry(domain.CompoEntry{CompoID: f.compo.ID})
	b := f.compos.addEntry(domain.CompoEntry{CompoID: f.compo.ID})

	_, err := f.svc.SubmitBallot(ctx, 7, f.compo.ID, map[uint]float64{a.ID: 3, b.ID: 8})
	require.NoError(t, err)

	_, err = f.svc.SubmitBallot(ctx, 7, f.compo.ID, map[uint]float64{a.ID: 9})
	require.NoError(t, err)

	// Exactly one ballot for the (voter, compo) pair, holding only the
	// second submission's values.
	assert.Equal(t, 1, f.ballots.groupCount())

	groups, err := f.ballots.GetVoteGroupsByCompoID(ctx, f.compo.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Votes, 1)
	assert.Equal(t, a.ID, groups[0].Votes[0].EntryID)
	assert.Equal(t, 9.0, groups[0].Votes[0].Points)

	// Scoring reflects the replacement: entry B lost its only vote.
	entryA, err := f.compos.GetEntryByID(ctx, a.ID)
	require.NoError(t, err)
	entryB, err := f.compos.GetEntryByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, entryA.Score)
	assert.Equal(t, 9.0, *entryA.Score)
	assert.Nil(t, entryB.Score)
	assert.Nil(t, entryB.Rank)
}

func TestSubmitBallot_WithoutVoteCode(t *testing.T) {
	f := newBallotFixture(t)

	entry := f.compos.addEntry(domain.CompoEntry{CompoID: f.compo.ID})

	_, err := f.svc.SubmitBallot(context.Background(), 7, f.compo.ID, map[uint]float64{entry.ID: 5})
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestSubmitBallot_WindowBoundaries(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()
	f.grantCode(t, 7)

	entry := f.compos.addEntry(domain.CompoEntry{CompoID: f.compo.ID})

	// One second before the window closes the ballot is accepted.
	f.svc.now = func() time.Time { return f.compo.VotingEnd.Add(-time.Second) }
	_, err := f.svc.SubmitBallot(ctx, 7, f.compo.ID, map[uint]float64{entry.ID: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, f.ballots.groupCount())

	// At the close instant it is not; the window is half-open.
	f.svc.now = func() time.Time { return f.compo.VotingEnd }
	_, err = f.svc.SubmitBallot(ctx, 7, f.compo.ID, map[uint]float64{entry.ID: 6})
	assert.ErrorIs(t, err, ErrVotingClosed)

	// Before the window opens, same answer.
	f.svc.now = func() time.Time { return f.compo.VotingStart.Add(-time.Minute) }
	_, err = f.svc.SubmitBallot(ctx, 7, f.compo.ID, map[uint]float64{entry.ID: 6})
	assert.ErrorIs(t, err, ErrVotingClosed)

	// The accepted ballot survived the rejected attempts.
	groups, err := f.ballots.GetVoteGroupsByCompoID(ctx, f.compo.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 5.0, groups[0].Votes[0].Points)
}

func TestSubmitBallot_UnknownEntry(t *testing.T) {
	f := newBallotFixture(t)
	f.grantCode(t, 7)

	other := f.compos.addCompo(domain.Compo{EventID: 1, Active: true})
	foreign := f.compos.addEntry(domain.CompoEntry{CompoID: other.ID})

	_, err := f.svc.SubmitBallot(context.Background(), 7, f.compo.ID, map[uint]float64{foreign.ID: 5})
	assert.ErrorIs(t, err, ErrUnknownEntry)
}

func TestSubmitBallot_DisqualifiedEntry(t *testing.T) {
	f := newBallotFixture(t)
	f.grantCode(t, 7)

	entry := f.compos.addEntry(domain.CompoEntry{CompoID: f.compo.ID, Disqualified: true})

	_, err := f.svc.SubmitBallot(context.Background(), 7, f.compo.ID, map[uint]float64{entry.ID: 5})
	assert.ErrorIs(t, err, ErrEntryDisqualified)
}

func TestSubmitBallot_InactiveCompo(t *testing.T) {
	f := newBallotFixture(t)
	ctx := context.Background()
	f.grantCode(t, 7)

	inactive := f.compos.addCompo(domain.Compo{
		EventID:     1,
		Active:      false,
		VotingStart: f.compo.VotingStart,
		VotingEnd:   f.compo.VotingEnd,
	})
	entry := f.compos.addEntry(domain.CompoEntry{CompoID: inactive.ID})

	_, err := f.svc.SubmitBallot(ctx, 7, inactive.ID, map[uint]float64{entry.ID: 5})
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestSubmitBallot_UnknownCompo(t *testing.T) {
	f := newBallotFixture(t)

	_, err := f.svc.SubmitBallot(context.Background(), 7, 9999, map[uint]float64{1: 5})
	assert.ErrorIs(t, err, ErrCompoNotFound)
}
