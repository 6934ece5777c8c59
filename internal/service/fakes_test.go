package service

import (
	"context"
	"sort"
	"sync"

	"partyvote/internal/domain"
	"partyvote/internal/repository"
)

// In-memory stand-ins for the repositories, good enough to exercise the
// voting and scoring rules without a database.

type fakeEventRepo struct {
	mu      sync.Mutex
	events  map[uint]domain.Event
	tickets map[uint]domain.Ticket
	nextID  uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  make(map[uint]domain.Event),
		tickets: make(map[uint]domain.Ticket),
		nextID:  1,
	}
}

func (f *fakeEventRepo) addEvent(e domain.Event) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		e.ID = f.nextID
		f.nextID++
	}
	f.events[e.ID] = e
	return e
}

func (f *fakeEventRepo) addTicket(t domain.Ticket) domain.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID
		f.nextID++
	}
	f.tickets[t.ID] = t
	return t
}

func (f *fakeEventRepo) Create(_ context.Context, e domain.Event) (domain.Event, error) {
	return f.addEvent(e), nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uint) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) GetAll(_ context.Context) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (f *fakeEventRepo) CreateTicket(_ context.Context, t domain.Ticket) (domain.Ticket, error) {
	return f.addTicket(t), nil
}

func (f *fakeEventRepo) GetTicketByID(_ context.Context, id uint) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeEventRepo) FindEligibleTicket(_ context.Context, eventID, ownerID uint) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []domain.Ticket
	for _, t := range f.tickets {
		if t.EventID == eventID && t.OwnerID == ownerID && t.Delivered && t.VoteEligible {
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found[0], nil
}

type fakeCompoRepo struct {
	mu      sync.Mutex
	compos  map[uint]domain.Compo
	entries map[uint]domain.CompoEntry
	nextID  uint
}

func newFakeCompoRepo() *fakeCompoRepo {
	return &fakeCompoRepo{
		compos:  make(map[uint]domain.Compo),
		entries: make(map[uint]domain.CompoEntry),
		nextID:  1,
	}
}

func (f *fakeCompoRepo) addCompo(c domain.Compo) domain.Compo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	}
	f.compos[c.ID] = c
	return c
}

func (f *fakeCompoRepo) addEntry(e domain.CompoEntry) domain.CompoEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		e.ID = f.nextID
		f.nextID++
	}
	f.entries[e.ID] = e
	return e
}

func (f *fakeCompoRepo) Create(_ context.Context, c domain.Compo) (domain.Compo, error) {
	return f.addCompo(c), nil
}

func (f *fakeCompoRepo) GetByID(_ context.Context, id uint) (domain.Compo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.compos[id]
	if !ok {
		return domain.Compo{}, repository.ErrCompoNotFound
	}
	return c, nil
}

func (f *fakeCompoRepo) GetByEventID(_ context.Context, eventID uint) ([]domain.Compo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var compos []domain.Compo
	for _, c := range f.compos {
		if c.EventID == eventID {
			compos = append(compos, c)
		}
	}
	sort.Slice(compos, func(i, j int) bool { return compos[i].ID < compos[j].ID })
	return compos, nil
}

func (f *fakeCompoRepo) CreateEntry(_ context.Context, e domain.CompoEntry) (domain.CompoEntry, error) {
	return f.addEntry(e), nil
}

func (f *fakeCompoRepo) GetEntryByID(_ context.Context, id uint) (domain.CompoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return domain.CompoEntry{}, repository.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeCompoRepo) GetEntriesByCompoID(_ context.Context, compoID uint) ([]domain.CompoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []domain.CompoEntry
	for _, e := range f.entries {
		if e.CompoID == compoID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (f *fakeCompoRepo) UpdateEntryResult(_ context.Context, entryID uint, score *float64, rank *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return repository.ErrEntryNotFound
	}
	e.Score = score
	e.Rank = rank
	f.entries[entryID] = e
	return nil
}

func (f *fakeCompoRepo) DisqualifyEntry(_ context.Context, entryID uint, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return repository.ErrEntryNotFound
	}
	e.Disqualified = true
	e.DisqualifiedReason = reason
	e.Rank = nil
	f.entries[entryID] = e
	return nil
}

type ballotKey struct {
	userID  uint
	compoID uint
}

type fakeBallotRepo struct {
	mu     sync.Mutex
	groups map[ballotKey]domain.VoteGroup
	nextID uint
}

func newFakeBallotRepo() *fakeBallotRepo {
	return &fakeBallotRepo{
		groups: make(map[ballotKey]domain.VoteGroup),
		nextID: 1,
	}
}

func (f *fakeBallotRepo) ReplaceBallot(_ context.Context, userID, compoID uint, votes []domain.Vote) (domain.VoteGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ballotKey{userID: userID, compoID: compoID}
	group, ok := f.groups[key]
	if !ok {
		group = domain.VoteGroup{ID: f.nextID, UserID: userID, CompoID: compoID}
		f.nextID++
	}
	group.Votes = votes
	f.groups[key] = group
	return group, nil
}

func (f *fakeBallotRepo) GetVoteGroupsByCompoID(_ context.Context, compoID uint) ([]domain.VoteGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var groups []domain.VoteGroup
	for _, g := range f.groups {
		if g.CompoID == compoID {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (f *fakeBallotRepo) DeleteVotesByCompoID(_ context.Context, compoID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, g := range f.groups {
		if g.CompoID == compoID {
			delete(f.groups, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeBallotRepo) groupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.groups)
}

type codeKey struct {
	eventID uint
	userID  uint
}

type fakeVoteCodeRepo struct {
	mu       sync.Mutex
	codes    map[codeKey]domain.VoteCode
	links    map[uint]domain.TicketVoteCode // keyed by link ID
	requests map[codeKey]domain.VoteCodeRequest
	nextID   uint

	// When set, the next Create fails with this error once.
	createErr error
	// While positive, FindByEventAndUser misses even when a code exists;
	// simulates a row committed by a racing call between check and insert.
	findMisses int
}

func newFakeVoteCodeRepo() *fakeVoteCodeRepo {
	return &fakeVoteCodeRepo{
		codes:    make(map[codeKey]domain.VoteCode),
		links:    make(map[uint]domain.TicketVoteCode),
		requests: make(map[codeKey]domain.VoteCodeRequest),
		nextID:   1,
	}
}

func (f *fakeVoteCodeRepo) Create(_ context.Context, code domain.VoteCode, ticketID *uint) (domain.VoteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return domain.VoteCode{}, err
	}
	key := codeKey{eventID: code.EventID, userID: code.UserID}
	if _, ok := f.codes[key]; ok {
		return domain.VoteCode{}, repository.ErrVoteCodeExists
	}
	code.ID = f.nextID
	f.nextID++
	f.codes[key] = code
	if ticketID != nil {
		link := domain.TicketVoteCode{ID: f.nextID, VoteCodeID: code.ID, TicketID: *ticketID}
		f.nextID++
		f.links[link.ID] = link
	}
	return code, nil
}

func (f *fakeVoteCodeRepo) FindByEventAndUser(_ context.Context, eventID, userID uint) (domain.VoteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findMisses > 0 {
		f.findMisses--
		return domain.VoteCode{}, repository.ErrVoteCodeNotFound
	}
	code, ok := f.codes[codeKey{eventID: eventID, userID: userID}]
	if !ok {
		return domain.VoteCode{}, repository.ErrVoteCodeNotFound
	}
	return code, nil
}

func (f *fakeVoteCodeRepo) FindLinkByTicketID(_ context.Context, ticketID uint) (domain.TicketVoteCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, link := range f.links {
		if link.TicketID == ticketID {
			return link, nil
		}
	}
	return domain.TicketVoteCode{}, repository.ErrTicketLinkNotFound
}

func (f *fakeVoteCodeRepo) UpdateLinkTicket(_ context.Context, linkID, ticketID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[linkID]
	if !ok {
		return repository.ErrTicketLinkNotFound
	}
	link.TicketID = ticketID
	f.links[linkID] = link
	return nil
}

func (f *fakeVoteCodeRepo) CreateRequest(_ context.Context, req domain.VoteCodeRequest) (domain.VoteCodeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := codeKey{eventID: req.EventID, userID: req.UserID}
	if _, ok := f.requests[key]; ok {
		return domain.VoteCodeRequest{}, repository.ErrRequestExists
	}
	req.ID = f.nextID
	f.nextID++
	req.Status = domain.RequestStatusPending
	f.requests[key] = req
	return req, nil
}

func (f *fakeVoteCodeRepo) GetRequestByID(_ context.Context, id uint) (domain.VoteCodeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return domain.VoteCodeRequest{}, repository.ErrRequestNotFound
}

func (f *fakeVoteCodeRepo) FindRequestByEventAndUser(_ context.Context, eventID, userID uint) (domain.VoteCodeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[codeKey{eventID: eventID, userID: userID}]
	if !ok {
		return domain.VoteCodeRequest{}, repository.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeVoteCodeRepo) UpdateRequestStatus(_ context.Context, id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, req := range f.requests {
		if req.ID == id {
			req.Status = status
			f.requests[key] = req
			return nil
		}
	}
	return repository.ErrRequestNotFound
}

func (f *fakeVoteCodeRepo) ReopenRequest(_ context.Context, id uint, reason string) (domain.VoteCodeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, req := range f.requests {
		if req.ID == id {
			req.Status = domain.RequestStatusPending
			req.Reason = reason
			f.requests[key] = req
			return req, nil
		}
	}
	return domain.VoteCodeRequest{}, repository.ErrRequestNotFound
}

func (f *fakeVoteCodeRepo) codeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.codes)
}

type fakeCompetitionRepo struct {
	mu             sync.Mutex
	competitions   map[uint]domain.Competition
	participations map[uint]domain.CompetitionParticipation
	nextID         uint
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{
		competitions:   make(map[uint]domain.Competition),
		participations: make(map[uint]domain.CompetitionParticipation),
		nextID:         1,
	}
}

func (f *fakeCompetitionRepo) addCompetition(c domain.Competition) domain.Competition {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	}
	f.competitions[c.ID] = c
	return c
}

func (f *fakeCompetitionRepo) addParticipation(p domain.CompetitionParticipation) domain.CompetitionParticipation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.participations[p.ID] = p
	return p
}

func (f *fakeCompetitionRepo) Create(_ context.Context, c domain.Competition) (domain.Competition, error) {
	return f.addCompetition(c), nil
}

func (f *fakeCompetitionRepo) GetByID(_ context.Context, id uint) (domain.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitions[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}
	return c, nil
}

func (f *fakeCompetitionRepo) GetByEventID(_ context.Context, eventID uint) ([]domain.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var competitions []domain.Competition
	for _, c := range f.competitions {
		if c.EventID == eventID {
			competitions = append(competitions, c)
		}
	}
	sort.Slice(competitions, func(i, j int) bool { return competitions[i].ID < competitions[j].ID })
	return competitions, nil
}

func (f *fakeCompetitionRepo) CreateParticipation(_ context.Context, p domain.CompetitionParticipation) (domain.CompetitionParticipation, error) {
	return f.addParticipation(p), nil
}

func (f *fakeCompetitionRepo) GetParticipationByID(_ context.Context, id uint) (domain.CompetitionParticipation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participations[id]
	if !ok {
		return domain.CompetitionParticipation{}, repository.ErrParticipationNotFound
	}
	return p, nil
}

func (f *fakeCompetitionRepo) GetParticipationsByCompetitionID(_ context.Context, competitionID uint) ([]domain.CompetitionParticipation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var participations []domain.CompetitionParticipation
	for _, p := range f.participations {
		if p.CompetitionID == competitionID {
			participations = append(participations, p)
		}
	}
	sort.Slice(participations, func(i, j int) bool { return participations[i].ID < participations[j].ID })
	return participations, nil
}

func (f *fakeCompetitionRepo) UpdateParticipationScore(_ context.Context, id uint, score *float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participations[id]
	if !ok {
		return repository.ErrParticipationNotFound
	}
	p.Score = score
	f.participations[id] = p
	return nil
}

func (f *fakeCompetitionRepo) UpdateParticipationRank(_ context.Context, id uint, rank *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participations[id]
	if !ok {
		return repository.ErrParticipationNotFound
	}
	p.Rank = rank
	f.participations[id] = p
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	approved []uint
	rejected []uint
}

func (f *fakeNotifier) VoteCodeRequestApproved(_ context.Context, req domain.VoteCodeRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, req.ID)
}

func (f *fakeNotifier) VoteCodeRequestRejected(_ context.Context, req domain.VoteCodeRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, req.ID)
}
