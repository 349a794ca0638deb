package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Catalog supplies the rooms of a cinema and the movie metadata a pass
// needs.  It is implemented by the repository layer in production and by
// in-memory fakes in tests.
type Catalog interface {
	ListRooms(ctx context.Context, cinemaID uint64) ([]Room, error)
	GetMovie(ctx context.Context, movieID uint64) (Movie, error)
}

// ScheduleStore supplies the existing showtimes of a cinema for one calendar
// date.  The returned slice is treated as an immutable snapshot; a failure
// to read it aborts the whole pass, since evaluating against a partial
// snapshot would silently under-report conflicts.
type ScheduleStore interface {
	ListShowtimes(ctx context.Context, cinemaID uint64, date string) ([]ExistingShowtime, error)
}

// ErrUnknownRoom is returned when a requested room is not part of the
// cinema's catalog.
var ErrUnknownRoom = errors.New("unknown room")

// BatchPlanner drives one planning pass: expansion, sequential evaluation
// with read-your-writes visibility inside the pass, and the accepted /
// rejected split returned to the caller for display before submission.  The
// planner never writes to the schedule store; its decision is advisory and
// the write path revalidates with the same rules.
type BatchPlanner struct {
	catalog     Catalog
	store       ScheduleStore
	policies    map[string]FormatPolicy
	loc         *time.Location
	enforceCaps bool
}

// NewBatchPlanner wires a planner over its two read-side collaborators.
// loc is the cinema's local timezone; nil means UTC.  policies nil means
// DefaultPolicies.
func NewBatchPlanner(catalog Catalog, store ScheduleStore, policies map[string]FormatPolicy, loc *time.Location, enforceCaps bool) *BatchPlanner {
	if catalog == nil || store == nil {
		panic("nil collaborator passed to NewBatchPlanner")
	}
	if policies == nil {
		policies = DefaultPolicies
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BatchPlanner{catalog: catalog, store: store, policies: policies, loc: loc, enforceCaps: enforceCaps}
}

// Location exposes the cinema timezone the planner operates in.
func (p *BatchPlanner) Location() *time.Location { return p.loc }

// Policies exposes the policy table, shared with the submission-side
// revalidation so preview and enforcement never diverge.
func (p *BatchPlanner) Policies() map[string]FormatPolicy { return p.policies }

// Plan runs one full pass for the request.  It returns an error only when a
// collaborator read fails or the request is malformed; rule rejections are
// data inside the PlanResult, never errors.
func (p *BatchPlanner) Plan(ctx context.Context, req SchedulingRequest) (*PlanResult, error) {
	movie, err := p.catalog.GetMovie(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("load movie %d: %w", req.MovieID, err)
	}
	rooms, err := p.resolveRooms(ctx, req)
	if err != nil {
		return nil, err
	}
	candidates, err := ExpandCandidates(req, rooms, movie, p.loc)
	if err != nil {
		return nil, err
	}
	existing, err := p.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	result := Resolve(candidates, existing, p.policies, EvalOptions{EnforceCaps: p.enforceCaps})
	return result, nil
}

// resolveRooms maps the requested room ids onto catalog rooms, preserving
// the request order.  Any id the cinema does not own fails the pass.
func (p *BatchPlanner) resolveRooms(ctx context.Context, req SchedulingRequest) ([]Room, error) {
	all, err := p.catalog.ListRooms(ctx, req.CinemaID)
	if err != nil {
		return nil, fmt.Errorf("load rooms for cinema %d: %w", req.CinemaID, err)
	}
	byID := make(map[uint64]Room, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	rooms := make([]Room, 0, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: room %d in cinema %d", ErrUnknownRoom, id, req.CinemaID)
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

// snapshot reads the existing showtimes for every date in the request range
// in one up-front sweep, so the pass never evaluates against a partial view.
func (p *BatchPlanner) snapshot(ctx context.Context, req SchedulingRequest) ([]ExistingShowtime, error) {
	start, err := time.ParseInLocation(DateLayout, req.StartDate, p.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q: %v", ErrInvalidRequest, req.StartDate, err)
	}
	end, err := time.ParseInLocation(DateLayout, req.EndDate, p.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date %q: %v", ErrInvalidRequest, req.EndDate, err)
	}
	var all []ExistingShowtime
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		rows, err := p.store.ListShowtimes(ctx, req.CinemaID, date)
		if err != nil {
			return nil, fmt.Errorf("load schedule for %s: %w", date, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}

// Resolve evaluates candidates in order against the snapshot, feeding every
// accepted candidate back into the index so later candidates in the same
// pass see it.  It is the single rule implementation shared by the advisory
// preview and the transactional submission path.
func Resolve(candidates []CandidateShowtime, existing []ExistingShowtime, policies map[string]FormatPolicy, opts EvalOptions) *PlanResult {
	idx := NewScheduleIndex(existing, opts.ExcludeShowtimeID)
	eval := NewConflictEvaluator(policies, opts)
	result := &PlanResult{
		PassID:   uuid.NewString(),
		Accepted: make([]CandidateShowtime, 0, len(candidates)),
		Rejected: make([]ConflictReport, 0),
	}
	for _, c := range candidates {
		ev := eval.Evaluate(c, idx)
		if !ev.Accepted {
			result.Rejected = append(result.Rejected, ConflictReport{
				Candidate: c,
				Reason:    ev.Reason,
				Conflicts: ev.Conflicts,
			})
			continue
		}
		idx.InsertCandidate(c)
		result.Accepted = append(result.Accepted, c)
	}
	return result
}
