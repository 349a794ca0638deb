package planner

import (
	"context"
	"fmt"
	"time"
)

// EditRequest is the single-candidate variant of a scheduling request used
// when modifying an existing showtime: exactly one date, one room, one
// format and one slot, plus the id of the showtime being replaced.
type EditRequest struct {
	ShowtimeID uint64 `json:"showtime_id"`
	CinemaID   uint64 `json:"cinema_id"`
	MovieID    uint64 `json:"movie_id"`
	RoomID     uint64 `json:"room_id"`
	Format     string `json:"format"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	PriceCents uint32 `json:"price_cents"`
}

// EditAdapter specializes the batch planner for modifying one existing
// showtime.  The schedule snapshot is fetched exactly as in batch mode, but
// the edited showtime is filtered out of the index and excluded from the
// late-night quota count, so a screening can never conflict with its own
// prior record.  All other rules are identical.
type EditAdapter struct {
	planner *BatchPlanner
}

// NewEditAdapter wraps a batch planner for the single-edit flow.
func NewEditAdapter(p *BatchPlanner) *EditAdapter {
	if p == nil {
		panic("nil planner passed to NewEditAdapter")
	}
	return &EditAdapter{planner: p}
}

// Preview evaluates the edit as a one-candidate pass.  The result carries
// either one accepted candidate (with ReplacesID set) or one rejection.
func (a *EditAdapter) Preview(ctx context.Context, req EditRequest) (*PlanResult, error) {
	if req.ShowtimeID == 0 {
		return nil, fmt.Errorf("edit request missing showtime id")
	}
	p := a.planner
	movie, err := p.catalog.GetMovie(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("load movie %d: %w", req.MovieID, err)
	}
	rooms, err := p.resolveRooms(ctx, SchedulingRequest{CinemaID: req.CinemaID, RoomIDs: []uint64{req.RoomID}})
	if err != nil {
		return nil, err
	}
	if !rooms[0].Supports(req.Format) {
		return nil, fmt.Errorf("room %d does not support format %s", req.RoomID, req.Format)
	}
	candidates, err := ExpandCandidates(SchedulingRequest{
		CinemaID:   req.CinemaID,
		MovieID:    req.MovieID,
		RoomIDs:    []uint64{req.RoomID},
		Formats:    []string{req.Format},
		StartDate:  req.Date,
		EndDate:    req.Date,
		Slots:      []string{req.Slot},
		PriceCents: req.PriceCents,
	}, rooms, movie, p.loc)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].ReplacesID = req.ShowtimeID
	}
	existing, err := p.store.ListShowtimes(ctx, req.CinemaID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("load schedule for %s: %w", req.Date, err)
	}
	result := Resolve(candidates, existing, p.policies, EvalOptions{
		ExcludeShowtimeID: req.ShowtimeID,
		EnforceCaps:       p.enforceCaps,
	})
	return result, nil
}

// Location exposes the underlying planner's timezone for callers that parse
// request dates before handing them in.
func (a *EditAdapter) Location() *time.Location { return a.planner.loc }
