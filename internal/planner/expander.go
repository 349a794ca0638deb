package planner

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest marks malformed scheduling input (dates, slots,
// durations) so transport layers can answer 4xx instead of treating the
// failure as a collaborator outage.
var ErrInvalidRequest = errors.New("invalid scheduling request")

// ExpandCandidates turns a scheduling request into the ordered list of raw
// candidate screenings: for every date in the inclusive range, for every
// requested room, for every requested format the room supports, for every
// requested slot.  Rooms that do not support a requested format are silently
// skipped for that format; no candidate is emitted and no rejection is
// recorded.  The output order is the evaluation order and must not be
// changed: date ascending, then rooms, formats and slots each in request
// order.
//
// rooms must already be resolved from the catalog and arranged in the
// request's room order.  Slot times are interpreted as wall-clock in loc.
func ExpandCandidates(req SchedulingRequest, rooms []Room, movie Movie, loc *time.Location) ([]CandidateShowtime, error) {
	if movie.DurationMin <= 0 {
		return nil, fmt.Errorf("%w: movie %d has no usable duration", ErrInvalidRequest, movie.ID)
	}
	start, err := time.ParseInLocation(DateLayout, req.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q: %v", ErrInvalidRequest, req.StartDate, err)
	}
	end, err := time.ParseInLocation(DateLayout, req.EndDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date %q: %v", ErrInvalidRequest, req.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date %s precedes start_date %s", ErrInvalidRequest, req.EndDate, req.StartDate)
	}

	// Parse the slots once up front so a malformed slot fails the whole
	// request instead of surfacing midway through expansion.
	type slotTime struct {
		raw  string
		hour int
		min  int
	}
	slots := make([]slotTime, 0, len(req.Slots))
	for _, s := range req.Slots {
		t, err := time.Parse(SlotLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %q: %v", ErrInvalidRequest, s, err)
		}
		slots = append(slots, slotTime{raw: s, hour: t.Hour(), min: t.Minute()})
	}

	duration := time.Duration(movie.DurationMin) * time.Minute
	var out []CandidateShowtime
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		for _, room := range rooms {
			for _, format := range req.Formats {
				if !room.Supports(format) {
					continue
				}
				for _, slot := range slots {
					st := time.Date(day.Year(), day.Month(), day.Day(), slot.hour, slot.min, 0, 0, loc)
					out = append(out, CandidateShowtime{
						Date:       date,
						RoomID:     room.ID,
						RoomName:   room.Name,
						Format:     format,
						Slot:       slot.raw,
						StartsAt:   st,
						EndsAt:     st.Add(duration),
						MovieID:    movie.ID,
						MovieTitle: movie.Title,
						PriceCents: req.PriceCents,
					})
				}
			}
		}
	}
	return out, nil
}
