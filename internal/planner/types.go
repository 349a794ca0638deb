// Package planner implements the showtime batch-scheduling conflict resolver.
// It expands a scheduling request into concrete candidate screenings and
// decides, slot by slot, whether each candidate may be scheduled against the
// existing schedule and against the other candidates in the same pass.  The
// package is pure: it performs no I/O and holds no state that outlives a
// single planning pass.
package planner

import "time"

// DateLayout is the calendar-date format used throughout the planner.
const DateLayout = "2006-01-02"

// SlotLayout is the time-of-day format for requested daily slots.
const SlotLayout = "15:04"

// RejectReason enumerates why a candidate was rejected.  Reasons are data
// attached to the rejected candidate, never errors; the pass continues
// evaluating the remaining candidates regardless.
type RejectReason string

const (
	// ReasonOutOfHours means the movie duration pushed the screening past
	// midnight into the next calendar date.
	ReasonOutOfHours RejectReason = "OUT_OF_HOURS"
	// ReasonLateNightQuota means the per-room cap on late-night screenings
	// of a quota-restricted format was already filled.
	ReasonLateNightQuota RejectReason = "LATE_NIGHT_QUOTA_EXCEEDED"
	// ReasonRoomOverlap means the candidate's interval intersects another
	// screening in the same room on the same date.
	ReasonRoomOverlap RejectReason = "ROOM_OVERLAP"
	// ReasonRoomGapTooSmall means the candidate does not intersect another
	// screening but leaves less than the required gap between them.
	ReasonRoomGapTooSmall RejectReason = "ROOM_GAP_TOO_SMALL"
	// ReasonNearbyRoom means the same movie starts within the proximity
	// threshold in a different room on the same date.
	ReasonNearbyRoom RejectReason = "NEARBY_ROOM_CONFLICT"
	// ReasonDailyCapExceeded and ReasonRoomCapExceeded correspond to the
	// declared per-format caps.  They only fire when cap enforcement is
	// explicitly enabled; by default the caps are declared but not checked.
	ReasonDailyCapExceeded RejectReason = "DAILY_CAP_EXCEEDED"
	ReasonRoomCapExceeded  RejectReason = "ROOM_CAP_EXCEEDED"
)

// Room is the planner's view of a screening room: identity plus the set of
// projection formats the room supports.  Rooms are owned by the catalog and
// immutable for the duration of one planning pass.
type Room struct {
	ID       uint64   `json:"id"`
	CinemaID uint64   `json:"cinema_id"`
	Name     string   `json:"name"`
	Formats  []string `json:"formats"`
}

// Supports reports whether the room supports the given projection format.
func (r Room) Supports(format string) bool {
	for _, f := range r.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Movie carries the catalog fields the planner needs: the title for conflict
// reports and the duration for computing candidate end times.
type Movie struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	DurationMin int    `json:"duration_min"`
}

// ExistingShowtime is an immutable snapshot row from the schedule store.
// RoomName and MovieTitle are denormalized so conflict reports can be
// rendered without further lookups.
type ExistingShowtime struct {
	ID         uint64    `json:"id"`
	RoomID     uint64    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	MovieID    uint64    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	Format     string    `json:"format"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	PriceCents uint32    `json:"price_cents"`
}

// CandidateShowtime is a not-yet-persisted screening generated from a
// scheduling request.  Once accepted it is treated exactly like an existing
// showtime for the remainder of the pass.  ReplacesID is non-zero only in
// edit mode and names the showtime being replaced.
type CandidateShowtime struct {
	Date       string    `json:"date"` // intended calendar date, DateLayout
	RoomID     uint64    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	Format     string    `json:"format"`
	Slot       string    `json:"slot"` // requested time-of-day, SlotLayout
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	MovieID    uint64    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	PriceCents uint32    `json:"price_cents"`
	ReplacesID uint64    `json:"replaces_id,omitempty"`
}

// SchedulingRequest describes a batch of showtimes to place: one movie, a set
// of rooms, a set of formats, an inclusive date range and a set of daily
// time slots.  The order of RoomIDs, Formats and Slots is significant: it
// determines expansion order and therefore which candidate wins a contested
// slot.
type SchedulingRequest struct {
	CinemaID   uint64   `json:"cinema_id"`
	MovieID    uint64   `json:"movie_id"`
	RoomIDs    []uint64 `json:"room_ids"`
	Formats    []string `json:"formats"`
	StartDate  string   `json:"start_date"` // DateLayout, inclusive
	EndDate    string   `json:"end_date"`   // DateLayout, inclusive
	Slots      []string `json:"slots"`      // SlotLayout
	PriceCents uint32   `json:"price_cents"`
}

// ConflictRef points at one screening that contributed to a rejection.
// ShowtimeID is zero when the conflicting screening is another candidate
// accepted earlier in the same pass.
type ConflictRef struct {
	ShowtimeID uint64    `json:"showtime_id,omitempty"`
	RoomName   string    `json:"room_name"`
	MovieTitle string    `json:"movie_title"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

// ConflictReport explains why one candidate was rejected.  Only the first
// failing rule is reported, so Reason is always a single value.
type ConflictReport struct {
	Candidate CandidateShowtime `json:"candidate"`
	Reason    RejectReason      `json:"reason"`
	Conflicts []ConflictRef     `json:"conflicts,omitempty"`
}

// PlanResult is the outcome of one planning pass.  Accepted and Rejected
// preserve expansion order.  Only accepted candidates may be submitted, and
// submission is expected to be blocked while Rejected is non-empty.
type PlanResult struct {
	PassID   string              `json:"pass_id"`
	Accepted []CandidateShowtime `json:"accepted"`
	Rejected []ConflictReport    `json:"rejected"`
}

// Summary returns the accepted/rejected counts for display.
func (r *PlanResult) Summary() map[string]int {
	return map[string]int{
		"accepted": len(r.Accepted),
		"rejected": len(r.Rejected),
		"total":    len(r.Accepted) + len(r.Rejected),
	}
}
