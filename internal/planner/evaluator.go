package planner

import "time"

// EvalOptions tunes one evaluation pass.  ExcludeShowtimeID names the
// showtime being edited so it is left out of the quota count and the
// interval scans (the index is normally built without it already, but the
// exclusion is applied here as well so a caller-supplied index cannot make a
// screening conflict with itself).  EnforceCaps switches on the declared
// daily/room caps, which are otherwise recorded but not checked.
type EvalOptions struct {
	ExcludeShowtimeID uint64
	EnforceCaps       bool
}

// Evaluation is the decision for a single candidate.
type Evaluation struct {
	Accepted  bool
	Reason    RejectReason
	Conflicts []ConflictRef
}

// ConflictEvaluator applies the scheduling rules to one candidate at a time
// against a ScheduleIndex.  The rule order is a documented contract, not an
// implementation detail: only the first failing rule is reported, so
// reordering the rules changes user-visible reasons.  Cheap category-level
// checks (calendar bound, quota, caps) run before the interval scans, and
// the same-room overlap scan runs before the cross-room proximity heuristic
// because an overlap is the stronger, more actionable signal.
type ConflictEvaluator struct {
	policies map[string]FormatPolicy
	opts     EvalOptions
}

// NewConflictEvaluator builds an evaluator over the given policy table.
// A nil policies map falls back to DefaultPolicies.
func NewConflictEvaluator(policies map[string]FormatPolicy, opts EvalOptions) *ConflictEvaluator {
	if policies == nil {
		policies = DefaultPolicies
	}
	return &ConflictEvaluator{policies: policies, opts: opts}
}

// Evaluate decides whether the candidate may be scheduled given the current
// index.  It does not mutate the index; the caller inserts the candidate on
// acceptance so later candidates in the pass see it.
func (e *ConflictEvaluator) Evaluate(c CandidateShowtime, idx *ScheduleIndex) Evaluation {
	// Rule 1: calendar bound.  The computed start must fall on the intended
	// date and the screening must finish by midnight; a duration that rolls
	// past midnight invalidates the candidate rather than silently moving
	// it to the next day.
	if ev, ok := e.checkCalendarBound(c); !ok {
		return ev
	}

	// Rule 2: late-night quota for the quota-restricted format.
	policy := policyFor(e.policies, c.Format)
	if ev, ok := e.checkLateNightQuota(c, policy, idx); !ok {
		return ev
	}

	// Declared daily/room caps, disabled unless explicitly enforced.
	if e.opts.EnforceCaps {
		if ev, ok := e.checkDeclaredCaps(c, policy, idx); !ok {
			return ev
		}
	}

	// Rule 3: same-room overlap and minimum gap.
	if ev, ok := e.checkRoomInterval(c, policy, idx); !ok {
		return ev
	}

	// Rule 4: cross-room proximity for the same movie.
	if ev, ok := e.checkMovieProximity(c, idx); !ok {
		return ev
	}

	return Evaluation{Accepted: true}
}

func (e *ConflictEvaluator) checkCalendarBound(c CandidateShowtime) (Evaluation, bool) {
	if c.StartsAt.Format(DateLayout) != c.Date {
		return Evaluation{Reason: ReasonOutOfHours}, false
	}
	y, m, d := c.StartsAt.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, c.StartsAt.Location()).AddDate(0, 0, 1)
	if c.EndsAt.After(midnight) {
		return Evaluation{Reason: ReasonOutOfHours}, false
	}
	return Evaluation{}, true
}

func (e *ConflictEvaluator) checkLateNightQuota(c CandidateShowtime, policy FormatPolicy, idx *ScheduleIndex) (Evaluation, bool) {
	if !policy.QuotaRestricted || c.StartsAt.Hour() < lateNightHour {
		return Evaluation{}, true
	}
	var filled []ConflictRef
	for _, s := range idx.roomDay(c.RoomID, c.Date) {
		if e.excluded(s) {
			continue
		}
		if s.format == c.Format && s.startsAt.Hour() >= lateNightHour {
			filled = append(filled, s.ref())
		}
	}
	if len(filled) >= lateNightRoomCap {
		return Evaluation{Reason: ReasonLateNightQuota, Conflicts: filled}, false
	}
	return Evaluation{}, true
}

// checkDeclaredCaps enforces the per-format daily and room caps.  The counts
// walk the per-room groupings of the index for the candidate's date.
func (e *ConflictEvaluator) checkDeclaredCaps(c CandidateShowtime, policy FormatPolicy, idx *ScheduleIndex) (Evaluation, bool) {
	if policy.DailyCap <= 0 && policy.RoomCap <= 0 {
		return Evaluation{}, true
	}
	daily, inRoom := 0, 0
	for key, group := range idx.byRoom {
		if key.date != c.Date {
			continue
		}
		for _, s := range group {
			if e.excluded(s) || s.format != c.Format {
				continue
			}
			daily++
			if s.roomID == c.RoomID {
				inRoom++
			}
		}
	}
	if policy.DailyCap > 0 && daily >= policy.DailyCap {
		return Evaluation{Reason: ReasonDailyCapExceeded}, false
	}
	if policy.RoomCap > 0 && inRoom >= policy.RoomCap {
		return Evaluation{Reason: ReasonRoomCapExceeded}, false
	}
	return Evaluation{}, true
}

func (e *ConflictEvaluator) checkRoomInterval(c CandidateShowtime, policy FormatPolicy, idx *ScheduleIndex) (Evaluation, bool) {
	required := requiredGap(c, policy)
	var conflicts []ConflictRef
	overlapped := false
	for _, s := range idx.roomDay(c.RoomID, c.Date) {
		if e.excluded(s) {
			continue
		}
		if s.startsAt.Before(c.EndsAt) && c.StartsAt.Before(s.endsAt) {
			overlapped = true
			conflicts = append(conflicts, s.ref())
			continue
		}
		if gapBetween(c, s) < required {
			conflicts = append(conflicts, s.ref())
		}
	}
	if len(conflicts) == 0 {
		return Evaluation{}, true
	}
	// A true intersection dominates the reported reason over an undersized
	// gap; the refs list still carries every offender of either kind.
	reason := ReasonRoomGapTooSmall
	if overlapped {
		reason = ReasonRoomOverlap
	}
	return Evaluation{Reason: reason, Conflicts: conflicts}, false
}

func (e *ConflictEvaluator) checkMovieProximity(c CandidateShowtime, idx *ScheduleIndex) (Evaluation, bool) {
	var conflicts []ConflictRef
	for _, s := range idx.movieDay(c.MovieID, c.Date) {
		if e.excluded(s) || s.roomID == c.RoomID {
			continue
		}
		delta := c.StartsAt.Sub(s.startsAt)
		if delta < 0 {
			delta = -delta
		}
		if delta < proximityMin*time.Minute {
			conflicts = append(conflicts, s.ref())
		}
	}
	if len(conflicts) > 0 {
		return Evaluation{Reason: ReasonNearbyRoom, Conflicts: conflicts}, false
	}
	return Evaluation{}, true
}

func (e *ConflictEvaluator) excluded(s screening) bool {
	return e.opts.ExcludeShowtimeID != 0 && s.showtimeID == e.opts.ExcludeShowtimeID
}

// requiredGap widens the format's minimum gap to the lunch minimum when the
// candidate's start or end falls inside the lunch window [11:00, 14:00).
func requiredGap(c CandidateShowtime, policy FormatPolicy) time.Duration {
	gap := policy.MinGapMin
	if gap <= 0 {
		gap = defaultGapMin
	}
	if inLunchWindow(c.StartsAt) || inLunchWindow(c.EndsAt) {
		if gap < lunchGapMin {
			gap = lunchGapMin
		}
	}
	return time.Duration(gap) * time.Minute
}

func inLunchWindow(t time.Time) bool {
	h := t.Hour()
	return h >= lunchStartHour && h < lunchEndHour
}

// gapBetween returns the distance between two non-intersecting screenings in
// the same room: candidate after the other measures start minus the other's
// end, candidate before measures the other's start minus the candidate's
// end.
func gapBetween(c CandidateShowtime, s screening) time.Duration {
	if !c.StartsAt.Before(s.endsAt) {
		return c.StartsAt.Sub(s.endsAt)
	}
	return s.startsAt.Sub(c.EndsAt)
}
