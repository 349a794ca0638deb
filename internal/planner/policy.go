package planner

// FormatPolicy is the static per-format configuration consulted by the
// evaluator.  MinGapMin is the minimum distance in minutes between two
// screenings in the same room outside the lunch window.  DailyCap and
// RoomCap are declared policy limits on how many screenings of the format
// may run per day and per room; they are recorded here as hard caps but are
// only checked when cap enforcement is switched on (see EvalOptions).
// QuotaRestricted marks the format whose late-night screenings are capped
// per room.
type FormatPolicy struct {
	MinGapMin       int
	DailyCap        int
	RoomCap         int
	QuotaRestricted bool
}

// Lunch window and late-night thresholds, local cinema time.
const (
	lunchStartHour = 11 // lunch window opens at 11:00 inclusive
	lunchEndHour   = 14 // lunch window closes at 14:00 exclusive
	lunchGapMin    = 20 // widened minimum gap inside the lunch window

	lateNightHour    = 22 // screenings starting at or after 22:00 count against the quota
	lateNightRoomCap = 1  // quota-restricted screenings allowed per room per night

	proximityMin = 10 // same movie may not start within this many minutes in another room
)

// defaultGapMin applies when a candidate carries a format with no policy
// entry.
const defaultGapMin = 10

// DefaultPolicies is the programming policy table.  IMAX is the
// quota-restricted format; its wider turnaround accounts for projector
// changeover.
var DefaultPolicies = map[string]FormatPolicy{
	"2D":   {MinGapMin: 10, DailyCap: 12, RoomCap: 8},
	"3D":   {MinGapMin: 10, DailyCap: 10, RoomCap: 6},
	"4DX":  {MinGapMin: 15, DailyCap: 8, RoomCap: 4},
	"IMAX": {MinGapMin: 15, DailyCap: 6, RoomCap: 3, QuotaRestricted: true},
}

// policyFor resolves the policy for a format, falling back to a plain
// 10-minute-gap policy for unknown formats.
func policyFor(policies map[string]FormatPolicy, format string) FormatPolicy {
	if p, ok := policies[format]; ok {
		return p
	}
	return FormatPolicy{MinGapMin: defaultGapMin}
}
