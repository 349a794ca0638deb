package planner

import "time"

// screening is the index's uniform view of an existing showtime or an
// already-accepted candidate from the same pass.  showtimeID is zero for
// same-pass candidates.
type screening struct {
	showtimeID uint64
	roomID     uint64
	roomName   string
	movieID    uint64
	movieTitle string
	format     string
	startsAt   time.Time
	endsAt     time.Time
}

func (s screening) ref() ConflictRef {
	return ConflictRef{
		ShowtimeID: s.showtimeID,
		RoomName:   s.roomName,
		MovieTitle: s.movieTitle,
		StartsAt:   s.startsAt,
		EndsAt:     s.endsAt,
	}
}

// dayKey groups screenings by an entity id (room or movie) and calendar date.
type dayKey struct {
	id   uint64
	date string
}

// ScheduleIndex holds the existing-showtime snapshot grouped for the two
// lookups the evaluator performs: by (room, date) for overlap/gap/quota
// checks and by (movie, date) for cross-room proximity checks.  It is built
// once per pass and then only grows as candidates are accepted; the
// underlying snapshot is never mutated.
type ScheduleIndex struct {
	byRoom  map[dayKey][]screening
	byMovie map[dayKey][]screening
}

// NewScheduleIndex builds the index from a schedule-store snapshot.
// excludeID, when non-zero, filters out the showtime being edited so a
// modified screening is never compared against its own prior record.
func NewScheduleIndex(existing []ExistingShowtime, excludeID uint64) *ScheduleIndex {
	idx := &ScheduleIndex{
		byRoom:  make(map[dayKey][]screening),
		byMovie: make(map[dayKey][]screening),
	}
	for _, e := range existing {
		if excludeID != 0 && e.ID == excludeID {
			continue
		}
		idx.add(screening{
			showtimeID: e.ID,
			roomID:     e.RoomID,
			roomName:   e.RoomName,
			movieID:    e.MovieID,
			movieTitle: e.MovieTitle,
			format:     e.Format,
			startsAt:   e.StartsAt,
			endsAt:     e.EndsAt,
		})
	}
	return idx
}

// InsertCandidate makes an accepted candidate visible to all subsequent
// evaluations in the same pass.
func (idx *ScheduleIndex) InsertCandidate(c CandidateShowtime) {
	idx.add(screening{
		roomID:     c.RoomID,
		roomName:   c.RoomName,
		movieID:    c.MovieID,
		movieTitle: c.MovieTitle,
		format:     c.Format,
		startsAt:   c.StartsAt,
		endsAt:     c.EndsAt,
	})
}

func (idx *ScheduleIndex) add(s screening) {
	date := s.startsAt.Format(DateLayout)
	rk := dayKey{id: s.roomID, date: date}
	mk := dayKey{id: s.movieID, date: date}
	idx.byRoom[rk] = append(idx.byRoom[rk], s)
	idx.byMovie[mk] = append(idx.byMovie[mk], s)
}

// roomDay returns the screenings in one room on one calendar date.
func (idx *ScheduleIndex) roomDay(roomID uint64, date string) []screening {
	return idx.byRoom[dayKey{id: roomID, date: date}]
}

// movieDay returns the screenings of one movie on one calendar date across
// all rooms.
func (idx *ScheduleIndex) movieDay(movieID uint64, date string) []screening {
	return idx.byMovie[dayKey{id: movieID, date: date}]
}
